package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized marks a 401 response. By the time a caller observes it the
// pipeline has already signaled de-authentication to its observers.
var ErrUnauthorized = errors.New("unauthorized")

// Error is a non-2xx response from the portal API. Detail carries the
// server's human-readable message verbatim, when one was provided.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("portal api: %s (status %d)", e.Detail, e.Status)
	}
	return fmt.Sprintf("portal api: status %d", e.Status)
}

func (e *Error) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// IsUnauthorized reports whether err stems from a rejected credential.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// newError maps an error response body to an Error. The server emits either
// a "detail" or a "message" field depending on the handler.
func newError(status int, body []byte) *Error {
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Err     string `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)

	detail := payload.Detail
	if detail == "" {
		detail = payload.Message
	}
	if detail == "" {
		detail = payload.Err
	}

	return &Error{Status: status, Detail: detail}
}
