package api

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
)

// Transport attaches the deployment's credential model to outbound requests.
// Exactly one implementation is active per process; the bearer and cookie
// models must never be mixed.
type Transport interface {
	// Configure prepares the HTTP client once at construction time.
	Configure(client *http.Client) error
	// Prepare attaches credentials to an outgoing request.
	Prepare(req *http.Request) error
}

// TokenSource provides the bearer token held by the client, or "" when no
// credential is currently persisted.
type TokenSource interface {
	Token() (string, error)
}

// BearerTransport implements the client-held token credential model: the
// token is loaded from local durable storage and attached as an
// Authorization header on every request.
type BearerTransport struct {
	Tokens TokenSource
}

func (t *BearerTransport) Configure(client *http.Client) error {
	return nil
}

func (t *BearerTransport) Prepare(req *http.Request) error {
	token, err := t.Tokens.Token()
	if err != nil {
		return fmt.Errorf("failed to load token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// CookieTransport implements the server-issued opaque cookie credential
// model. The cookie jar attaches the session cookie automatically; client
// code never reads it.
type CookieTransport struct{}

func (t *CookieTransport) Configure(client *http.Client) error {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("failed to create cookie jar: %w", err)
	}
	client.Jar = jar
	return nil
}

func (t *CookieTransport) Prepare(req *http.Request) error {
	return nil
}
