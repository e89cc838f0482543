package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dirportal-dev/dirportal/internal/models"
)

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is the body of a successful login. Token is only populated when
// the server runs the bearer-token credential model; in the cookie model the
// session cookie rides on the response instead.
type LoginResult struct {
	models.Principal
	Token string `json:"token,omitempty"`
}

// Login authenticates with username and password.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	creds := Credentials{Username: username, Password: password}
	if err := validate.Struct(creds); err != nil {
		return nil, fmt.Errorf("invalid credentials request: %w", err)
	}

	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, creds, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Logout asks the server to invalidate the current session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

// Me is the identity probe: "who, if anyone, am I authenticated as".
func (c *Client) Me(ctx context.Context) (*models.Principal, error) {
	var principal models.Principal
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &principal); err != nil {
		return nil, err
	}
	return &principal, nil
}
