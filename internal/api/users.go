package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// UserEntry is a directory user as returned by the portal.
type UserEntry struct {
	DN        string   `json:"dn"`
	Username  string   `json:"username"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Enabled   bool     `json:"enabled"`
	Groups    []string `json:"groups,omitempty"`
}

// UserRequest creates or updates a directory user.
type UserRequest struct {
	Username   string            `json:"username" validate:"required"`
	FirstName  string            `json:"firstName"`
	LastName   string            `json:"lastName"`
	Email      string            `json:"email" validate:"omitempty,email"`
	Password   string            `json:"password,omitempty"`
	OU         string            `json:"ou,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// MoveUserRequest relocates a user to another organizational unit.
type MoveUserRequest struct {
	TargetOU string `json:"targetOu" validate:"required"`
}

// SearchParams are the paging and filter parameters shared by the search
// endpoints.
type SearchParams struct {
	Query string
	OU    string
	Page  int
	Size  int
}

func (p SearchParams) values() url.Values {
	v := url.Values{}
	if p.Query != "" {
		v.Set("q", p.Query)
	}
	if p.OU != "" {
		v.Set("ou", p.OU)
	}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Size > 0 {
		v.Set("size", strconv.Itoa(p.Size))
	}
	return v
}

// UserPage is one page of a user search result.
type UserPage struct {
	Items []UserEntry `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
}

func usersPath(dirID int64) string {
	return fmt.Sprintf("/directories/%d/users", dirID)
}

func userPath(dirID int64, dn string) string {
	return usersPath(dirID) + "/" + url.PathEscape(dn)
}

// SearchUsers searches directory users.
func (c *Client) SearchUsers(ctx context.Context, dirID int64, params SearchParams) (*UserPage, error) {
	var page UserPage
	if err := c.do(ctx, http.MethodGet, usersPath(dirID), params.values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetUser returns a single user by DN.
func (c *Client) GetUser(ctx context.Context, dirID int64, dn string) (*UserEntry, error) {
	var user UserEntry
	if err := c.do(ctx, http.MethodGet, userPath(dirID, dn), nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a new directory user.
func (c *Client) CreateUser(ctx context.Context, dirID int64, req UserRequest) (*UserEntry, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid user request: %w", err)
	}
	var user UserEntry
	if err := c.do(ctx, http.MethodPost, usersPath(dirID), nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates an existing directory user.
func (c *Client) UpdateUser(ctx context.Context, dirID int64, dn string, req UserRequest) (*UserEntry, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid user request: %w", err)
	}
	var user UserEntry
	if err := c.do(ctx, http.MethodPut, userPath(dirID, dn), nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a directory user.
func (c *Client) DeleteUser(ctx context.Context, dirID int64, dn string) error {
	return c.do(ctx, http.MethodDelete, userPath(dirID, dn), nil, nil, nil)
}

// EnableUser re-enables a disabled account.
func (c *Client) EnableUser(ctx context.Context, dirID int64, dn string) error {
	return c.do(ctx, http.MethodPost, userPath(dirID, dn)+"/enable", nil, nil, nil)
}

// DisableUser disables an account without deleting it.
func (c *Client) DisableUser(ctx context.Context, dirID int64, dn string) error {
	return c.do(ctx, http.MethodPost, userPath(dirID, dn)+"/disable", nil, nil, nil)
}

// MoveUser relocates a user to another organizational unit.
func (c *Client) MoveUser(ctx context.Context, dirID int64, dn string, req MoveUserRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("invalid move request: %w", err)
	}
	return c.do(ctx, http.MethodPost, userPath(dirID, dn)+"/move", nil, req, nil)
}
