package api

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Directory is a directory connection scoped to a tenant.
type Directory struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Host      string    `json:"host"`
	Port      int       `json:"port"`
	BaseDN    string    `json:"baseDn"`
	BindDN    string    `json:"bindDn"`
	UseTLS    bool      `json:"useTls"`
	CreatedAt time.Time `json:"createdAt"`
}

// DirectoryRequest creates or updates a directory connection.
type DirectoryRequest struct {
	Name         string `json:"name" validate:"required"`
	Host         string `json:"host" validate:"required,hostname|ip"`
	Port         int    `json:"port" validate:"required,min=1,max=65535"`
	BaseDN       string `json:"baseDn" validate:"required"`
	BindDN       string `json:"bindDn"`
	BindPassword string `json:"bindPassword,omitempty"`
	UseTLS       bool   `json:"useTls"`
}

// DirectoryTestResult reports the outcome of a connection test.
type DirectoryTestResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func tenantDirectoriesPath(tenantID string) string {
	return fmt.Sprintf("/admin/tenants/%s/directories", tenantID)
}

// ListDirectories returns the directory connections of a tenant.
func (c *Client) ListDirectories(ctx context.Context, tenantID string) ([]Directory, error) {
	var dirs []Directory
	if err := c.do(ctx, http.MethodGet, tenantDirectoriesPath(tenantID), nil, nil, &dirs); err != nil {
		return nil, err
	}
	return dirs, nil
}

// GetDirectory returns a single directory connection.
func (c *Client) GetDirectory(ctx context.Context, tenantID string, dirID int64) (*Directory, error) {
	var dir Directory
	path := fmt.Sprintf("%s/%d", tenantDirectoriesPath(tenantID), dirID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &dir); err != nil {
		return nil, err
	}
	return &dir, nil
}

// CreateDirectory registers a new directory connection.
func (c *Client) CreateDirectory(ctx context.Context, tenantID string, req DirectoryRequest) (*Directory, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid directory request: %w", err)
	}
	var dir Directory
	if err := c.do(ctx, http.MethodPost, tenantDirectoriesPath(tenantID), nil, req, &dir); err != nil {
		return nil, err
	}
	return &dir, nil
}

// UpdateDirectory updates an existing directory connection.
func (c *Client) UpdateDirectory(ctx context.Context, tenantID string, dirID int64, req DirectoryRequest) (*Directory, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid directory request: %w", err)
	}
	var dir Directory
	path := fmt.Sprintf("%s/%d", tenantDirectoriesPath(tenantID), dirID)
	if err := c.do(ctx, http.MethodPut, path, nil, req, &dir); err != nil {
		return nil, err
	}
	return &dir, nil
}

// DeleteDirectory removes a directory connection.
func (c *Client) DeleteDirectory(ctx context.Context, tenantID string, dirID int64) error {
	path := fmt.Sprintf("%s/%d", tenantDirectoriesPath(tenantID), dirID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// TestDirectory asks the server to verify the connection settings.
func (c *Client) TestDirectory(ctx context.Context, tenantID string, dirID int64) (*DirectoryTestResult, error) {
	var result DirectoryTestResult
	path := fmt.Sprintf("%s/%d/test", tenantDirectoriesPath(tenantID), dirID)
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
