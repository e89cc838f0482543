package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dirportal-dev/dirportal/internal/models"
)

// AdminAccount is a portal administrator account.
type AdminAccount struct {
	ID          int64              `json:"id"`
	Username    string             `json:"username"`
	AccountType models.AccountType `json:"accountType"`
	TenantID    string             `json:"tenantId,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// AdminRequest creates or updates an administrator account.
type AdminRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password,omitempty"`
	TenantID string `json:"tenantId,omitempty"`
}

// ListAdmins returns all tenant administrator accounts.
func (c *Client) ListAdmins(ctx context.Context) ([]AdminAccount, error) {
	var admins []AdminAccount
	if err := c.do(ctx, http.MethodGet, "/superadmin/admins", nil, nil, &admins); err != nil {
		return nil, err
	}
	return admins, nil
}

// GetAdmin returns one administrator account.
func (c *Client) GetAdmin(ctx context.Context, adminID int64) (*AdminAccount, error) {
	var admin AdminAccount
	path := fmt.Sprintf("/superadmin/admins/%d", adminID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

// CreateAdmin creates a tenant administrator account.
func (c *Client) CreateAdmin(ctx context.Context, req AdminRequest) (*AdminAccount, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid admin request: %w", err)
	}
	var admin AdminAccount
	if err := c.do(ctx, http.MethodPost, "/superadmin/admins", nil, req, &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

// UpdateAdmin updates a tenant administrator account.
func (c *Client) UpdateAdmin(ctx context.Context, adminID int64, req AdminRequest) (*AdminAccount, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid admin request: %w", err)
	}
	var admin AdminAccount
	path := fmt.Sprintf("/superadmin/admins/%d", adminID)
	if err := c.do(ctx, http.MethodPut, path, nil, req, &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

// DeleteAdmin removes a tenant administrator account.
func (c *Client) DeleteAdmin(ctx context.Context, adminID int64) error {
	path := fmt.Sprintf("/superadmin/admins/%d", adminID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// ListSuperadmins returns all superadmin accounts.
func (c *Client) ListSuperadmins(ctx context.Context) ([]AdminAccount, error) {
	var admins []AdminAccount
	if err := c.do(ctx, http.MethodGet, "/superadmin/superadmins", nil, nil, &admins); err != nil {
		return nil, err
	}
	return admins, nil
}

// CreateSuperadmin creates a superadmin account.
func (c *Client) CreateSuperadmin(ctx context.Context, req AdminRequest) (*AdminAccount, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid admin request: %w", err)
	}
	var admin AdminAccount
	if err := c.do(ctx, http.MethodPost, "/superadmin/superadmins", nil, req, &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

// DeleteSuperadmin removes a superadmin account.
func (c *Client) DeleteSuperadmin(ctx context.Context, adminID int64) error {
	path := fmt.Sprintf("/superadmin/superadmins/%d", adminID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
