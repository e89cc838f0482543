package api

import (
	"context"
	"fmt"
	"net/http"
)

// Settings are the portal-wide application settings.
type Settings struct {
	SessionTimeoutMinutes int    `json:"sessionTimeoutMinutes"`
	AuditRetentionDays    int    `json:"auditRetentionDays"`
	DefaultPageSize       int    `json:"defaultPageSize"`
	Locale                string `json:"locale"`
}

// SettingsRequest updates the application settings.
type SettingsRequest struct {
	SessionTimeoutMinutes int    `json:"sessionTimeoutMinutes" validate:"min=1"`
	AuditRetentionDays    int    `json:"auditRetentionDays" validate:"min=1"`
	DefaultPageSize       int    `json:"defaultPageSize" validate:"min=1,max=500"`
	Locale                string `json:"locale"`
}

// GetSettings returns the application settings.
func (c *Client) GetSettings(ctx context.Context) (*Settings, error) {
	var settings Settings
	if err := c.do(ctx, http.MethodGet, "/settings", nil, nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings replaces the application settings.
func (c *Client) UpdateSettings(ctx context.Context, req SettingsRequest) (*Settings, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid settings request: %w", err)
	}
	var settings Settings
	if err := c.do(ctx, http.MethodPut, "/settings", nil, req, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}
