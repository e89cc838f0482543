package api

import (
	"context"
	"fmt"
	"net/http"
)

// AttributeProfile is a named set of directory attributes shown together in
// user views.
type AttributeProfile struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Attributes []string `json:"attributes"`
	Default    bool     `json:"default"`
}

// AttributeProfileRequest creates or updates an attribute profile.
type AttributeProfileRequest struct {
	Name       string   `json:"name" validate:"required"`
	Attributes []string `json:"attributes" validate:"required,min=1"`
	Default    bool     `json:"default"`
}

func profilesPath(dirID int64) string {
	return fmt.Sprintf("/directories/%d/attribute-profiles", dirID)
}

// ListAttributeProfiles returns the attribute profiles of a directory.
func (c *Client) ListAttributeProfiles(ctx context.Context, dirID int64) ([]AttributeProfile, error) {
	var profiles []AttributeProfile
	if err := c.do(ctx, http.MethodGet, profilesPath(dirID), nil, nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// GetAttributeProfile returns a single attribute profile.
func (c *Client) GetAttributeProfile(ctx context.Context, dirID, profileID int64) (*AttributeProfile, error) {
	var profile AttributeProfile
	path := fmt.Sprintf("%s/%d", profilesPath(dirID), profileID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// CreateAttributeProfile creates an attribute profile.
func (c *Client) CreateAttributeProfile(ctx context.Context, dirID int64, req AttributeProfileRequest) (*AttributeProfile, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid profile request: %w", err)
	}
	var profile AttributeProfile
	if err := c.do(ctx, http.MethodPost, profilesPath(dirID), nil, req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateAttributeProfile updates an attribute profile.
func (c *Client) UpdateAttributeProfile(ctx context.Context, dirID, profileID int64, req AttributeProfileRequest) (*AttributeProfile, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid profile request: %w", err)
	}
	var profile AttributeProfile
	path := fmt.Sprintf("%s/%d", profilesPath(dirID), profileID)
	if err := c.do(ctx, http.MethodPut, path, nil, req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// DeleteAttributeProfile removes an attribute profile.
func (c *Client) DeleteAttributeProfile(ctx context.Context, dirID, profileID int64) error {
	path := fmt.Sprintf("%s/%d", profilesPath(dirID), profileID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
