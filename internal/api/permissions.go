package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// RealmRole binds an administrator to a role inside one realm.
type RealmRole struct {
	RealmID int64  `json:"realmId"`
	Role    string `json:"role"`
}

// AdminPermissions is the full permission set of one administrator.
type AdminPermissions struct {
	AdminID            int64           `json:"adminId"`
	RealmRoles         []RealmRole     `json:"realmRoles"`
	BranchRestrictions []string        `json:"branchRestrictions"`
	Features           map[string]bool `json:"features"`
}

// RealmRoleRequest assigns a realm role.
type RealmRoleRequest struct {
	RealmID int64  `json:"realmId" validate:"required"`
	Role    string `json:"role" validate:"required"`
}

// BranchRestrictionsRequest limits an administrator to subtrees of the
// directory.
type BranchRestrictionsRequest struct {
	BaseDNs []string `json:"baseDns" validate:"required"`
}

func permissionsPath(adminID int64) string {
	return fmt.Sprintf("/superadmin/admins/%d/permissions", adminID)
}

// GetAdminPermissions returns the permission set of an administrator.
func (c *Client) GetAdminPermissions(ctx context.Context, adminID int64) (*AdminPermissions, error) {
	var perms AdminPermissions
	if err := c.do(ctx, http.MethodGet, permissionsPath(adminID), nil, nil, &perms); err != nil {
		return nil, err
	}
	return &perms, nil
}

// SetRealmRole assigns or replaces a realm role for an administrator.
func (c *Client) SetRealmRole(ctx context.Context, adminID int64, req RealmRoleRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("invalid realm role request: %w", err)
	}
	return c.do(ctx, http.MethodPut, permissionsPath(adminID)+"/realm-roles", nil, req, nil)
}

// RemoveRealmRole removes a realm role from an administrator.
func (c *Client) RemoveRealmRole(ctx context.Context, adminID, realmID int64) error {
	path := fmt.Sprintf("%s/realm-roles/%d", permissionsPath(adminID), realmID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// SetBranchRestrictions replaces an administrator's subtree restrictions.
func (c *Client) SetBranchRestrictions(ctx context.Context, adminID int64, req BranchRestrictionsRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("invalid branch restrictions request: %w", err)
	}
	return c.do(ctx, http.MethodPut, permissionsPath(adminID)+"/branch-restrictions", nil, req, nil)
}

// SetFeaturePermissions replaces an administrator's feature flags.
func (c *Client) SetFeaturePermissions(ctx context.Context, adminID int64, features map[string]bool) error {
	return c.do(ctx, http.MethodPut, permissionsPath(adminID)+"/features", nil, features, nil)
}

// ClearFeaturePermission removes one feature flag from an administrator.
func (c *Client) ClearFeaturePermission(ctx context.Context, adminID int64, featureKey string) error {
	path := permissionsPath(adminID) + "/features/" + url.PathEscape(featureKey)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
