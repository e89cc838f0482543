package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// AuditEvent is one entry of an audit log.
type AuditEvent struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	TargetDN  string    `json:"targetDn,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// AuditQuery filters an audit log request.
type AuditQuery struct {
	Actor  string
	Action string
	From   time.Time
	To     time.Time
	Page   int
	Size   int
}

func (q AuditQuery) values() url.Values {
	v := url.Values{}
	if q.Actor != "" {
		v.Set("actor", q.Actor)
	}
	if q.Action != "" {
		v.Set("action", q.Action)
	}
	if !q.From.IsZero() {
		v.Set("from", q.From.UTC().Format(time.RFC3339))
	}
	if !q.To.IsZero() {
		v.Set("to", q.To.UTC().Format(time.RFC3339))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	return v
}

// AuditPage is one page of audit events.
type AuditPage struct {
	Items []AuditEvent `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
}

// AuditSource is an external audit data source attached to a directory or
// tenant, synchronized into the portal's audit log.
type AuditSource struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Kind         string     `json:"kind"`
	Endpoint     string     `json:"endpoint"`
	LastSyncedAt *time.Time `json:"lastSyncedAt,omitempty"`
}

// AuditSourceRequest creates or updates an audit data source.
type AuditSourceRequest struct {
	Name     string `json:"name" validate:"required"`
	Kind     string `json:"kind" validate:"required"`
	Endpoint string `json:"endpoint" validate:"required,url"`
}

// GetAuditLog returns the audit log of one directory.
func (c *Client) GetAuditLog(ctx context.Context, dirID int64, query AuditQuery) (*AuditPage, error) {
	var page AuditPage
	path := fmt.Sprintf("/directories/%d/audit", dirID)
	if err := c.do(ctx, http.MethodGet, path, query.values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetSuperadminAuditLog returns the portal-wide audit log.
func (c *Client) GetSuperadminAuditLog(ctx context.Context, query AuditQuery) (*AuditPage, error) {
	var page AuditPage
	if err := c.do(ctx, http.MethodGet, "/superadmin/audit", query.values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func auditSourcesPath(dirID int64) string {
	return fmt.Sprintf("/directories/%d/audit-sources", dirID)
}

// ListAuditSources returns the audit data sources of a directory.
func (c *Client) ListAuditSources(ctx context.Context, dirID int64) ([]AuditSource, error) {
	var sources []AuditSource
	if err := c.do(ctx, http.MethodGet, auditSourcesPath(dirID), nil, nil, &sources); err != nil {
		return nil, err
	}
	return sources, nil
}

// CreateAuditSource attaches an audit data source to a directory.
func (c *Client) CreateAuditSource(ctx context.Context, dirID int64, req AuditSourceRequest) (*AuditSource, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid audit source request: %w", err)
	}
	var source AuditSource
	if err := c.do(ctx, http.MethodPost, auditSourcesPath(dirID), nil, req, &source); err != nil {
		return nil, err
	}
	return &source, nil
}

// DeleteAuditSource detaches an audit data source from a directory.
func (c *Client) DeleteAuditSource(ctx context.Context, dirID, sourceID int64) error {
	path := fmt.Sprintf("%s/%d", auditSourcesPath(dirID), sourceID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// SyncAuditSource triggers an immediate synchronization of a source.
func (c *Client) SyncAuditSource(ctx context.Context, dirID, sourceID int64) error {
	path := fmt.Sprintf("%s/%d/sync", auditSourcesPath(dirID), sourceID)
	return c.do(ctx, http.MethodPost, path, nil, nil, nil)
}

func tenantAuditSourcesPath(tenantID string) string {
	return fmt.Sprintf("/superadmin/tenants/%s/audit-sources", tenantID)
}

// ListTenantAuditSources returns the tenant-level audit data sources.
func (c *Client) ListTenantAuditSources(ctx context.Context, tenantID string) ([]AuditSource, error) {
	var sources []AuditSource
	if err := c.do(ctx, http.MethodGet, tenantAuditSourcesPath(tenantID), nil, nil, &sources); err != nil {
		return nil, err
	}
	return sources, nil
}

// CreateTenantAuditSource attaches an audit data source to a tenant.
func (c *Client) CreateTenantAuditSource(ctx context.Context, tenantID string, req AuditSourceRequest) (*AuditSource, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid audit source request: %w", err)
	}
	var source AuditSource
	if err := c.do(ctx, http.MethodPost, tenantAuditSourcesPath(tenantID), nil, req, &source); err != nil {
		return nil, err
	}
	return &source, nil
}

// GetTenantAuditSource returns one tenant-level audit data source.
func (c *Client) GetTenantAuditSource(ctx context.Context, tenantID string, sourceID int64) (*AuditSource, error) {
	var source AuditSource
	path := fmt.Sprintf("%s/%d", tenantAuditSourcesPath(tenantID), sourceID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &source); err != nil {
		return nil, err
	}
	return &source, nil
}

// UpdateTenantAuditSource updates a tenant-level audit data source.
func (c *Client) UpdateTenantAuditSource(ctx context.Context, tenantID string, sourceID int64, req AuditSourceRequest) (*AuditSource, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid audit source request: %w", err)
	}
	var source AuditSource
	path := fmt.Sprintf("%s/%d", tenantAuditSourcesPath(tenantID), sourceID)
	if err := c.do(ctx, http.MethodPut, path, nil, req, &source); err != nil {
		return nil, err
	}
	return &source, nil
}

// DeleteTenantAuditSource removes a tenant-level audit data source.
func (c *Client) DeleteTenantAuditSource(ctx context.Context, tenantID string, sourceID int64) error {
	path := fmt.Sprintf("%s/%d", tenantAuditSourcesPath(tenantID), sourceID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
