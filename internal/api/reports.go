package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
)

// ReportJob is a scheduled report definition.
type ReportJob struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Kind      string     `json:"kind"`
	Schedule  string     `json:"schedule,omitempty"`
	Format    string     `json:"format"`
	Enabled   bool       `json:"enabled"`
	LastRunAt *time.Time `json:"lastRunAt,omitempty"`
}

// ReportJobRequest creates or updates a report job. Schedule is a standard
// five-field cron expression; empty means manual runs only.
type ReportJobRequest struct {
	Name     string `json:"name" validate:"required"`
	Kind     string `json:"kind" validate:"required"`
	Schedule string `json:"schedule,omitempty"`
	Format   string `json:"format" validate:"required,oneof=csv pdf"`
}

// RunReportRequest triggers an immediate, one-off report.
type RunReportRequest struct {
	Kind   string `json:"kind" validate:"required"`
	Format string `json:"format" validate:"required,oneof=csv pdf"`
	Filter string `json:"filter,omitempty"`
}

func (r ReportJobRequest) validateSchedule() error {
	if r.Schedule == "" {
		return nil
	}
	if _, err := cron.ParseStandard(r.Schedule); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", r.Schedule, err)
	}
	return nil
}

func reportJobsPath(dirID int64) string {
	return fmt.Sprintf("/directories/%d/report-jobs", dirID)
}

// ListReportJobs returns the report jobs of a directory.
func (c *Client) ListReportJobs(ctx context.Context, dirID int64, params SearchParams) ([]ReportJob, error) {
	var jobs []ReportJob
	if err := c.do(ctx, http.MethodGet, reportJobsPath(dirID), params.values(), nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// GetReportJob returns a single report job.
func (c *Client) GetReportJob(ctx context.Context, dirID, jobID int64) (*ReportJob, error) {
	var job ReportJob
	path := fmt.Sprintf("%s/%d", reportJobsPath(dirID), jobID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// CreateReportJob creates a report job. The schedule is validated locally
// before the round trip.
func (c *Client) CreateReportJob(ctx context.Context, dirID int64, req ReportJobRequest) (*ReportJob, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid report job request: %w", err)
	}
	if err := req.validateSchedule(); err != nil {
		return nil, err
	}
	var job ReportJob
	if err := c.do(ctx, http.MethodPost, reportJobsPath(dirID), nil, req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// UpdateReportJob updates a report job.
func (c *Client) UpdateReportJob(ctx context.Context, dirID, jobID int64, req ReportJobRequest) (*ReportJob, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid report job request: %w", err)
	}
	if err := req.validateSchedule(); err != nil {
		return nil, err
	}
	var job ReportJob
	path := fmt.Sprintf("%s/%d", reportJobsPath(dirID), jobID)
	if err := c.do(ctx, http.MethodPut, path, nil, req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// DeleteReportJob removes a report job.
func (c *Client) DeleteReportJob(ctx context.Context, dirID, jobID int64) error {
	path := fmt.Sprintf("%s/%d", reportJobsPath(dirID), jobID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// SetReportJobEnabled toggles a report job on or off.
func (c *Client) SetReportJobEnabled(ctx context.Context, dirID, jobID int64, enabled bool) error {
	path := fmt.Sprintf("%s/%d/enabled", reportJobsPath(dirID), jobID)
	query := url.Values{"enabled": []string{strconv.FormatBool(enabled)}}
	return c.do(ctx, http.MethodPatch, path, query, nil, nil)
}

// RunReport executes a report immediately and returns the rendered output
// plus the server-suggested filename.
func (c *Client) RunReport(ctx context.Context, dirID int64, req RunReportRequest) ([]byte, string, error) {
	if err := validate.Struct(req); err != nil {
		return nil, "", fmt.Errorf("invalid report request: %w", err)
	}
	path := fmt.Sprintf("/directories/%d/reports/run", dirID)
	return c.download(ctx, http.MethodPost, path, nil, req)
}
