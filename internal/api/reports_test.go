package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReportJobRejectsBadSchedule(t *testing.T) {
	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	client := newTestClient(t, handler, &BearerTransport{Tokens: &staticTokens{token: "tok"}})

	_, err := client.CreateReportJob(context.Background(), 1, ReportJobRequest{
		Name:     "weekly logins",
		Kind:     "logins",
		Schedule: "not a cron line",
		Format:   "csv",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid schedule")
	assert.False(t, called, "a bad schedule must fail before the round trip")
}

func TestCreateReportJobAcceptsStandardCron(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":42,"name":"weekly logins","kind":"logins","schedule":"0 6 * * 1","format":"csv","enabled":true}`))
	})

	client := newTestClient(t, handler, &BearerTransport{Tokens: &staticTokens{token: "tok"}})

	job, err := client.CreateReportJob(context.Background(), 1, ReportJobRequest{
		Name:     "weekly logins",
		Kind:     "logins",
		Schedule: "0 6 * * 1",
		Format:   "csv",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), job.ID)
}

func TestCreateReportJobAllowsManualOnly(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":7,"name":"ad hoc","kind":"users","format":"pdf"}`))
	})

	client := newTestClient(t, handler, &BearerTransport{Tokens: &staticTokens{token: "tok"}})

	job, err := client.CreateReportJob(context.Background(), 1, ReportJobRequest{
		Name:   "ad hoc",
		Kind:   "users",
		Format: "pdf",
	})
	require.NoError(t, err)
	assert.Empty(t, job.Schedule)
}

func TestReportJobRequestValidatesFormat(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
		&BearerTransport{Tokens: &staticTokens{token: "tok"}})

	_, err := client.CreateReportJob(context.Background(), 1, ReportJobRequest{
		Name:   "bad format",
		Kind:   "users",
		Format: "xlsx",
	})
	require.Error(t, err)
}
