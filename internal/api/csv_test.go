package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportUsersSendsMultipartForm(t *testing.T) {
	var gotFile string
	var gotRequest ImportRequest

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "new-hires.csv", header.Filename)
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		gotFile = string(data)

		require.NoError(t, json.Unmarshal([]byte(r.FormValue("request")), &gotRequest))

		w.Write([]byte(`{"created":2,"updated":0,"skipped":1,"errors":["row 4: missing email"]}`))
	})

	client := newTestClient(t, handler, &BearerTransport{Tokens: &staticTokens{token: "tok"}})

	csvBody := "username,email\nalice,alice@example.com\n"
	result, err := client.ImportUsers(context.Background(), 3, "new-hires.csv",
		strings.NewReader(csvBody), ImportRequest{TemplateID: 9, OU: "ou=People", DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, csvBody, gotFile)
	assert.Equal(t, int64(9), gotRequest.TemplateID)
	assert.Equal(t, "ou=People", gotRequest.OU)
	assert.True(t, gotRequest.DryRun)

	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Skipped)
	assert.Len(t, result.Errors, 1)
}

func TestCreateCsvTemplateRequiresColumns(t *testing.T) {
	called := false
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}), &BearerTransport{Tokens: &staticTokens{token: "tok"}})

	_, err := client.CreateCsvTemplate(context.Background(), 3, CsvTemplateRequest{Name: "empty"})
	require.Error(t, err)
	assert.False(t, called)
}
