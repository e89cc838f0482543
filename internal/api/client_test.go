package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens struct {
	token string
}

func (s *staticTokens) Token() (string, error) {
	return s.token, nil
}

func newTestClient(t *testing.T, handler http.Handler, transport Transport) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(server.URL, transport, zerolog.Nop())
	require.NoError(t, err)
	// The httptest server speaks plain HTTP, no TLS config needed
	require.NoError(t, client.SetHTTPClient(server.Client()))
	return client
}

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"id":1,"username":"alice","accountType":"ADMIN"}`))
	})

	client := newTestClient(t, handler, &BearerTransport{Tokens: &staticTokens{token: "tok-123"}})

	_, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClientOmitsAuthorizationWithoutToken(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	})

	client := newTestClient(t, handler, &BearerTransport{Tokens: &staticTokens{}})

	_, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClientSetsRequestIDAndAPIPrefix(t *testing.T) {
	var gotPath, gotRequestID string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{}`))
	})

	client := newTestClient(t, handler, &BearerTransport{Tokens: &staticTokens{}})

	_, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/api/auth/me", gotPath)
	assert.NotEmpty(t, gotRequestID)
}

func TestClientNotifiesObserversOn401(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"token expired"}`))
	})

	client := newTestClient(t, handler, &BearerTransport{Tokens: &staticTokens{token: "stale"}})

	notified := 0
	client.OnUnauthorized(func() { notified++ })
	client.OnUnauthorized(func() { notified++ })

	_, err := client.Me(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, 2, notified, "every registered observer must fire")
	assert.Contains(t, err.Error(), "token expired")
}

func TestClientDoesNotNotifyOnOtherErrors(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"superadmin required"}`))
	})

	client := newTestClient(t, handler, &BearerTransport{Tokens: &staticTokens{token: "tok"}})

	notified := 0
	client.OnUnauthorized(func() { notified++ })

	_, err := client.Me(context.Background())
	require.Error(t, err)
	assert.False(t, IsUnauthorized(err))
	assert.Zero(t, notified, "a 403 is not a credential rejection")

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "superadmin required", apiErr.Detail)
}

func TestCookieTransportRoundTripsSessionCookie(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			http.SetCookie(w, &http.Cookie{Name: "SESSION", Value: "opaque-id"})
			w.Write([]byte(`{"id":1,"username":"alice","accountType":"ADMIN"}`))
		case "/api/auth/me":
			cookie, err := r.Cookie("SESSION")
			if err != nil || cookie.Value != "opaque-id" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{"id":1,"username":"alice","accountType":"ADMIN"}`))
		}
	})

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(server.URL, &CookieTransport{}, zerolog.Nop())
	require.NoError(t, err)

	result, err := client.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Empty(t, result.Token, "cookie deployments never hand the client a token")

	principal, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", principal.Username)
}

func TestLoginValidatesCredentialsLocally(t *testing.T) {
	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	client := newTestClient(t, handler, &BearerTransport{Tokens: &staticTokens{}})

	_, err := client.Login(context.Background(), "", "")
	require.Error(t, err)
	assert.False(t, called, "invalid credentials must not reach the wire")
}

func TestDownloadReadsFilenameFromContentDisposition(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="users.csv"`)
		w.Write([]byte("username,email\n"))
	})

	client := newTestClient(t, handler, &BearerTransport{Tokens: &staticTokens{token: "tok"}})

	data, filename, err := client.ExportUsers(context.Background(), 7, SearchParams{})
	require.NoError(t, err)
	assert.Equal(t, "users.csv", filename)
	assert.Equal(t, "username,email\n", string(data))
}
