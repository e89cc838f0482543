package router

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dirportal-dev/dirportal/internal/api"
	"github.com/dirportal-dev/dirportal/internal/models"
	"github.com/dirportal-dev/dirportal/internal/session"
)

// probeAuthAPI counts identity probes; login and logout are never reached by
// the guard.
type probeAuthAPI struct {
	principal *models.Principal
	calls     atomic.Int32
}

func (p *probeAuthAPI) Login(ctx context.Context, username, password string) (*api.LoginResult, error) {
	panic("guard must not log in")
}

func (p *probeAuthAPI) Logout(ctx context.Context) error {
	panic("guard must not log out")
}

func (p *probeAuthAPI) Me(ctx context.Context) (*models.Principal, error) {
	p.calls.Add(1)
	if p.principal == nil {
		return nil, &api.Error{Status: 401}
	}
	return p.principal, nil
}

type noCreds struct{}

func (noCreds) Resume() (*models.Principal, bool, error) { return nil, false, nil }
func (noCreds) Save(string, *models.Principal) error { return nil }
func (noCreds) Clear() error { return nil }

// guardWith builds a guard over a cookie-mode session store whose identity
// probe yields the given principal (nil meaning "no session").
func guardWith(principal *models.Principal) (*Guard, *probeAuthAPI) {
	authAPI := &probeAuthAPI{principal: principal}
	sessions := session.NewStore(session.ModeCookie, authAPI, noCreds{}, zerolog.Nop())
	return NewGuard(sessions), authAPI
}

func TestGuardAllowsPublicRouteWithoutRestore(t *testing.T) {
	guard, authAPI := guardWith(nil)

	decision, err := guard.Evaluate(context.Background(), LoginPath)
	require.NoError(t, err)

	assert.True(t, decision.Allow)
	assert.Zero(t, authAPI.calls.Load(), "public routes never wait for session restoration")
}

func TestGuardRedirectsAnonymousToLoginWithTarget(t *testing.T) {
	guard, _ := guardWith(nil)

	decision, err := guard.Evaluate(context.Background(), "/directories/5/users")
	require.NoError(t, err)

	assert.False(t, decision.Allow)
	assert.Equal(t, "/login?redirect=%2Fdirectories%2F5%2Fusers", decision.RedirectTo)
}

func TestGuardRestoresLazilyOnFirstProtectedNavigation(t *testing.T) {
	guard, authAPI := guardWith(&models.Principal{ID: 1, Username: "alice", AccountType: models.AccountAdmin})

	for i := 0; i < 3; i++ {
		decision, err := guard.Evaluate(context.Background(), DefaultPath)
		require.NoError(t, err)
		assert.True(t, decision.Allow)
	}

	assert.Equal(t, int32(1), authAPI.calls.Load(), "only the first navigation restores")
}

func TestGuardAllowsAdminOnRegularRoutes(t *testing.T) {
	guard, _ := guardWith(&models.Principal{ID: 1, Username: "alice", AccountType: models.AccountAdmin})

	for _, dest := range []string{"/directories", "/directories/2/groups", "/settings"} {
		decision, err := guard.Evaluate(context.Background(), dest)
		require.NoError(t, err)
		assert.True(t, decision.Allow, dest)
	}
}

func TestGuardSendsUnderPrivilegedToDefaultNotLogin(t *testing.T) {
	guard, _ := guardWith(&models.Principal{ID: 1, Username: "alice", AccountType: models.AccountAdmin})

	decision, err := guard.Evaluate(context.Background(), "/superadmin")
	require.NoError(t, err)

	assert.False(t, decision.Allow)
	assert.Equal(t, DefaultPath, decision.RedirectTo, "an authenticated user is never sent back to login")
}

func TestGuardAllowsSuperadminEverywhere(t *testing.T) {
	guard, _ := guardWith(&models.Principal{ID: 2, Username: "root", AccountType: models.AccountSuperadmin})

	for _, dest := range []string{"/superadmin", "/superadmin/tenants", "/directories"} {
		decision, err := guard.Evaluate(context.Background(), dest)
		require.NoError(t, err)
		assert.True(t, decision.Allow, dest)
	}
}

func TestGuardRedirectsUnknownDestinationToDefault(t *testing.T) {
	guard, _ := guardWith(&models.Principal{ID: 1, Username: "alice", AccountType: models.AccountAdmin})

	decision, err := guard.Evaluate(context.Background(), "/no/such/place")
	require.NoError(t, err)

	assert.False(t, decision.Allow)
	assert.Equal(t, DefaultPath, decision.RedirectTo)
}
