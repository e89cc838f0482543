package session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dirportal-dev/dirportal/internal/api"
	"github.com/dirportal-dev/dirportal/internal/models"
)

type fakeAuthAPI struct {
	loginResult *api.LoginResult
	loginErr    error
	logoutErr   error
	mePrincipal *models.Principal
	meErr       error

	meCalls     atomic.Int32
	logoutCalls atomic.Int32
}

func (f *fakeAuthAPI) Login(ctx context.Context, username, password string) (*api.LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResult, nil
}

func (f *fakeAuthAPI) Logout(ctx context.Context) error {
	f.logoutCalls.Add(1)
	return f.logoutErr
}

func (f *fakeAuthAPI) Me(ctx context.Context) (*models.Principal, error) {
	f.meCalls.Add(1)
	if f.meErr != nil {
		return nil, f.meErr
	}
	return f.mePrincipal, nil
}

type fakeCreds struct {
	mu        sync.Mutex
	principal *models.Principal
	token     string
	resumeErr error
	clearErr  error

	resumeCalls int
	clearCalls  int
}

func (f *fakeCreds) Resume() (*models.Principal, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resumeCalls++
	if f.resumeErr != nil {
		return nil, false, f.resumeErr
	}
	if f.token == "" || f.principal == nil {
		return nil, false, nil
	}
	return f.principal, true, nil
}

func (f *fakeCreds) Save(token string, p *models.Principal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
	f.principal = p
	return nil
}

func (f *fakeCreds) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearCalls++
	if f.clearErr != nil {
		return f.clearErr
	}
	f.token = ""
	f.principal = nil
	return nil
}

func adminPrincipal() *models.Principal {
	return &models.Principal{ID: 1, Username: "alice", AccountType: models.AccountAdmin, TenantID: "acme"}
}

func TestStoreStartsUnchecked(t *testing.T) {
	store := NewStore(ModeBearer, &fakeAuthAPI{}, &fakeCreds{}, zerolog.Nop())
	assert.Equal(t, Unchecked, store.State())
	assert.False(t, store.IsLoggedIn())
	assert.False(t, store.IsSuperadmin())
	assert.Empty(t, store.Username())
}

func TestRestoreBearerResumesPersistedCredential(t *testing.T) {
	creds := &fakeCreds{token: "tok", principal: adminPrincipal()}
	store := NewStore(ModeBearer, &fakeAuthAPI{}, creds, zerolog.Nop())

	require.NoError(t, store.Restore(context.Background()))

	assert.Equal(t, Authenticated, store.State())
	assert.True(t, store.IsLoggedIn())
	assert.Equal(t, "alice", store.Username())
}

func TestRestoreBearerWithoutCredentialIsAnonymous(t *testing.T) {
	store := NewStore(ModeBearer, &fakeAuthAPI{}, &fakeCreds{}, zerolog.Nop())

	require.NoError(t, store.Restore(context.Background()))

	assert.Equal(t, Anonymous, store.State())
	assert.False(t, store.IsLoggedIn())
}

func TestRestoreCookieProbesIdentity(t *testing.T) {
	authAPI := &fakeAuthAPI{mePrincipal: adminPrincipal()}
	store := NewStore(ModeCookie, authAPI, &fakeCreds{}, zerolog.Nop())

	require.NoError(t, store.Restore(context.Background()))

	assert.Equal(t, Authenticated, store.State())
	assert.Equal(t, int32(1), authAPI.meCalls.Load())
}

func TestRestoreCookieProbeFailureIsAnonymousNotError(t *testing.T) {
	authAPI := &fakeAuthAPI{meErr: &api.Error{Status: 401}}
	store := NewStore(ModeCookie, authAPI, &fakeCreds{}, zerolog.Nop())

	require.NoError(t, store.Restore(context.Background()))

	assert.Equal(t, Anonymous, store.State())
}

func TestRestoreIsIdempotent(t *testing.T) {
	authAPI := &fakeAuthAPI{mePrincipal: adminPrincipal()}
	store := NewStore(ModeCookie, authAPI, &fakeCreds{}, zerolog.Nop())

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Restore(context.Background()))
	}

	assert.Equal(t, int32(1), authAPI.meCalls.Load(), "restore must never probe twice")
}

func TestConcurrentRestoreIssuesOneProbe(t *testing.T) {
	authAPI := &fakeAuthAPI{mePrincipal: adminPrincipal()}
	store := NewStore(ModeCookie, authAPI, &fakeCreds{}, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Restore(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), authAPI.meCalls.Load())
	assert.Equal(t, Authenticated, store.State())
}

func TestLoginBearerPersistsTokenAndPrincipal(t *testing.T) {
	creds := &fakeCreds{}
	authAPI := &fakeAuthAPI{loginResult: &api.LoginResult{
		Principal: *adminPrincipal(),
		Token:     "fresh-token",
	}}
	store := NewStore(ModeBearer, authAPI, creds, zerolog.Nop())

	require.NoError(t, store.Login(context.Background(), "alice", "secret"))

	assert.Equal(t, Authenticated, store.State())
	assert.Equal(t, "fresh-token", creds.token)
	require.NotNil(t, creds.principal)
	assert.Equal(t, "alice", creds.principal.Username)
}

func TestLoginBearerRequiresToken(t *testing.T) {
	authAPI := &fakeAuthAPI{loginResult: &api.LoginResult{Principal: *adminPrincipal()}}
	store := NewStore(ModeBearer, authAPI, &fakeCreds{}, zerolog.Nop())

	err := store.Login(context.Background(), "alice", "secret")
	require.Error(t, err)
	assert.NotEqual(t, Authenticated, store.State())
}

func TestLoginFailureLeavesStoreUntouched(t *testing.T) {
	authAPI := &fakeAuthAPI{loginErr: &api.Error{Status: 401, Detail: "bad credentials"}}
	store := NewStore(ModeBearer, authAPI, &fakeCreds{}, zerolog.Nop())

	err := store.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)
	assert.Equal(t, Unchecked, store.State(), "a failed login is not a restore")
}

func TestLoginWinsOverInFlightRestore(t *testing.T) {
	// The probe reports no session; a login that lands first must not be
	// overwritten when the probe completes.
	authAPI := &fakeAuthAPI{
		meErr: &api.Error{Status: 401},
		loginResult: &api.LoginResult{
			Principal: *adminPrincipal(),
			Token:     "tok",
		},
	}
	store := NewStore(ModeCookie, authAPI, &fakeCreds{}, zerolog.Nop())

	require.NoError(t, store.Login(context.Background(), "alice", "secret"))
	require.NoError(t, store.Restore(context.Background()))

	assert.Equal(t, Authenticated, store.State())
	assert.Equal(t, "alice", store.Username())
}

func TestLogoutBearerClearsLocallyWithoutServerCall(t *testing.T) {
	creds := &fakeCreds{token: "tok", principal: adminPrincipal()}
	authAPI := &fakeAuthAPI{}
	store := NewStore(ModeBearer, authAPI, creds, zerolog.Nop())

	require.NoError(t, store.Restore(context.Background()))
	require.NoError(t, store.Logout(context.Background()))

	assert.Equal(t, Anonymous, store.State())
	assert.Equal(t, int32(0), authAPI.logoutCalls.Load())
	assert.Equal(t, 1, creds.clearCalls)
}

func TestLogoutCookieClearsStateEvenWhenServerFails(t *testing.T) {
	authAPI := &fakeAuthAPI{
		mePrincipal: adminPrincipal(),
		logoutErr:   &api.Error{Status: 500, Detail: "boom"},
	}
	store := NewStore(ModeCookie, authAPI, &fakeCreds{}, zerolog.Nop())

	require.NoError(t, store.Restore(context.Background()))
	err := store.Logout(context.Background())

	require.Error(t, err, "the server failure still surfaces")
	assert.Equal(t, Anonymous, store.State(), "local state never survives a logout")
}

func TestInvalidateDropsSessionAndCredential(t *testing.T) {
	creds := &fakeCreds{token: "tok", principal: adminPrincipal()}
	store := NewStore(ModeBearer, &fakeAuthAPI{}, creds, zerolog.Nop())

	require.NoError(t, store.Restore(context.Background()))
	require.Equal(t, Authenticated, store.State())

	store.Invalidate()

	assert.Equal(t, Anonymous, store.State())
	assert.Empty(t, creds.token)
}

func TestIsSuperadmin(t *testing.T) {
	creds := &fakeCreds{
		token: "tok",
		principal: &models.Principal{
			ID:          2,
			Username:    "root",
			AccountType: models.AccountSuperadmin,
		},
	}
	store := NewStore(ModeBearer, &fakeAuthAPI{}, creds, zerolog.Nop())

	require.NoError(t, store.Restore(context.Background()))
	assert.True(t, store.IsSuperadmin())
}
