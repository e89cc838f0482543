// Package session owns the process-wide record of who is logged in. All
// mutation funnels through the store's operations; every other component
// treats it as read-only.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dirportal-dev/dirportal/internal/api"
	"github.com/dirportal-dev/dirportal/internal/models"
)

// Mode selects the deployment's credential model. Exactly one mode is active
// per process; the two must never be mixed.
type Mode string

const (
	// ModeBearer keeps a client-held token plus a cached principal in
	// local durable storage.
	ModeBearer Mode = "bearer"
	// ModeCookie relies on a server-issued opaque session cookie the
	// client code cannot read.
	ModeCookie Mode = "cookie"
)

// State describes the session lifecycle. Unchecked means "not yet restored",
// which is distinct from "checked and found no session".
type State int

const (
	Unchecked State = iota
	Anonymous
	Authenticated
)

// AuthAPI is the slice of the request pipeline the store needs.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*api.LoginResult, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.Principal, error)
}

// CredentialStore is the client-local durable half of the bearer credential.
// Unused in cookie mode, where the server holds the only credential.
type CredentialStore interface {
	Resume() (*models.Principal, bool, error)
	Save(token string, p *models.Principal) error
	Clear() error
}

// Store is the single authoritative record of the current session.
type Store struct {
	mode  Mode
	api   AuthAPI
	creds CredentialStore
	log   zerolog.Logger

	mu          sync.Mutex
	principal   *models.Principal
	initialized bool
	restoring   chan struct{}
}

// NewStore creates an unchecked session store.
func NewStore(mode Mode, authAPI AuthAPI, creds CredentialStore, log zerolog.Logger) *Store {
	return &Store{
		mode:  mode,
		api:   authAPI,
		creds: creds,
		log:   log,
	}
}

// Restore reconciles the store with whatever credential survives from a
// previous run. Idempotent: once initialized it is a no-op, and concurrent
// callers wait behind the single in-flight attempt, so at most one identity
// probe is ever issued. A failed probe is a definitive "no session", not an
// error.
func (s *Store) Restore(ctx context.Context) error {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return nil
	}
	if s.restoring != nil {
		ch := s.restoring
		s.mu.Unlock()
		select {
		case <-ch:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	ch := make(chan struct{})
	s.restoring = ch
	s.mu.Unlock()

	var principal *models.Principal
	switch s.mode {
	case ModeBearer:
		p, ok, err := s.creds.Resume()
		if err != nil {
			s.log.Warn().Err(err).Msg("Failed to resume persisted credential")
		} else if ok {
			principal = p
		}
	default:
		p, err := s.api.Me(ctx)
		if err != nil {
			s.log.Debug().Err(err).Msg("Identity probe found no session")
		} else {
			principal = p
		}
	}

	s.mu.Lock()
	// A login that completed while the probe was in flight wins.
	if !s.initialized {
		s.principal = principal
		s.initialized = true
	}
	s.restoring = nil
	s.mu.Unlock()
	close(ch)

	return nil
}

// Login authenticates against the portal. On failure the store is left
// untouched and the error is surfaced for the caller to display.
func (s *Store) Login(ctx context.Context, username, password string) error {
	result, err := s.api.Login(ctx, username, password)
	if err != nil {
		return err
	}

	principal := result.Principal
	if s.mode == ModeBearer {
		if result.Token == "" {
			return fmt.Errorf("server returned no token")
		}
		if err := s.creds.Save(result.Token, &principal); err != nil {
			return fmt.Errorf("failed to persist credential: %w", err)
		}
	}

	s.mu.Lock()
	s.principal = &principal
	s.initialized = true
	s.mu.Unlock()

	s.log.Info().Str("username", principal.Username).Msg("Logged in")
	return nil
}

// Logout ends the session. Bearer mode is a purely local invalidation;
// cookie mode asks the server to drop the cookie first. Local state is
// cleared on every exit path so it can never stay authenticated when the
// network call fails.
func (s *Store) Logout(ctx context.Context) error {
	defer func() {
		s.mu.Lock()
		s.principal = nil
		s.initialized = true
		s.mu.Unlock()
	}()

	if s.mode == ModeBearer {
		return s.creds.Clear()
	}
	return s.api.Logout(ctx)
}

// Invalidate drops the session after a credential rejection observed by the
// request pipeline.
func (s *Store) Invalidate() {
	if s.mode == ModeBearer {
		if err := s.creds.Clear(); err != nil {
			s.log.Warn().Err(err).Msg("Failed to clear persisted credential")
		}
	}

	s.mu.Lock()
	s.principal = nil
	s.initialized = true
	s.mu.Unlock()
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case !s.initialized:
		return Unchecked
	case s.principal == nil:
		return Anonymous
	default:
		return Authenticated
	}
}

// Principal returns a copy of the current identity, if any.
func (s *Store) Principal() (models.Principal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.principal == nil {
		return models.Principal{}, false
	}
	return *s.principal, true
}

// IsLoggedIn reports whether a principal is present.
func (s *Store) IsLoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.principal != nil
}

// IsSuperadmin reports whether the current principal holds the superadmin role.
func (s *Store) IsSuperadmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.principal.IsSuperadmin()
}

// Username returns the current principal's username, or "".
func (s *Store) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.principal == nil {
		return ""
	}
	return s.principal.Username
}
