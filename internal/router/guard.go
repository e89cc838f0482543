package router

import (
	"context"
	"net/url"

	"github.com/dirportal-dev/dirportal/internal/session"
)

// Decision is the outcome of evaluating one navigation attempt.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Guard gates every navigation attempt against the session store before the
// destination renders. Apart from the lazy restore it performs no mutation.
type Guard struct {
	sessions *session.Store
}

// NewGuard creates a guard backed by the given session store.
func NewGuard(sessions *session.Store) *Guard {
	return &Guard{sessions: sessions}
}

// Evaluate runs once per navigation attempt. Public destinations are allowed
// without waiting for session restoration; everything else restores the
// session first (the single place that happens, lazily on first navigation),
// then checks authentication and role.
func (g *Guard) Evaluate(ctx context.Context, dest string) (Decision, error) {
	route, _, ok := Match(dest)
	if !ok {
		// Unknown destinations land on the default route
		return Decision{RedirectTo: DefaultPath}, nil
	}

	if route.Public {
		return Decision{Allow: true}, nil
	}

	if g.sessions.State() == session.Unchecked {
		if err := g.sessions.Restore(ctx); err != nil {
			return Decision{}, err
		}
	}

	if g.sessions.State() != session.Authenticated {
		redirect := LoginPath + "?redirect=" + url.QueryEscape(dest)
		return Decision{RedirectTo: redirect}, nil
	}

	// Authenticated but under-privileged: never back to login
	if route.RequiresSuperadmin && !g.sessions.IsSuperadmin() {
		return Decision{RedirectTo: DefaultPath}, nil
	}

	return Decision{Allow: true}, nil
}
