package router

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dirportal-dev/dirportal/internal/api"
	"github.com/dirportal-dev/dirportal/internal/session"
)

// RenderFunc renders the destination once navigation is allowed.
type RenderFunc func(ctx context.Context) error

// History records allowed navigations.
type History interface {
	RecordVisit(path, username string) error
}

// Redirect is returned when a navigation attempt was diverted by the guard.
type Redirect struct {
	To string
}

func (r *Redirect) Error() string {
	return "redirected to " + r.To
}

// LoginTarget extracts the post-login destination carried by a login
// redirect. ok is false when err is not a login redirect.
func LoginTarget(err error) (target string, ok bool) {
	var redirect *Redirect
	if !errors.As(err, &redirect) {
		return "", false
	}
	u, parseErr := url.Parse(redirect.To)
	if parseErr != nil || u.Path != LoginPath {
		return "", false
	}
	return u.Query().Get("redirect"), true
}

// Navigator applies guard decisions, tracks the console's current location
// and observes credential rejections from the request pipeline.
type Navigator struct {
	guard    *Guard
	sessions *session.Store
	history  History
	log      zerolog.Logger

	mu      sync.Mutex
	current string
}

// NewNavigator creates a navigator. history may be nil.
func NewNavigator(guard *Guard, sessions *session.Store, history History, log zerolog.Logger) *Navigator {
	return &Navigator{
		guard:    guard,
		sessions: sessions,
		history:  history,
		log:      log,
	}
}

// Bind subscribes the navigator to the pipeline's 401 signal: a rejected
// credential moves the console to /login, unless it is already there (the
// login screen itself probes session state).
func (n *Navigator) Bind(client *api.Client) {
	client.OnUnauthorized(func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if n.current == LoginPath {
			return
		}
		n.current = LoginPath
		n.log.Debug().Msg("Credential rejected, moving to login")
	})
}

// Current returns the console's current location.
func (n *Navigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *Navigator) setCurrent(dest string) {
	path := dest
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	n.mu.Lock()
	n.current = path
	n.mu.Unlock()
}

// Go evaluates the guard for dest and either renders it or returns a
// *Redirect describing where the guard sent the user instead.
func (n *Navigator) Go(ctx context.Context, dest string, render RenderFunc) error {
	decision, err := n.guard.Evaluate(ctx, dest)
	if err != nil {
		return err
	}

	if !decision.Allow {
		n.setCurrent(decision.RedirectTo)
		return &Redirect{To: decision.RedirectTo}
	}

	n.setCurrent(dest)
	if n.history != nil {
		if err := n.history.RecordVisit(dest, n.sessions.Username()); err != nil {
			n.log.Warn().Err(err).Msg("Failed to record navigation")
		}
	}

	return render(ctx)
}
