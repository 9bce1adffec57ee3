package session

import (
	"errors"

	"go.uber.org/zap"

	"github.com/hamed0406/upmonitor/internal/view"
)

// ErrNoSession means the caller is signed out. It is a normal state, handled
// by redirecting to sign-in, and is never logged as a failure.
var ErrNoSession = errors.New("session: not signed in")

// Session is the opaque bearer token. It is sent verbatim as the
// Authorization header.
type Session struct {
	Token string
}

// Gate is the single place that reads and writes the stored token.
type Gate struct {
	store Store
	nav   view.Navigator
	log   *zap.Logger
}

func NewGate(store Store, nav view.Navigator, log *zap.Logger) *Gate {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gate{store: store, nav: nav, log: log}
}

// Require returns the current session. When there is none it sends the user
// to sign-in and returns ok=false; the caller must abort without a request.
func (g *Gate) Require() (Session, bool) {
	tok, ok, err := g.store.Load()
	if err != nil {
		g.log.Warn("session_load_failed", zap.Error(err))
		ok = false
	}
	if !ok {
		g.nav.Navigate(view.RouteSignIn)
		return Session{}, false
	}
	return Session{Token: tok}, true
}

// Current is Require without the redirect.
func (g *Gate) Current() (Session, error) {
	tok, ok, err := g.store.Load()
	if err != nil {
		return Session{}, err
	}
	if !ok {
		return Session{}, ErrNoSession
	}
	return Session{Token: tok}, nil
}

// SignIn stores the token before navigating to the list view.
func (g *Gate) SignIn(token string) error {
	if err := g.store.Save(token); err != nil {
		return err
	}
	g.nav.Navigate(view.RouteList)
	return nil
}

// SignOut clears the token unconditionally, then leaves for the landing view.
// A storage error is logged but never keeps the user on a signed-in view.
func (g *Gate) SignOut() {
	g.clear()
	g.nav.Navigate(view.RouteLanding)
}

// Destroy clears the token without navigating; the account deletion flow
// navigates itself.
func (g *Gate) Destroy() {
	g.clear()
}

func (g *Gate) clear() {
	if err := g.store.Clear(); err != nil {
		g.log.Error("session_clear_failed", zap.Error(err))
	}
}
