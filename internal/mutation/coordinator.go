// Package mutation runs the user-initiated writes: adding and deleting
// websites, deleting the account, signing in and up. Each operation
// validates its input, checks for a session and then either refreshes the
// list or navigates away.
package mutation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hamed0406/upmonitor/internal/domain"
	"github.com/hamed0406/upmonitor/internal/session"
	"github.com/hamed0406/upmonitor/internal/view"
)

var (
	// ErrValidation means the input was rejected locally; no request was sent.
	ErrValidation = errors.New("mutation: invalid input")
	// ErrNoConfirmation means a destructive action was confirmed without
	// being requested first.
	ErrNoConfirmation = errors.New("mutation: nothing to confirm")
	// ErrBusy means the same operation is already running.
	ErrBusy = errors.New("mutation: operation in progress")
)

// Backend is the subset of the API client the coordinator writes through.
type Backend interface {
	SignIn(ctx context.Context, username, password string) (string, error)
	SignUp(ctx context.Context, username, password string) error
	AddWebsite(ctx context.Context, s session.Session, rawURL string) error
	DeleteWebsite(ctx context.Context, s session.Session, id domain.WebsiteID) error
	DeleteAccount(ctx context.Context, s session.Session) error
}

// Sessions is what the coordinator needs from the credential gate.
// *session.Gate implements it.
type Sessions interface {
	Require() (session.Session, bool)
	SignIn(token string) error
	Destroy()
}

// Refresher asks the list view for an immediate sync cycle.
type Refresher interface {
	Refresh()
}

type websiteInput struct {
	URL string `validate:"required"`
}

type credentials struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type Coordinator struct {
	logger   *zap.Logger
	api      Backend
	sessions Sessions
	nav      view.Navigator
	validate *validator.Validate

	mu        sync.Mutex
	refresher Refresher
	addOpen   bool
	adding    bool
	delSite   bool
	delAcct   bool

	confirmWebsite view.Confirmation
	confirmAccount view.Confirmation
}

func New(logger *zap.Logger, api Backend, sessions Sessions, nav view.Navigator, v *validator.Validate) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if v == nil {
		v = validator.New()
	}
	return &Coordinator{logger: logger, api: api, sessions: sessions, nav: nav, validate: v}
}

// SetRefresher attaches the mounted list view. Nil detaches it.
func (c *Coordinator) SetRefresher(r Refresher) {
	c.mu.Lock()
	c.refresher = r
	c.mu.Unlock()
}

// OpenAdd shows the add-website input.
func (c *Coordinator) OpenAdd() {
	c.mu.Lock()
	c.addOpen = true
	c.mu.Unlock()
}

func (c *Coordinator) AddOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addOpen
}

func (c *Coordinator) Adding() bool          { return c.flag(&c.adding) }
func (c *Coordinator) DeletingWebsite() bool { return c.flag(&c.delSite) }
func (c *Coordinator) DeletingAccount() bool { return c.flag(&c.delAcct) }

// AddWebsite registers a URL. On success the input closes and the list
// syncs immediately; on failure the input stays open for a retry.
func (c *Coordinator) AddWebsite(ctx context.Context, rawURL string) error {
	in := websiteInput{URL: strings.TrimSpace(rawURL)}
	if err := c.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: url is required", ErrValidation)
	}
	s, ok := c.sessions.Require()
	if !ok {
		return session.ErrNoSession
	}

	release, err := c.begin(&c.adding)
	if err != nil {
		return err
	}
	defer release()

	if err := c.api.AddWebsite(ctx, s, in.URL); err != nil {
		c.logger.Warn("add_website_failed", zap.String("url", in.URL), zap.Error(err))
		return err
	}
	c.logger.Info("website_added", zap.String("url", in.URL))

	c.mu.Lock()
	c.addOpen = false
	r := c.refresher
	c.mu.Unlock()
	if r != nil {
		r.Refresh()
	}
	return nil
}

// RequestDeleteWebsite opens the confirmation for id. Nothing is sent.
func (c *Coordinator) RequestDeleteWebsite(id domain.WebsiteID) {
	c.confirmWebsite.Open(string(id))
}

// PendingDelete reports the website awaiting confirmation, if any.
func (c *Coordinator) PendingDelete() bool {
	return c.confirmWebsite.IsOpen()
}

// CancelDelete closes the website confirmation without a request.
func (c *Coordinator) CancelDelete() {
	c.confirmWebsite.Cancel()
}

// ConfirmDeleteWebsite deletes the website armed by RequestDeleteWebsite and
// returns to the list view. On failure the user stays where they are. The
// confirmation is only used up once the request is about to be sent; a
// busy or signed-out rejection leaves it open.
func (c *Coordinator) ConfirmDeleteWebsite(ctx context.Context) error {
	if !c.confirmWebsite.IsOpen() {
		return ErrNoConfirmation
	}
	release, err := c.begin(&c.delSite)
	if err != nil {
		return err
	}
	defer release()

	s, ok := c.sessions.Require()
	if !ok {
		return session.ErrNoSession
	}
	subject, ok := c.confirmWebsite.Confirm()
	if !ok {
		return ErrNoConfirmation
	}
	id := domain.WebsiteID(subject)

	if err := c.api.DeleteWebsite(ctx, s, id); err != nil {
		c.logger.Warn("delete_website_failed", zap.String("website_id", subject), zap.Error(err))
		return err
	}
	c.logger.Info("website_deleted", zap.String("website_id", subject))
	c.nav.Navigate(view.RouteList)
	return nil
}

func (c *Coordinator) RequestDeleteAccount() {
	c.confirmAccount.Open("account")
}

func (c *Coordinator) PendingDeleteAccount() bool {
	return c.confirmAccount.IsOpen()
}

func (c *Coordinator) CancelDeleteAccount() {
	c.confirmAccount.Cancel()
}

// ConfirmDeleteAccount removes the account and everything it owns. The
// session is cleared only after the backend accepted the deletion.
func (c *Coordinator) ConfirmDeleteAccount(ctx context.Context) error {
	if !c.confirmAccount.IsOpen() {
		return ErrNoConfirmation
	}
	release, err := c.begin(&c.delAcct)
	if err != nil {
		return err
	}
	defer release()

	s, ok := c.sessions.Require()
	if !ok {
		return session.ErrNoSession
	}
	if _, ok := c.confirmAccount.Confirm(); !ok {
		return ErrNoConfirmation
	}

	if err := c.api.DeleteAccount(ctx, s); err != nil {
		c.logger.Warn("delete_account_failed", zap.Error(err))
		return err
	}
	c.logger.Info("account_deleted")
	c.sessions.Destroy()
	c.nav.Navigate(view.RouteLanding)
	return nil
}

// SignIn exchanges credentials for a token, stores it and opens the list.
func (c *Coordinator) SignIn(ctx context.Context, username, password string) error {
	in := credentials{Username: strings.TrimSpace(username), Password: password}
	if err := c.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: username and password are required", ErrValidation)
	}
	tok, err := c.api.SignIn(ctx, in.Username, in.Password)
	if err != nil {
		c.logger.Warn("sign_in_failed", zap.String("username", in.Username), zap.Error(err))
		return err
	}
	if err := c.sessions.SignIn(tok); err != nil {
		c.logger.Error("session_save_failed", zap.Error(err))
		return fmt.Errorf("store session: %w", err)
	}
	c.logger.Info("signed_in", zap.String("username", in.Username))
	return nil
}

// SignUp creates an account and sends the user to sign-in.
func (c *Coordinator) SignUp(ctx context.Context, username, password string) error {
	in := credentials{Username: strings.TrimSpace(username), Password: password}
	if err := c.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: username and password are required", ErrValidation)
	}
	if err := c.api.SignUp(ctx, in.Username, in.Password); err != nil {
		c.logger.Warn("sign_up_failed", zap.String("username", in.Username), zap.Error(err))
		return err
	}
	c.logger.Info("signed_up", zap.String("username", in.Username))
	c.nav.Navigate(view.RouteSignIn)
	return nil
}

// begin sets an in-flight flag. The returned func clears it and must be
// deferred so a panic in the request path cannot leave the control disabled.
func (c *Coordinator) begin(f *bool) (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if *f {
		return nil, ErrBusy
	}
	*f = true
	return func() {
		c.mu.Lock()
		*f = false
		c.mu.Unlock()
	}, nil
}

func (c *Coordinator) flag(f *bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *f
}
