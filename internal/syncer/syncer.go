// Package syncer fetches authoritative website data from the backend,
// derives statuses and republishes them into view state.
package syncer

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/upmonitor/internal/domain"
	"github.com/hamed0406/upmonitor/internal/scheduler"
	"github.com/hamed0406/upmonitor/internal/session"
)

// ErrNoWebsiteID is returned by a detail sync that has nothing to look up.
var ErrNoWebsiteID = errors.New("syncer: no website id")

// Authenticator hands out the current session, redirecting when there is
// none. *session.Gate implements it.
type Authenticator interface {
	Require() (session.Session, bool)
}

type WebsiteLister interface {
	ListWebsites(ctx context.Context, s session.Session) ([]domain.Website, error)
}

type WebsiteFetcher interface {
	Website(ctx context.Context, s session.Session, id domain.WebsiteID) (*domain.Website, error)
}

// Mounted is a view whose synchronizer is being polled.
type Mounted struct {
	handle   *scheduler.Handle
	teardown func()
}

func mount(ctx context.Context, logger *zap.Logger, name string, interval time.Duration, sync func(context.Context) error, teardown func()) *Mounted {
	p := scheduler.NewPoller(logger, name, interval, func(ctx context.Context) {
		_ = sync(ctx)
	})
	return &Mounted{handle: p.Start(ctx), teardown: teardown}
}

// Refresh runs a cycle now instead of waiting for the next tick.
func (m *Mounted) Refresh() {
	m.handle.Trigger()
}

// Unmount stops the timer and tears down the view. A request already in
// flight is left to finish; whatever it returns is discarded.
func (m *Mounted) Unmount() {
	m.handle.Stop()
	m.teardown()
}

// Wait blocks until the polling goroutine exited. Call after Unmount.
func (m *Mounted) Wait() {
	m.handle.Wait()
}
