package syncer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/upmonitor/internal/domain"
	"github.com/hamed0406/upmonitor/internal/session"
	"github.com/hamed0406/upmonitor/internal/status"
	"github.com/hamed0406/upmonitor/internal/view"
)

// List keeps the website collection in a ListState current.
type List struct {
	logger *zap.Logger
	gate   Authenticator
	api    WebsiteLister
	state  *view.ListState
	now    func() time.Time
}

func NewList(logger *zap.Logger, gate Authenticator, api WebsiteLister, state *view.ListState) *List {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &List{logger: logger, gate: gate, api: api, state: state, now: time.Now}
}

func (l *List) State() *view.ListState { return l.state }

// Sync runs one fetch-and-publish cycle. On failure the previous collection
// stays published and the error is returned for callers that care; the
// poller ignores it.
func (l *List) Sync(ctx context.Context) error {
	s, ok := l.gate.Require()
	if !ok {
		return session.ErrNoSession
	}

	websites, err := l.api.ListWebsites(ctx, s)
	if err != nil {
		l.logger.Warn("list_sync_failed", zap.Error(err))
		l.state.Fail(err)
		return err
	}

	now := l.now()
	out := make([]domain.WebsiteStatus, 0, len(websites))
	for _, w := range websites {
		out = append(out, status.ForWebsite(w, now))
	}
	if !l.state.Publish(out, now) {
		l.logger.Debug("list_sync_discarded", zap.Int("websites", len(out)))
		return nil
	}
	l.logger.Debug("list_synced", zap.Int("websites", len(out)))
	return nil
}

// Mount starts polling: one cycle now, then one per interval.
func (l *List) Mount(ctx context.Context, interval time.Duration) *Mounted {
	return mount(ctx, l.logger, "list", interval, l.Sync, l.state.Close)
}
