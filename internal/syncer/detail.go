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

// Detail keeps one website's full history in a DetailState current.
type Detail struct {
	logger *zap.Logger
	gate   Authenticator
	api    WebsiteFetcher
	state  *view.DetailState
	id     domain.WebsiteID
	now    func() time.Time
}

func NewDetail(logger *zap.Logger, gate Authenticator, api WebsiteFetcher, state *view.DetailState, id domain.WebsiteID) *Detail {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detail{logger: logger, gate: gate, api: api, state: state, id: id, now: time.Now}
}

func (d *Detail) State() *view.DetailState { return d.state }

// Sync fetches the website once. Without an id it sends nothing and ends the
// loading phase, which the view renders as not found.
func (d *Detail) Sync(ctx context.Context) error {
	if d.id == "" {
		d.logger.Debug("detail_sync_skipped_no_id")
		d.state.DoneLoading()
		return ErrNoWebsiteID
	}

	s, ok := d.gate.Require()
	if !ok {
		return session.ErrNoSession
	}

	w, err := d.api.Website(ctx, s, d.id)
	if err != nil {
		d.logger.Warn("detail_sync_failed", zap.String("website_id", string(d.id)), zap.Error(err))
		d.state.Fail(err)
		return err
	}

	now := d.now()
	if !d.state.Publish(status.ForWebsite(*w, now), now) {
		d.logger.Debug("detail_sync_discarded", zap.String("website_id", string(d.id)))
	}
	return nil
}

func (d *Detail) Mount(ctx context.Context, interval time.Duration) *Mounted {
	return mount(ctx, d.logger, "detail", interval, d.Sync, d.state.Close)
}
