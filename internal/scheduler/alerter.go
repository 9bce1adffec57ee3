package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/upmonitor/internal/domain"
	"github.com/hamed0406/upmonitor/internal/notify"
	"github.com/hamed0406/upmonitor/internal/status"
	"github.com/hamed0406/upmonitor/internal/view"
)

type AlerterConfig struct {
	AlertOnRecovery bool
	Cooldown        time.Duration
	PollInterval    time.Duration
}

// Snapshotter is anything that exposes the published list view state.
type Snapshotter interface {
	Snapshot() view.ListSnapshot
}

type alertRecord struct {
	lastState domain.Status
	// lastDownAt is when the last DOWN alert went out; cooldown counts from it.
	lastDownAt time.Time
}

// Alerter watches the list view and notifies when a website flips between
// Up and Down. It reads only what the synchronizer already published and
// never calls the backend itself.
type Alerter struct {
	logger   *zap.Logger
	source   Snapshotter
	notifier notify.Notifier
	cfg      AlerterConfig

	mu    sync.Mutex
	state map[domain.WebsiteID]alertRecord
	now   func() time.Time
}

func NewAlerter(logger *zap.Logger, source Snapshotter, notifier notify.Notifier, cfg AlerterConfig) *Alerter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	return &Alerter{
		logger:   logger,
		source:   source,
		notifier: notifier,
		cfg:      cfg,
		state:    make(map[domain.WebsiteID]alertRecord),
		now:      time.Now,
	}
}

func (a *Alerter) Run(ctx context.Context) error {
	t := time.NewTicker(a.cfg.PollInterval)
	defer t.Stop()

	// initial pass
	a.scanOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			a.scanOnce(ctx)
		}
	}
}

// scanOnce returns how many notifications it sent.
func (a *Alerter) scanOnce(ctx context.Context) int {
	snap := a.source.Snapshot()
	if snap.Loading {
		return 0
	}
	now := a.now()
	sent := 0

	a.mu.Lock()
	defer a.mu.Unlock()

	seen := make(map[domain.WebsiteID]bool, len(snap.Websites))
	for _, ws := range snap.Websites {
		id := ws.Website.ID
		seen[id] = true
		cur := ws.Derived.Current
		if cur == domain.StatusChecking {
			// nothing observed yet
			continue
		}

		rec, known := a.state[id]
		if known && rec.lastState == cur {
			continue
		}

		// Cooldown only matters for DOWN alerts (suppresses flapping).
		cooled := rec.lastDownAt.IsZero() || now.Sub(rec.lastDownAt) >= a.cfg.Cooldown

		// A website first seen Up is not a recovery.
		downAlert := cur == domain.StatusDown && cooled
		recoveryAlert := known && cur == domain.StatusUp && a.cfg.AlertOnRecovery

		rec.lastState = cur
		if downAlert || recoveryAlert {
			title := "🔴 Website DOWN"
			if cur == domain.StatusUp {
				title = "🟢 Website RECOVERED"
			}
			text := fmt.Sprintf(
				"URL: %s\nLatency: %s\nUptime (last %d): %s\nChecked: %s",
				ws.Website.URL,
				status.Latency(ws.Derived),
				status.UptimeWindow,
				status.Percent(ws.Derived),
				ws.Derived.LastCheckedAt.Format(time.RFC3339),
			)
			if err := a.notifier.Send(ctx, title, text); err != nil {
				a.logger.Warn("alert_send_failed", zap.String("website_id", string(id)), zap.Error(err))
			} else {
				sent++
			}
			if downAlert {
				rec.lastDownAt = now
			}
		}
		a.state[id] = rec
	}

	// forget deleted websites
	for id := range a.state {
		if !seen[id] {
			delete(a.state, id)
		}
	}
	return sent
}
