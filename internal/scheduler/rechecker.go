package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/upmonitor/internal/probe"
	"github.com/hamed0406/upmonitor/internal/repo"
)

// Rechecker probes every registered website on an interval and records one
// tick per website per pass. It is the reference backend's data source.
type Rechecker struct {
	Logger      *zap.Logger
	Websites    repo.WebsiteStore
	Ticks       repo.TickStore
	Checker     probe.Checker
	Interval    time.Duration
	Timeout     time.Duration
	Concurrency int
	now         func() time.Time
}

func NewRechecker(
	logger *zap.Logger,
	ws repo.WebsiteStore,
	ts repo.TickStore,
	checker probe.Checker,
	interval time.Duration,
	timeout time.Duration,
	concurrency int,
) *Rechecker {
	if concurrency < 1 {
		concurrency = 1
	}
	if interval < 0 {
		interval = 0
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Rechecker{
		Logger:      logger,
		Websites:    ws,
		Ticks:       ts,
		Checker:     checker,
		Interval:    interval,
		Timeout:     timeout,
		Concurrency: concurrency,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Run does an immediate pass, then one per Interval until ctx is cancelled.
func (r *Rechecker) Run(ctx context.Context) {
	if r.Interval == 0 {
		// disabled
		r.Logger.Info("rechecker_disabled")
		return
	}
	p := NewPoller(r.Logger, "rechecker", r.Interval, r.RunOnce)
	h := p.Start(ctx)
	<-ctx.Done()
	h.Stop()
	h.Wait()
	r.Logger.Info("rechecker_stopped")
}

// RunOnce checks every website once.
func (r *Rechecker) RunOnce(ctx context.Context) {
	ws, err := r.Websites.ListWebsites(ctx)
	if err != nil {
		r.Logger.Warn("rechecker_list_error", zap.Error(err))
		return
	}
	if len(ws) == 0 {
		return
	}

	sem := make(chan struct{}, r.Concurrency)
	var wg sync.WaitGroup

	for _, w := range ws {
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() { <-sem }()
			defer wg.Done()

			cctx, cancel := context.WithTimeout(ctx, r.Timeout)
			defer cancel()

			out := r.Checker.Check(cctx, w.URL)
			tick := out.Tick(r.now())

			err := r.Ticks.AppendTick(ctx, w.ID, tick)
			switch {
			case errors.Is(err, repo.ErrNotFound):
				r.Logger.Debug("rechecker_website_gone", zap.String("website_id", string(w.ID)))
			case err != nil:
				r.Logger.Warn("rechecker_append_error",
					zap.String("website_id", string(w.ID)),
					zap.String("url", w.URL),
					zap.Error(err),
				)
			default:
				r.Logger.Debug("rechecker_checked",
					zap.String("website_id", string(w.ID)),
					zap.String("url", w.URL),
					zap.Int("status", out.StatusCode),
					zap.Bool("up", out.Success),
					zap.Float64("latency_ms", out.LatencyMS),
					zap.String("reason", out.Message),
				)
			}
		}()
	}

	wg.Wait()
}
