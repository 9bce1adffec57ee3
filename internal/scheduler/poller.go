package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is the dashboard refresh cadence.
const DefaultInterval = 60 * time.Second

// Poller runs Cycle once on Start and then every Interval until stopped.
// Cycles never overlap: ticks that fire while a cycle is running are
// dropped, and on-demand triggers collapse into one.
type Poller struct {
	Logger   *zap.Logger
	Name     string
	Interval time.Duration
	Cycle    func(ctx context.Context)
}

func NewPoller(logger *zap.Logger, name string, interval time.Duration, cycle func(ctx context.Context)) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{Logger: logger, Name: name, Interval: interval, Cycle: cycle}
}

// Handle controls a started Poller.
type Handle struct {
	mu      sync.Mutex
	stopped bool
	stop    chan struct{}
	trigger chan struct{}
	done    chan struct{}
}

// Start fires the first cycle immediately on a new goroutine and schedules
// the rest. Cancelling ctx stops the loop and aborts in-flight requests;
// Handle.Stop only stops scheduling.
func (p *Poller) Start(ctx context.Context) *Handle {
	h := &Handle{
		stop:    make(chan struct{}),
		trigger: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go p.run(ctx, h)
	return h
}

func (p *Poller) run(ctx context.Context, h *Handle) {
	defer close(h.done)
	t := time.NewTicker(p.Interval)
	defer t.Stop()

	// immediate pass
	if !p.runCycle(ctx, h) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			p.Logger.Debug("poller_stopped", zap.String("poller", p.Name), zap.Error(ctx.Err()))
			return
		case <-h.stop:
			p.Logger.Debug("poller_stopped", zap.String("poller", p.Name))
			return
		case <-t.C:
		case <-h.trigger:
		}
		if !p.runCycle(ctx, h) {
			return
		}
	}
}

// runCycle reports false when the handle was stopped before the cycle could
// begin. A panicking cycle still counts as run so the loop keeps going.
func (p *Poller) runCycle(ctx context.Context, h *Handle) (ran bool) {
	h.mu.Lock()
	if h.stopped || ctx.Err() != nil {
		h.mu.Unlock()
		return false
	}
	h.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			p.Logger.Error("poller_cycle_panic", zap.String("poller", p.Name), zap.Any("panic", r))
			ran = true
		}
	}()
	p.Cycle(ctx)
	return true
}

// Trigger asks for a cycle as soon as the current one (if any) finishes.
// Repeated calls before that cycle starts collapse into one.
func (h *Handle) Trigger() {
	select {
	case h.trigger <- struct{}{}:
	default:
	}
}

// Stop cancels scheduling. No cycle begins after Stop returns; one already
// running completes and its results are the view's to discard. Stop is safe
// to call more than once.
func (h *Handle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	h.stopped = true
	close(h.stop)
}

// Wait blocks until the poller goroutine has exited.
func (h *Handle) Wait() {
	<-h.done
}
