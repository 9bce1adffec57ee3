package view

import (
	"sync"
	"time"

	"github.com/hamed0406/upmonitor/internal/domain"
)

type DetailSnapshot struct {
	// Website is nil until a fetch succeeds.
	Website      *domain.WebsiteStatus
	Loading      bool
	LastSyncedAt time.Time
	LastError    error
}

// NotFound is true once loading finished without any data arriving.
func (s DetailSnapshot) NotFound() bool {
	return !s.Loading && s.Website == nil
}

func (s DetailSnapshot) Stale() bool { return s.Website != nil && s.LastError != nil }

// DetailState mirrors ListState for a single website.
type DetailState struct {
	mu       sync.RWMutex
	snap     DetailSnapshot
	closed   bool
	onChange func(DetailSnapshot)
}

func NewDetailState() *DetailState {
	return &DetailState{snap: DetailSnapshot{Loading: true}}
}

func (s *DetailState) OnChange(fn func(DetailSnapshot)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *DetailState) Publish(ws domain.WebsiteStatus, at time.Time) bool {
	return s.update(func(snap *DetailSnapshot) {
		snap.Website = &ws
		snap.Loading = false
		snap.LastSyncedAt = at
		snap.LastError = nil
	})
}

func (s *DetailState) Fail(err error) bool {
	return s.update(func(snap *DetailSnapshot) {
		snap.Loading = false
		snap.LastError = err
	})
}

func (s *DetailState) DoneLoading() bool {
	return s.update(func(snap *DetailSnapshot) { snap.Loading = false })
}

func (s *DetailState) update(fn func(*DetailSnapshot)) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	fn(&s.snap)
	snap := s.snap
	cb := s.onChange
	s.mu.Unlock()
	if cb != nil {
		cb(snap)
	}
	return true
}

func (s *DetailState) Snapshot() DetailSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *DetailState) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}
