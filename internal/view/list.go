package view

import (
	"sync"
	"time"

	"github.com/hamed0406/upmonitor/internal/domain"
)

// ListSnapshot is a copy of the list view state at one instant.
type ListSnapshot struct {
	Websites []domain.WebsiteStatus
	// Loading is true until the first sync attempt finished.
	Loading      bool
	LastSyncedAt time.Time
	// LastError is set when the most recent cycle failed; Websites then
	// holds the last good collection.
	LastError error
}

// Stale reports whether the shown data may be out of date.
func (s ListSnapshot) Stale() bool { return s.LastError != nil }

// Empty reports a successful load with nothing to show, as opposed to an
// error or a load still in progress.
func (s ListSnapshot) Empty() bool {
	return !s.Loading && len(s.Websites) == 0
}

// ListState is the list view's owned state. After Close every write is
// dropped, so a response that lands after teardown is harmless.
type ListState struct {
	mu       sync.RWMutex
	snap     ListSnapshot
	closed   bool
	onChange func(ListSnapshot)
}

func NewListState() *ListState {
	return &ListState{snap: ListSnapshot{Loading: true}}
}

// OnChange registers a callback run after every accepted write.
func (s *ListState) OnChange(fn func(ListSnapshot)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Publish replaces the collection. It returns false if the view is closed.
func (s *ListState) Publish(ws []domain.WebsiteStatus, at time.Time) bool {
	return s.update(func(snap *ListSnapshot) {
		if ws == nil {
			ws = []domain.WebsiteStatus{}
		}
		snap.Websites = ws
		snap.Loading = false
		snap.LastSyncedAt = at
		snap.LastError = nil
	})
}

// Fail records a failed cycle, keeping the previous collection.
func (s *ListState) Fail(err error) bool {
	return s.update(func(snap *ListSnapshot) {
		snap.Loading = false
		snap.LastError = err
	})
}

// DoneLoading ends the loading phase without new data.
func (s *ListState) DoneLoading() bool {
	return s.update(func(snap *ListSnapshot) { snap.Loading = false })
}

func (s *ListState) update(fn func(*ListSnapshot)) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	fn(&s.snap)
	snap := s.copyLocked()
	cb := s.onChange
	s.mu.Unlock()
	if cb != nil {
		cb(snap)
	}
	return true
}

func (s *ListState) Snapshot() ListSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

func (s *ListState) copyLocked() ListSnapshot {
	out := s.snap
	if s.snap.Websites != nil {
		out.Websites = make([]domain.WebsiteStatus, len(s.snap.Websites))
		copy(out.Websites, s.snap.Websites)
	}
	return out
}

// Close tears the view down.
func (s *ListState) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *ListState) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}
