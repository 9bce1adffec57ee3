package view

import (
	"errors"
	"testing"
	"time"

	"github.com/hamed0406/upmonitor/internal/domain"
)

func three() []domain.WebsiteStatus {
	return []domain.WebsiteStatus{
		{Website: domain.Website{ID: "a"}},
		{Website: domain.Website{ID: "b"}},
		{Website: domain.Website{ID: "c"}},
	}
}

func TestListState_FailKeepsPreviousCollection(t *testing.T) {
	s := NewListState()
	if !s.Snapshot().Loading {
		t.Fatalf("new list should be loading")
	}
	s.Publish(three(), time.Now())

	boom := errors.New("boom")
	s.Fail(boom)

	snap := s.Snapshot()
	if len(snap.Websites) != 3 {
		t.Fatalf("want 3 websites kept, got %d", len(snap.Websites))
	}
	if !snap.Stale() || !errors.Is(snap.LastError, boom) {
		t.Fatalf("want stale marker, got %+v", snap)
	}
	if snap.Empty() {
		t.Fatalf("a failure must not look like an empty collection")
	}
}

func TestListState_EmptyPublishIsEmptyNotError(t *testing.T) {
	s := NewListState()
	s.Publish(nil, time.Now())
	snap := s.Snapshot()
	if !snap.Empty() || snap.Stale() || snap.Websites == nil {
		t.Fatalf("want empty, non-stale, non-nil collection: %+v", snap)
	}
}

func TestListState_WritesAfterCloseAreDropped(t *testing.T) {
	s := NewListState()
	calls := 0
	s.OnChange(func(ListSnapshot) { calls++ })
	s.Publish(three(), time.Now())
	s.Close()

	if s.Publish(nil, time.Now()) || s.Fail(errors.New("late")) || s.DoneLoading() {
		t.Fatalf("writes after Close must report false")
	}
	if got := len(s.Snapshot().Websites); got != 3 {
		t.Fatalf("closed view changed: %d websites", got)
	}
	if calls != 1 {
		t.Fatalf("onChange after close: %d calls", calls)
	}
}

func TestListState_SnapshotIsACopy(t *testing.T) {
	s := NewListState()
	s.Publish(three(), time.Now())
	snap := s.Snapshot()
	snap.Websites[0].Website.ID = "mutated"
	if s.Snapshot().Websites[0].Website.ID != "a" {
		t.Fatalf("snapshot aliases internal state")
	}
}

func TestDetailState_NotFoundAfterLoading(t *testing.T) {
	s := NewDetailState()
	if s.Snapshot().NotFound() {
		t.Fatalf("must not be not-found while loading")
	}
	s.DoneLoading()
	if !s.Snapshot().NotFound() {
		t.Fatalf("want not-found once loading ends without data")
	}

	s.Publish(domain.WebsiteStatus{Website: domain.Website{ID: "w"}}, time.Now())
	s.Fail(errors.New("x"))
	snap := s.Snapshot()
	if snap.NotFound() || snap.Website.Website.ID != "w" || !snap.Stale() {
		t.Fatalf("failure should keep prior website: %+v", snap)
	}

	s.Close()
	if s.Publish(domain.WebsiteStatus{}, time.Now()) {
		t.Fatalf("publish after close accepted")
	}
}

func TestConfirmation_TwoStep(t *testing.T) {
	var c Confirmation
	if _, ok := c.Confirm(); ok {
		t.Fatalf("confirm without open must fail")
	}
	c.Open("w1")
	c.Cancel()
	if _, ok := c.Confirm(); ok {
		t.Fatalf("confirm after cancel must fail")
	}
	c.Open("w2")
	if !c.IsOpen() {
		t.Fatalf("want open")
	}
	got, ok := c.Confirm()
	if !ok || got != "w2" {
		t.Fatalf("confirm: %q %v", got, ok)
	}
	if _, ok := c.Confirm(); ok {
		t.Fatalf("confirm is single use")
	}
}

func TestHistory_RecordsRoutes(t *testing.T) {
	var seen []Route
	h := NewHistory(func(r Route) { seen = append(seen, r) })
	h.Navigate(RouteList)
	h.Navigate(RouteWebsite("abc"))

	if h.Current() != "/website/abc" {
		t.Fatalf("current: %q", h.Current())
	}
	if len(h.Routes()) != 2 || len(seen) != 2 {
		t.Fatalf("routes: %v seen: %v", h.Routes(), seen)
	}
}
