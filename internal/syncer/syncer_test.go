package syncer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hamed0406/upmonitor/internal/domain"
	"github.com/hamed0406/upmonitor/internal/session"
	"github.com/hamed0406/upmonitor/internal/view"
)

// --- fakes ---

type fakeAPI struct {
	mu       sync.Mutex
	websites []domain.Website
	detail   *domain.Website
	err      error
	calls    atomic.Int32
	tokens   []string
	// block, when set, holds each call until it is closed.
	block chan struct{}
}

func (f *fakeAPI) ListWebsites(ctx context.Context, s session.Session) ([]domain.Website, error) {
	f.calls.Add(1)
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, s.Token)
	if f.err != nil {
		return nil, f.err
	}
	return append([]domain.Website(nil), f.websites...), nil
}

func (f *fakeAPI) Website(ctx context.Context, s session.Session, id domain.WebsiteID) (*domain.Website, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, s.Token)
	if f.err != nil {
		return nil, f.err
	}
	return f.detail, nil
}

func (f *fakeAPI) set(ws []domain.Website, err error) {
	f.mu.Lock()
	f.websites, f.err = ws, err
	f.mu.Unlock()
}

var t0 = time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)

func site(id string, marks ...domain.TickStatus) domain.Website {
	w := domain.Website{ID: domain.WebsiteID(id), URL: "https://" + id + ".example"}
	for i, m := range marks {
		w.Ticks = append(w.Ticks, domain.Tick{
			ID:             id + "-t" + string(rune('0'+i)),
			Status:         m,
			ResponseTimeMs: 50,
			CreatedAt:      t0.Add(-time.Duration(i) * time.Minute),
		})
	}
	return w
}

func signedIn(token string) (*session.Gate, *view.History) {
	nav := view.NewHistory(nil)
	return session.NewGate(session.NewMemoryStore(token), nav, zap.NewNop()), nav
}

// --- list ---

func TestList_SyncDerivesEachWebsite(t *testing.T) {
	gate, _ := signedIn("tok")
	api := &fakeAPI{websites: []domain.Website{
		site("a", domain.TickUp, domain.TickDown),
		site("b"),
	}}
	l := NewList(zap.NewNop(), gate, api, view.NewListState())
	l.now = func() time.Time { return t0.Add(time.Hour) }

	if err := l.Sync(context.Background()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	snap := l.State().Snapshot()
	if snap.Loading || len(snap.Websites) != 2 {
		t.Fatalf("snapshot: %+v", snap)
	}
	a, b := snap.Websites[0].Derived, snap.Websites[1].Derived
	if a.Current != domain.StatusUp || a.UptimePercent != 50 || *a.ResponseTimeMs != 50 {
		t.Fatalf("a derived: %+v", a)
	}
	if b.Current != domain.StatusChecking || b.UptimePercent != 0 {
		t.Fatalf("b derived: %+v", b)
	}
	if !b.LastCheckedAt.Equal(t0.Add(time.Hour)) {
		t.Fatalf("b lastChecked should fall back to fetch time, got %v", b.LastCheckedAt)
	}
	if api.tokens[0] != "tok" {
		t.Fatalf("session not passed through: %v", api.tokens)
	}
}

func TestList_FailureAfterSuccessKeepsThreeWebsites(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	gate, _ := signedIn("tok")
	api := &fakeAPI{websites: []domain.Website{site("a"), site("b"), site("c")}}
	l := NewList(zap.New(core), gate, api, view.NewListState())

	if err := l.Sync(context.Background()); err != nil {
		t.Fatalf("first Sync: %v", err)
	}
	api.set(nil, errors.New("502 bad gateway"))
	if err := l.Sync(context.Background()); err == nil {
		t.Fatalf("want error from failed cycle")
	}

	snap := l.State().Snapshot()
	if len(snap.Websites) != 3 {
		t.Fatalf("want 3 websites retained, got %d", len(snap.Websites))
	}
	if snap.Empty() {
		t.Fatalf("failure rendered as empty state")
	}
	if logs.FilterMessage("list_sync_failed").Len() != 1 {
		t.Fatalf("failure not logged: %v", logs.All())
	}
}

func TestList_EmptyResponsePublishesEmptyCollection(t *testing.T) {
	gate, _ := signedIn("tok")
	l := NewList(zap.NewNop(), gate, &fakeAPI{}, view.NewListState())
	if err := l.Sync(context.Background()); err != nil {
		t.Fatal(err)
	}
	snap := l.State().Snapshot()
	if !snap.Empty() || snap.Stale() {
		t.Fatalf("want empty state, got %+v", snap)
	}
}

func TestList_NoSessionSendsNothing(t *testing.T) {
	gate, nav := signedIn("")
	api := &fakeAPI{}
	l := NewList(zap.NewNop(), gate, api, view.NewListState())

	if err := l.Sync(context.Background()); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("want ErrNoSession, got %v", err)
	}
	if api.calls.Load() != 0 {
		t.Fatalf("request sent without session")
	}
	if nav.Current() != view.RouteSignIn {
		t.Fatalf("want redirect to sign-in, got %q", nav.Current())
	}
}

func TestList_UnmountBeforeNextCycleFreezesState(t *testing.T) {
	gate, _ := signedIn("tok")
	api := &fakeAPI{websites: []domain.Website{site("a")}}
	l := NewList(zap.NewNop(), gate, api, view.NewListState())

	m := l.Mount(context.Background(), 20*time.Millisecond)
	deadline := time.Now().Add(time.Second)
	for l.State().Snapshot().Loading && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	m.Unmount()
	m.Wait()
	calls := api.calls.Load()

	api.set([]domain.Website{site("x"), site("y")}, nil)
	time.Sleep(60 * time.Millisecond)

	snap := l.State().Snapshot()
	if len(snap.Websites) != 1 || snap.Websites[0].Website.ID != "a" {
		t.Fatalf("state changed after unmount: %+v", snap.Websites)
	}
	if api.calls.Load() != calls {
		t.Fatalf("requests after unmount: %d -> %d", calls, api.calls.Load())
	}
}

func TestList_LateResponseAfterUnmountIsDiscarded(t *testing.T) {
	gate, _ := signedIn("tok")
	api := &fakeAPI{websites: []domain.Website{site("a")}, block: make(chan struct{})}
	l := NewList(zap.NewNop(), gate, api, view.NewListState())

	m := l.Mount(context.Background(), time.Hour)
	deadline := time.Now().Add(time.Second)
	for api.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	m.Unmount()
	close(api.block) // the in-flight request completes after teardown
	m.Wait()

	snap := l.State().Snapshot()
	if !snap.Loading || len(snap.Websites) != 0 {
		t.Fatalf("late response was published: %+v", snap)
	}
}

func TestList_RefreshRunsImmediateCycle(t *testing.T) {
	gate, _ := signedIn("tok")
	api := &fakeAPI{}
	l := NewList(zap.NewNop(), gate, api, view.NewListState())

	m := l.Mount(context.Background(), time.Hour)
	defer m.Unmount()
	deadline := time.Now().Add(time.Second)
	for api.calls.Load() < 1 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	api.set([]domain.Website{site("new")}, nil)
	m.Refresh()
	for len(l.State().Snapshot().Websites) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if got := l.State().Snapshot().Websites; len(got) != 1 || got[0].Website.ID != "new" {
		t.Fatalf("refresh did not republish: %+v", got)
	}
}

// --- detail ---

func TestDetail_NoIDSendsNothingAndResolvesNotFound(t *testing.T) {
	gate, _ := signedIn("tok")
	api := &fakeAPI{}
	d := NewDetail(zap.NewNop(), gate, api, view.NewDetailState(), "")

	if err := d.Sync(context.Background()); !errors.Is(err, ErrNoWebsiteID) {
		t.Fatalf("want ErrNoWebsiteID, got %v", err)
	}
	if api.calls.Load() != 0 {
		t.Fatalf("request issued without id")
	}
	if !d.State().Snapshot().NotFound() {
		t.Fatalf("want not-found after loading, got %+v", d.State().Snapshot())
	}
}

func TestDetail_SyncDerivesFromHead(t *testing.T) {
	gate, _ := signedIn("tok")
	w := site("w1", domain.TickDown, domain.TickUp, domain.TickUp, domain.TickUp,
		domain.TickUp, domain.TickUp, domain.TickUp, domain.TickUp, domain.TickUp, domain.TickUp)
	w.CreatedAt = t0.Add(-48 * time.Hour)
	api := &fakeAPI{detail: &w}
	d := NewDetail(zap.NewNop(), gate, api, view.NewDetailState(), "w1")

	if err := d.Sync(context.Background()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	got := d.State().Snapshot().Website
	if got == nil {
		t.Fatalf("nothing published")
	}
	if got.Derived.Current != domain.StatusDown || got.Derived.UptimePercent != 90 {
		t.Fatalf("derived: %+v", got.Derived)
	}
	if got.Derived.ResponseTimeMs != nil {
		t.Fatalf("Down must not report latency")
	}
}

func TestDetail_FailureKeepsPriorState(t *testing.T) {
	gate, _ := signedIn("tok")
	w := site("w1", domain.TickUp)
	api := &fakeAPI{detail: &w}
	d := NewDetail(zap.NewNop(), gate, api, view.NewDetailState(), "w1")
	_ = d.Sync(context.Background())

	api.set(nil, errors.New("websites.status: empty_response"))
	if err := d.Sync(context.Background()); err == nil {
		t.Fatalf("want error")
	}
	snap := d.State().Snapshot()
	if snap.Website == nil || snap.Website.Website.ID != "w1" {
		t.Fatalf("prior state lost: %+v", snap)
	}
}

func TestDetail_FirstFetchFailureResolvesNotFound(t *testing.T) {
	gate, _ := signedIn("tok")
	api := &fakeAPI{err: errors.New("404")}
	d := NewDetail(zap.NewNop(), gate, api, view.NewDetailState(), "gone")
	_ = d.Sync(context.Background())
	if !d.State().Snapshot().NotFound() {
		t.Fatalf("want not-found, got %+v", d.State().Snapshot())
	}
}
