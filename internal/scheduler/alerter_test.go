package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/upmonitor/internal/domain"
	"github.com/hamed0406/upmonitor/internal/view"
)

// ---- shared helpers ----

type fixedSource struct{ snap view.ListSnapshot }

func (f *fixedSource) Snapshot() view.ListSnapshot { return f.snap }

func (f *fixedSource) set(rows ...domain.WebsiteStatus) {
	f.snap = view.ListSnapshot{Websites: rows}
}

func row(id string, st domain.Status) domain.WebsiteStatus {
	return domain.WebsiteStatus{
		Website: domain.Website{ID: domain.WebsiteID(id), URL: "https://" + id},
		Derived: domain.DerivedStatus{Current: st, LastCheckedAt: time.Now()},
	}
}

type memNotifier struct {
	n      int
	titles []string
	err    error
}

func (m *memNotifier) Send(ctx context.Context, title, text string) error {
	m.n++
	m.titles = append(m.titles, title)
	return m.err
}

// ---- tests ----

func TestAlerter_SendsOnDown_RespectsCooldown(t *testing.T) {
	src := &fixedSource{}
	src.set(row("a", domain.StatusUp))
	nt := &memNotifier{}
	al := NewAlerter(zap.NewNop(), src, nt, AlerterConfig{
		AlertOnRecovery: true,
		Cooldown:        time.Minute,
	})
	now := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)
	al.now = func() time.Time { return now }

	// first seen Up -> recorded, no alert
	al.scanOnce(context.Background())
	if nt.n != 0 {
		t.Fatalf("first Up must not alert, got %d", nt.n)
	}

	// flip to Down -> alert
	src.set(row("a", domain.StatusDown))
	al.scanOnce(context.Background())
	if nt.n != 1 {
		t.Fatalf("want 1 alert, got %d", nt.n)
	}

	// same Down again -> nothing new
	al.scanOnce(context.Background())
	if nt.n != 1 {
		t.Fatalf("repeat Down alerted: %d", nt.n)
	}

	// recovery bypasses cooldown
	src.set(row("a", domain.StatusUp))
	al.scanOnce(context.Background())
	if nt.n != 2 || nt.titles[1] != "🟢 Website RECOVERED" {
		t.Fatalf("want recovery alert, got %d %v", nt.n, nt.titles)
	}

	// Down again within cooldown -> suppressed
	src.set(row("a", domain.StatusDown))
	al.scanOnce(context.Background())
	if nt.n != 2 {
		t.Fatalf("cooldown ignored: %d", nt.n)
	}

	// after cooldown, flap again -> alert
	now = now.Add(2 * time.Minute)
	src.set(row("a", domain.StatusUp))
	al.scanOnce(context.Background())
	src.set(row("a", domain.StatusDown))
	al.scanOnce(context.Background())
	if nt.titles[len(nt.titles)-1] != "🔴 Website DOWN" {
		t.Fatalf("want down alert after cooldown, got %v", nt.titles)
	}
}

func TestAlerter_NoRecoveryIfDisabled(t *testing.T) {
	src := &fixedSource{}
	src.set(row("b", domain.StatusDown))
	nt := &memNotifier{}
	al := NewAlerter(zap.NewNop(), src, nt, AlerterConfig{AlertOnRecovery: false})

	al.scanOnce(context.Background())
	if nt.n != 1 {
		t.Fatalf("first seen Down should alert, got %d", nt.n)
	}
	src.set(row("b", domain.StatusUp))
	al.scanOnce(context.Background())
	if nt.n != 1 {
		t.Fatalf("recovery alert sent while disabled")
	}
}

func TestAlerter_IgnoresCheckingAndLoading(t *testing.T) {
	src := &fixedSource{snap: view.ListSnapshot{Loading: true, Websites: []domain.WebsiteStatus{row("c", domain.StatusDown)}}}
	nt := &memNotifier{}
	al := NewAlerter(zap.NewNop(), src, nt, AlerterConfig{})

	al.scanOnce(context.Background())
	src.set(row("c", domain.StatusChecking))
	al.scanOnce(context.Background())
	if nt.n != 0 {
		t.Fatalf("unexpected alerts: %d", nt.n)
	}
}

func TestAlerter_SendFailureIsLoggedNotFatal(t *testing.T) {
	src := &fixedSource{}
	src.set(row("d", domain.StatusDown))
	nt := &memNotifier{err: errors.New("slack non-2xx")}
	al := NewAlerter(zap.NewNop(), src, nt, AlerterConfig{})

	if sent := al.scanOnce(context.Background()); sent != 0 {
		t.Fatalf("failed send counted: %d", sent)
	}
	if nt.n != 1 {
		t.Fatalf("send not attempted")
	}
}
