// Package status turns raw backend ticks into the view model the dashboard
// renders.
package status

import (
	"time"

	"github.com/hamed0406/upmonitor/internal/domain"
)

// UptimeWindow is how many of the most recent ticks feed the uptime figure.
const UptimeWindow = 10

// Derive computes the DerivedStatus for newest-first ticks using the default
// window. fallback is reported as LastCheckedAt when there are no ticks.
func Derive(ticks []domain.Tick, fallback time.Time) domain.DerivedStatus {
	return DeriveWindow(ticks, fallback, UptimeWindow)
}

// DeriveWindow is Derive with an explicit window size. The uptime
// percentage is a recency-weighted approximation over at most n ticks;
// anything older than the window never influences it.
func DeriveWindow(ticks []domain.Tick, fallback time.Time, n int) domain.DerivedStatus {
	out := domain.DerivedStatus{
		Current:       domain.StatusChecking,
		LastCheckedAt: fallback,
	}
	if len(ticks) == 0 {
		return out
	}

	head := ticks[0]
	out.LastCheckedAt = head.CreatedAt
	if head.Status == domain.TickUp {
		out.Current = domain.StatusUp
		ms := head.ResponseTimeMs
		out.ResponseTimeMs = &ms
	} else {
		out.Current = domain.StatusDown
	}

	if n < 0 {
		n = 0
	}
	if n > len(ticks) {
		n = len(ticks)
	}
	out.Window = ticks[:n:n]
	out.UptimePercent = uptime(out.Window)
	return out
}

func uptime(window []domain.Tick) float64 {
	if len(window) == 0 {
		return 0
	}
	up := 0
	for _, t := range window {
		if t.Status == domain.TickUp {
			up++
		}
	}
	return 100 * float64(up) / float64(len(window))
}

// ForWebsite derives a website's status. When the backend did not report a
// creation time, now stands in so the view never shows an empty date.
func ForWebsite(w domain.Website, now time.Time) domain.WebsiteStatus {
	fallback := w.CreatedAt
	if fallback.IsZero() {
		fallback = now
	}
	return domain.WebsiteStatus{Website: w, Derived: Derive(w.Ticks, fallback)}
}
