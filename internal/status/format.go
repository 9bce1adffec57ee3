package status

import (
	"fmt"

	"github.com/hamed0406/upmonitor/internal/domain"
)

const unavailable = "—"

// Latency renders the current response time, or a dash when unavailable.
func Latency(d domain.DerivedStatus) string {
	if d.ResponseTimeMs == nil {
		return unavailable
	}
	return fmt.Sprintf("%dms", *d.ResponseTimeMs)
}

// Percent renders the uptime to one decimal, e.g. "90.0%".
func Percent(d domain.DerivedStatus) string {
	return fmt.Sprintf("%.1f%%", d.UptimePercent)
}

// TickLatency renders a single tick's latency the same way the summary does.
func TickLatency(t domain.Tick) string {
	if t.Status != domain.TickUp {
		return unavailable
	}
	return fmt.Sprintf("%dms", t.ResponseTimeMs)
}
