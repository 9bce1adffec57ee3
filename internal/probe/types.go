// Package probe checks whether a website answers, for the reference
// backend's tick recorder.
package probe

import (
	"context"
	"math"
	"time"

	"github.com/hamed0406/upmonitor/internal/domain"
)

// CheckResult is the outcome of a single probe.
//
// StatusCode is the HTTP status when a response arrived; 0 for transport
// errors and timeouts.
type CheckResult struct {
	Success    bool
	LatencyMS  float64
	Message    string
	StatusCode int
}

// Checker performs a single check for a given target URL.
type Checker interface {
	Check(ctx context.Context, target string) CheckResult
}

// Tick converts the result into the record the dashboard reads. Latency is
// rounded to whole milliseconds and only kept for successful checks.
func (r CheckResult) Tick(at time.Time) domain.Tick {
	t := domain.Tick{Status: domain.TickDown, CreatedAt: at}
	if r.Success {
		t.Status = domain.TickUp
		t.ResponseTimeMs = int64(math.Round(math.Max(r.LatencyMS, 0)))
	}
	return t
}
