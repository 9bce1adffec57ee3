package domain

import "time"

// Status is the three-valued state shown to the user. Checking is only ever
// produced for a website with no ticks yet.
type Status int

const (
	StatusChecking Status = iota
	StatusUp
	StatusDown
)

func (s Status) String() string {
	switch s {
	case StatusUp:
		return "Up"
	case StatusDown:
		return "Down"
	default:
		return "Checking"
	}
}

// DerivedStatus is computed from a website's ticks and never persisted.
type DerivedStatus struct {
	Current Status
	// ResponseTimeMs is nil when the latest check is not Up or there is none.
	ResponseTimeMs *int64
	LastCheckedAt  time.Time
	// UptimePercent covers Window only, not the website's lifetime.
	UptimePercent float64
	Window        []Tick
}

// WebsiteStatus pairs a website with its derived view model.
type WebsiteStatus struct {
	Website Website
	Derived DerivedStatus
}
