package domain

import (
	"encoding/json"
	"time"
)

type WebsiteID string

// TickStatus is the two-valued result the backend records for one check.
type TickStatus string

const (
	TickUp   TickStatus = "Up"
	TickDown TickStatus = "Down"
)

// UnmarshalJSON maps anything that is not "Up" to Down. A tick is a
// completed check, so it never carries the Checking state.
func (s *TickStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if TickStatus(raw) == TickUp {
		*s = TickUp
	} else {
		*s = TickDown
	}
	return nil
}

type Tick struct {
	ID             string     `json:"id"`
	ResponseTimeMs int64      `json:"response_time_ms"`
	Status         TickStatus `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Website is a monitored target as delivered by the backend. Ticks are
// newest first and are never re-sorted client side. CreatedAt is zero when
// the list endpoint omits it.
type Website struct {
	ID        WebsiteID `json:"id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
	Ticks     []Tick    `json:"ticks"`
}
