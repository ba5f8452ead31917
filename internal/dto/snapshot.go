package dto

import (
	"strings"
	"time"
)

// MarketSnapshot is one observation of venue prices. Snapshots are read-only
// once built.
type MarketSnapshot struct {
	Timestamp time.Time          `json:"timestamp"`
	Prices    map[string]float64 `json:"prices"`
	Volume    float64            `json:"volume"`
}

// Hour is the hour of day the snapshot was taken in.
func (s MarketSnapshot) Hour() int {
	return s.Timestamp.Hour()
}

func (s MarketSnapshot) Price(venue string) (float64, bool) {
	p, ok := s.Prices[strings.ToLower(venue)]
	return p, ok
}
