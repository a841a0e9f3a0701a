package refresh

import (
	"github.com/cicconee/marine-forecast/internal/zone"
	"github.com/google/uuid"
)

// Fail is a zone that could not be brought up to date.
type Fail struct {
	ZoneID string     `json:"zone_id"`
	Layer  zone.Layer `json:"layer"`
	Err    error      `json:"-"`
}

// InitResult reports the startup pass.
type InitResult struct {
	Total   int
	Skipped int
	Current int
	Fails   []Fail
}

// SweepResult reports one periodic sweep. Refreshed counts the expired
// records whose expiration moved forward. Unchanged counts those where
// upstream had nothing newer yet.
type SweepResult struct {
	RunID     uuid.UUID
	Expired   int
	Refreshed int
	Unchanged int
	Fails     []Fail
}
