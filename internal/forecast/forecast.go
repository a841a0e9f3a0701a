package forecast

import (
	"context"
	"time"

	"github.com/cicconee/marine-forecast/internal/zone"
)

// Record is the stored forecast of a single zone.
//
// A Record always satisfies ExpiresAt > IssuedAt. Records that would
// violate it are rejected by the parser and never written.
type Record struct {
	// The zone identity. For high seas zones this is the zone name.
	ZoneID string `json:"zone_id"`

	// The layer the zone belongs to.
	Layer zone.Layer `json:"layer"`

	// The raw bulletin text.
	Text string `json:"text"`

	// The IANA time zone of the zone, used to interpret local times
	// in the bulletin.
	TimeZone string `json:"time_zone"`

	// When the bulletin was issued and when it expires, in UTC.
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`

	// When the bulletin was fetched.
	FetchedAt time.Time `json:"fetched_at"`
}

// Expired reports whether the record is no longer valid at now.
func (r Record) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// Key identifies what to fetch for a zone and how to interpret it.
type Key struct {
	ZoneID   string
	Layer    zone.Layer
	TimeZone string
}

// KeyOf builds the Key of a stored record.
func KeyOf(r Record) Key {
	return Key{ZoneID: r.ZoneID, Layer: r.Layer, TimeZone: r.TimeZone}
}

// Fetcher is the interface that wraps the Fetch method.
//
// Fetch returns the raw bulletin text of a zone from the upstream
// source. High seas zones are fetched by name.
type Fetcher interface {
	Fetch(ctx context.Context, zoneID string, layer zone.Layer) (string, error)
}

// Notifier is the interface that wraps the Notify method.
//
// Notify announces that a zone's stored forecast was replaced by one
// with a later expiration.
type Notifier interface {
	Notify(ctx context.Context, r Record) error
}
