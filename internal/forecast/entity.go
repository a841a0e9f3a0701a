package forecast

import (
	"context"
	"time"

	"github.com/cicconee/marine-forecast/internal/zone"
)

// Schema creates the forecasts table.
const Schema = `CREATE TABLE IF NOT EXISTS forecasts (
	zone_id    TEXT PRIMARY KEY,
	layer      TEXT NOT NULL,
	text       TEXT NOT NULL,
	timezone   TEXT NOT NULL,
	issued_at  TIMESTAMPTZ NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL,
	fetched_at TIMESTAMPTZ NOT NULL,
	CHECK (expires_at > issued_at)
);
CREATE INDEX IF NOT EXISTS forecasts_expires_at_idx ON forecasts (expires_at);`

// RecordEntity is a Record as it is stored in the database.
type RecordEntity struct {
	ZoneID    string
	Layer     string
	Text      string
	TimeZone  string
	IssuedAt  time.Time
	ExpiresAt time.Time
	FetchedAt time.Time
}

// NewRecordEntity returns r as a RecordEntity.
func NewRecordEntity(r Record) RecordEntity {
	return RecordEntity{
		ZoneID:    r.ZoneID,
		Layer:     string(r.Layer),
		Text:      r.Text,
		TimeZone:  r.TimeZone,
		IssuedAt:  r.IssuedAt.UTC(),
		ExpiresAt: r.ExpiresAt.UTC(),
		FetchedAt: r.FetchedAt.UTC(),
	}
}

// ToRecord returns this RecordEntity as a Record.
func (e *RecordEntity) ToRecord() Record {
	return Record{
		ZoneID:    e.ZoneID,
		Layer:     zone.Layer(e.Layer),
		Text:      e.Text,
		TimeZone:  e.TimeZone,
		IssuedAt:  e.IssuedAt.UTC(),
		ExpiresAt: e.ExpiresAt.UTC(),
		FetchedAt: e.FetchedAt.UTC(),
	}
}

// Scan will scan the query result in scanner into this RecordEntity.
func (e *RecordEntity) Scan(scanner Scanner) error {
	return scanner.Scan(
		&e.ZoneID,
		&e.Layer,
		&e.Text,
		&e.TimeZone,
		&e.IssuedAt,
		&e.ExpiresAt,
		&e.FetchedAt)
}

// Select reads the forecast of zoneID into this RecordEntity. If no rows
// are found sql.ErrNoRows is returned.
func (e *RecordEntity) Select(ctx context.Context, db QueryRower, zoneID string) error {
	query := `SELECT zone_id, layer, text, timezone, issued_at, expires_at, fetched_at
			  FROM forecasts WHERE zone_id = $1`

	return e.Scan(db.QueryRowContext(ctx, query, zoneID))
}

// Upsert writes this RecordEntity. An existing row is only replaced when
// its expiration is earlier than this one. It returns false when the
// existing row was kept.
func (e *RecordEntity) Upsert(ctx context.Context, db Execer) (bool, error) {
	query := `INSERT INTO forecasts(zone_id, layer, text, timezone, issued_at, expires_at, fetched_at)
			  VALUES($1, $2, $3, $4, $5, $6, $7)
			  ON CONFLICT (zone_id) DO UPDATE SET
			  layer = EXCLUDED.layer, text = EXCLUDED.text, timezone = EXCLUDED.timezone,
			  issued_at = EXCLUDED.issued_at, expires_at = EXCLUDED.expires_at,
			  fetched_at = EXCLUDED.fetched_at
			  WHERE forecasts.expires_at < EXCLUDED.expires_at`

	res, err := db.ExecContext(ctx, query,
		e.ZoneID,
		e.Layer,
		e.Text,
		e.TimeZone,
		e.IssuedAt,
		e.ExpiresAt,
		e.FetchedAt)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// Delete removes the forecast of this RecordEntity's ZoneID.
func (e *RecordEntity) Delete(ctx context.Context, db Execer) error {
	query := `DELETE FROM forecasts WHERE zone_id = $1`

	_, err := db.ExecContext(ctx, query, e.ZoneID)
	return err
}

// RecordEntityCollection is a collection of RecordEntity.
type RecordEntityCollection []RecordEntity

// ToRecords returns this RecordEntityCollection as Records.
func (c *RecordEntityCollection) ToRecords() []Record {
	records := make([]Record, 0, len(*c))
	for _, e := range *c {
		records = append(records, e.ToRecord())
	}
	return records
}

// SelectExpired reads every forecast that expires before t, oldest
// first.
func (c *RecordEntityCollection) SelectExpired(ctx context.Context, db Queryer, t time.Time) error {
	query := `SELECT zone_id, layer, text, timezone, issued_at, expires_at, fetched_at
			  FROM forecasts WHERE expires_at < $1
			  ORDER BY expires_at`

	rows, err := db.QueryContext(ctx, query, t.UTC())
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		e := RecordEntity{}
		if err := e.Scan(rows); err != nil {
			return err
		}
		*c = append(*c, e)
	}

	return rows.Err()
}
