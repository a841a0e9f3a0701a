package forecast

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// ErrNotFound is returned by a Store when a zone has no forecast.
var ErrNotFound = errors.New("forecast not found")

// Store is the durable, authoritative storage of forecasts.
type Store interface {
	// FindByZoneID returns the forecast of zoneID or ErrNotFound.
	FindByZoneID(ctx context.Context, zoneID string) (Record, error)

	// Upsert writes r unless a stored forecast for the same zone
	// expires at or after r.ExpiresAt. It reports whether r was
	// written.
	Upsert(ctx context.Context, r Record) (bool, error)

	// Delete removes the forecast of zoneID. Deleting a missing
	// forecast is not an error.
	Delete(ctx context.Context, zoneID string) error

	// SelectExpired returns every forecast that expires before t.
	SelectExpired(ctx context.Context, t time.Time) ([]Record, error)
}

// PostgresStore is a Store backed by PostgreSQL.
type PostgresStore struct {
	// The database connection.
	DB *sql.DB
}

// NewPostgresStore creates and returns a PostgresStore with the database
// connection db.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

// Migrate creates the forecasts table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("creating forecasts table: %w", err)
	}

	return nil
}

func (s *PostgresStore) FindByZoneID(ctx context.Context, zoneID string) (Record, error) {
	e := RecordEntity{}
	if err := e.Select(ctx, s.DB, zoneID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}

		return Record{}, err
	}

	return e.ToRecord(), nil
}

func (s *PostgresStore) Upsert(ctx context.Context, r Record) (bool, error) {
	e := NewRecordEntity(r)
	return e.Upsert(ctx, s.DB)
}

func (s *PostgresStore) Delete(ctx context.Context, zoneID string) error {
	e := RecordEntity{ZoneID: zoneID}
	return e.Delete(ctx, s.DB)
}

func (s *PostgresStore) SelectExpired(ctx context.Context, t time.Time) ([]Record, error) {
	c := RecordEntityCollection{}
	if err := c.SelectExpired(ctx, s.DB, t); err != nil {
		return nil, err
	}

	return c.ToRecords(), nil
}

// MemoryStore is a Store held in process memory. It is used when no
// database is configured and in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]Record{}}
}

func (s *MemoryStore) FindByZoneID(_ context.Context, zoneID string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[zoneID]
	if !ok {
		return Record{}, ErrNotFound
	}

	return r, nil
}

func (s *MemoryStore) Upsert(_ context.Context, r Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.records[r.ZoneID]; ok && !existing.ExpiresAt.Before(r.ExpiresAt) {
		return false, nil
	}

	s.records[r.ZoneID] = r
	return true, nil
}

func (s *MemoryStore) Delete(_ context.Context, zoneID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, zoneID)
	return nil
}

func (s *MemoryStore) SelectExpired(_ context.Context, t time.Time) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var expired []Record
	for _, r := range s.records {
		if r.ExpiresAt.Before(t) {
			expired = append(expired, r)
		}
	}

	sort.Slice(expired, func(i, j int) bool {
		return expired[i].ExpiresAt.Before(expired[j].ExpiresAt)
	})

	return expired, nil
}
