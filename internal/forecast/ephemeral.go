package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jonboulle/clockwork"
)

// Ephemeral is a fast, lossy copy of stored forecasts. Entries evict
// themselves after their TTL. It is never the source of truth.
type Ephemeral interface {
	Get(ctx context.Context, zoneID string) (Record, bool, error)
	Set(ctx context.Context, r Record, ttl time.Duration) error
	Delete(ctx context.Context, zoneID string) error
}

type memoryEntry struct {
	record Record
	timer  clockwork.Timer
}

// MemoryEphemeral keeps entries in a map and evicts each with its own
// timer.
type MemoryEphemeral struct {
	clock clockwork.Clock

	mu      sync.Mutex
	entries map[string]*memoryEntry
}

func NewMemoryEphemeral(clock clockwork.Clock) *MemoryEphemeral {
	return &MemoryEphemeral{
		clock:   clock,
		entries: map[string]*memoryEntry{},
	}
}

func (m *MemoryEphemeral) Get(_ context.Context, zoneID string) (Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[zoneID]
	if !ok {
		return Record{}, false, nil
	}

	return e.record, true, nil
}

func (m *MemoryEphemeral) Set(_ context.Context, r Record, ttl time.Duration) error {
	if ttl <= 0 {
		return m.Delete(context.Background(), r.ZoneID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.entries[r.ZoneID]; ok {
		old.timer.Stop()
	}

	e := &memoryEntry{record: r}
	e.timer = m.clock.AfterFunc(ttl, func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		if cur, ok := m.entries[r.ZoneID]; ok && cur == e {
			delete(m.entries, r.ZoneID)
		}
	})
	m.entries[r.ZoneID] = e

	return nil
}

func (m *MemoryEphemeral) Delete(_ context.Context, zoneID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[zoneID]; ok {
		e.timer.Stop()
		delete(m.entries, zoneID)
	}

	return nil
}

// Len returns the number of live entries.
func (m *MemoryEphemeral) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}

// RedisEphemeral stores entries as JSON in Redis with a native TTL.
type RedisEphemeral struct {
	Client *redis.Client
	Prefix string
}

// NewRedisEphemeral connects to the Redis server at url, for example
// redis://localhost:6379/0.
func NewRedisEphemeral(url string) (*RedisEphemeral, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	return &RedisEphemeral{
		Client: redis.NewClient(opts),
		Prefix: "forecast:",
	}, nil
}

func (r *RedisEphemeral) key(zoneID string) string {
	return r.Prefix + zoneID
}

func (r *RedisEphemeral) Get(ctx context.Context, zoneID string) (Record, bool, error) {
	b, err := r.Client.Get(ctx, r.key(zoneID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Record{}, false, nil
		}

		return Record{}, false, fmt.Errorf("redis get (zoneID=%s): %w", zoneID, err)
	}

	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return Record{}, false, fmt.Errorf("decoding cached forecast (zoneID=%s): %w", zoneID, err)
	}

	return rec, true, nil
}

func (r *RedisEphemeral) Set(ctx context.Context, rec Record, ttl time.Duration) error {
	if ttl <= 0 {
		return r.Delete(ctx, rec.ZoneID)
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding forecast (zoneID=%s): %w", rec.ZoneID, err)
	}

	if err := r.Client.Set(ctx, r.key(rec.ZoneID), b, ttl).Err(); err != nil {
		return fmt.Errorf("redis set (zoneID=%s): %w", rec.ZoneID, err)
	}

	return nil
}

func (r *RedisEphemeral) Delete(ctx context.Context, zoneID string) error {
	if err := r.Client.Del(ctx, r.key(zoneID)).Err(); err != nil {
		return fmt.Errorf("redis del (zoneID=%s): %w", zoneID, err)
	}

	return nil
}

// Ping checks the connection.
func (r *RedisEphemeral) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

func (r *RedisEphemeral) Close() error {
	return r.Client.Close()
}
