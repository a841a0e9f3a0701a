package forecast

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cicconee/marine-forecast/internal/observability"
	"github.com/cicconee/marine-forecast/internal/zone"
	"github.com/jonboulle/clockwork"
)

var epoch = time.Date(2024, time.January, 15, 16, 30, 0, 0, time.UTC)

// bulletin renders a minimal high seas style bulletin issued at issued
// and expiring at expires, both read as UTC.
func bulletin(issued, expires time.Time) string {
	return fmt.Sprintf("HIGH SEAS FORECAST\n%s UTC %s\nExpires:%s\n",
		issued.UTC().Format("1504"),
		issued.UTC().Format("Mon Jan 2 2006"),
		expires.UTC().Format("200601021504"))
}

type fakeFetcher struct {
	mu    sync.Mutex
	texts map[string]string
	errs  map[string]error
	calls atomic.Int32

	// When set, Fetch signals started and blocks until release closes.
	started chan struct{}
	release chan struct{}
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		texts: map[string]string{},
		errs:  map[string]error{},
	}
}

func (f *fakeFetcher) set(zoneID, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts[zoneID] = text
	delete(f.errs, zoneID)
}

func (f *fakeFetcher) fail(zoneID string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[zoneID] = err
}

func (f *fakeFetcher) Fetch(ctx context.Context, zoneID string, layer zone.Layer) (string, error) {
	f.calls.Add(1)

	if f.started != nil {
		select {
		case f.started <- struct{}{}:
		default:
		}
		<-f.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.errs[zoneID]; ok {
		return "", err
	}

	text, ok := f.texts[zoneID]
	if !ok {
		return "", fmt.Errorf("no bulletin for %s", zoneID)
	}

	return text, nil
}

type fakeNotifier struct {
	mu      sync.Mutex
	records []Record
}

func (n *fakeNotifier) Notify(_ context.Context, r Record) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.records = append(n.records, r)
	return nil
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.records)
}

type testCache struct {
	*Cache
	clock    *clockwork.FakeClock
	store    *MemoryStore
	fetcher  *fakeFetcher
	notifier *fakeNotifier
}

func newTestCache() *testCache {
	clock := clockwork.NewFakeClockAt(epoch)
	store := NewMemoryStore()
	fetcher := newFakeFetcher()
	notifier := &fakeNotifier{}

	c := NewCache(store, fetcher, observability.NewMetricsForTesting(), observability.NewDiscardLogger())
	c.Clock = clock
	c.Notifier = notifier

	return &testCache{
		Cache:    c,
		clock:    clock,
		store:    store,
		fetcher:  fetcher,
		notifier: notifier,
	}
}

func highSeasKey(id string) Key {
	return Key{ZoneID: id, Layer: zone.HighSeas, TimeZone: "UTC"}
}
