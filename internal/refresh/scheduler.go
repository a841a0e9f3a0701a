// Package refresh keeps stored forecasts current independently of
// request traffic.
package refresh

import (
	"context"
	"time"

	"github.com/cicconee/marine-forecast/internal/forecast"
	"github.com/cicconee/marine-forecast/internal/observability"
	"github.com/cicconee/marine-forecast/internal/pool"
	"github.com/cicconee/marine-forecast/internal/zone"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

const (
	DefaultInterval = 5 * time.Minute
	DefaultWorkers  = 8
)

// Cache is the part of *forecast.Cache the scheduler drives.
type Cache interface {
	Get(ctx context.Context, key forecast.Key) (forecast.Record, error)
	Refresh(ctx context.Context, r forecast.Record) (forecast.Record, error)
}

// ExpiredSelector enumerates stored forecasts that expired before t.
type ExpiredSelector interface {
	SelectExpired(ctx context.Context, t time.Time) ([]forecast.Record, error)
}

// Zones supplies the zones to initialize and their time zones.
type Zones interface {
	Catalog() *zone.Catalog
	TimeZoneOf(z zone.Zone) string
}

// Scheduler initializes every known zone at startup and then sweeps the
// store for expired forecasts every Interval. Every fetch goes through
// Cache, so a sweep and a request for the same zone share one flight.
type Scheduler struct {
	Cache Cache
	Store ExpiredSelector
	Zones Zones

	// Reports zones upstream never publishes. Nil skips nothing.
	Skip func(zoneID string) bool

	Workers  int
	Interval time.Duration

	Clock   clockwork.Clock
	Logger  *logrus.Logger
	Metrics *observability.Metrics
}

func (s *Scheduler) interval() time.Duration {
	if s.Interval <= 0 {
		return DefaultInterval
	}
	return s.Interval
}

func (s *Scheduler) workers() int {
	if s.Workers <= 0 {
		return DefaultWorkers
	}
	return s.Workers
}

func (s *Scheduler) clock() clockwork.Clock {
	if s.Clock == nil {
		s.Clock = clockwork.NewRealClock()
	}
	return s.Clock
}

func (s *Scheduler) skipped(id string) bool {
	return s.Skip != nil && s.Skip(id)
}

// Run initializes every zone, then sweeps every Interval until ctx
// ends. A failing zone never stops the loop.
func (s *Scheduler) Run(ctx context.Context) {
	ir := s.Initialize(ctx)
	s.Logger.WithFields(logrus.Fields{
		"total":   ir.Total,
		"skipped": ir.Skipped,
		"current": ir.Current,
		"fails":   len(ir.Fails),
	}).Info("forecast initialization finished")

	ticker := s.clock().NewTicker(s.interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			s.Sweep(ctx)
		}
	}
}

// Initialize makes sure every catalog zone outside the skip list has a
// current forecast, fetching those that are missing or expired.
func (s *Scheduler) Initialize(ctx context.Context) InitResult {
	var targets []target
	result := InitResult{}

	for _, z := range s.Zones.Catalog().All() {
		result.Total++
		if s.skipped(z.ID) {
			result.Skipped++
			continue
		}

		key := forecast.Key{ZoneID: z.ID, Layer: z.Layer, TimeZone: s.Zones.TimeZoneOf(z)}
		targets = append(targets, target{key: key})
	}

	done, fails := s.each(ctx, targets, func(ctx context.Context, t target) (forecast.Record, error) {
		return s.Cache.Get(ctx, t.key)
	})

	result.Current = len(done)
	result.Fails = fails
	for _, f := range fails {
		s.Logger.WithFields(logrus.Fields{
			"zone":  f.ZoneID,
			"layer": f.Layer,
		}).Warnf("failed to initialize forecast: %v", f.Err)
	}

	return result
}

// Sweep refreshes every stored forecast that has expired.
func (s *Scheduler) Sweep(ctx context.Context) SweepResult {
	start := s.clock().Now()
	result := SweepResult{RunID: uuid.New()}
	log := s.Logger.WithField("run_id", result.RunID.String())

	defer func() {
		s.Metrics.SweepDuration.Observe(s.clock().Since(start).Seconds())
	}()

	expired, err := s.Store.SelectExpired(ctx, start)
	if err != nil {
		log.Errorf("failed selecting expired forecasts: %v", err)
		return result
	}
	result.Expired = len(expired)

	targets := make([]target, len(expired))
	for i, r := range expired {
		targets[i] = target{key: forecast.KeyOf(r), prev: r}
	}

	done, fails := s.each(ctx, targets, func(ctx context.Context, t target) (forecast.Record, error) {
		return s.Cache.Refresh(ctx, t.prev)
	})

	for _, d := range done {
		if d.rec.ExpiresAt.After(d.prev.ExpiresAt) {
			result.Refreshed++
		} else {
			result.Unchanged++
		}
	}
	result.Fails = fails

	for _, f := range fails {
		log.WithFields(logrus.Fields{
			"zone":  f.ZoneID,
			"layer": f.Layer,
		}).Warnf("failed to refresh forecast: %v", f.Err)
	}

	s.Metrics.SweepRefreshed.Add(float64(result.Refreshed))
	s.Metrics.SweepFailures.Add(float64(len(result.Fails)))

	log.WithFields(logrus.Fields{
		"expired":   result.Expired,
		"refreshed": result.Refreshed,
		"unchanged": result.Unchanged,
		"fails":     len(result.Fails),
	}).Info("sweep finished")

	return result
}

type target struct {
	key  forecast.Key
	prev forecast.Record
}

type outcome struct {
	target
	rec forecast.Record
}

// each runs fn for every target on a bounded pool and collects the
// outcomes. Targets whose ctx already ended fail without running fn.
func (s *Scheduler) each(ctx context.Context, targets []target, fn func(context.Context, target) (forecast.Record, error)) ([]outcome, []Fail) {
	if len(targets) == 0 {
		return nil, nil
	}

	dataCh := make(chan outcome, len(targets))
	failCh := make(chan Fail, len(targets))

	p := pool.New(s.workers(), len(targets))
	p.Start()

	for i := range targets {
		t := targets[i]
		p.Add(func() {
			if ctx.Err() != nil {
				failCh <- Fail{ZoneID: t.key.ZoneID, Layer: t.key.Layer, Err: ctx.Err()}
				return
			}

			rec, err := fn(ctx, t)
			if err != nil {
				failCh <- Fail{ZoneID: t.key.ZoneID, Layer: t.key.Layer, Err: err}
				return
			}

			dataCh <- outcome{target: t, rec: rec}
		})
	}

	var (
		done  []outcome
		fails []Fail
	)
	for range targets {
		select {
		case o := <-dataCh:
			done = append(done, o)
		case f := <-failCh:
			fails = append(fails, f)
		}
	}
	p.Stop()

	return done, fails
}
