package forecast

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cicconee/marine-forecast/internal/expiration"
	"github.com/cicconee/marine-forecast/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// DefaultNotifyTimeout bounds how long a flight waits on the Notifier
// after the new forecast is stored.
const DefaultNotifyTimeout = 5 * time.Second

// Cache serves zone forecasts until they expire and refetches them
// afterwards.
//
// At most one fetch per zone is in flight at any time. Concurrent
// callers for the same zone wait on that fetch and share its result.
// A stored forecast is only ever replaced by one that expires later.
type Cache struct {
	// The durable store. It is authoritative.
	Store Store

	// An optional fast layer in front of Store. It is written after
	// Store and purged with it.
	Ephemeral Ephemeral

	// Retrieves bulletin text from upstream.
	Fetcher Fetcher

	// Derives issuance and expiration from bulletin text.
	Parser *expiration.Parser

	// Optional. Told about every forecast that replaces an older one.
	Notifier Notifier

	// Bounds each Notify call. Zero means DefaultNotifyTimeout.
	NotifyTimeout time.Duration

	Clock   clockwork.Clock
	Logger  *logrus.Logger
	Metrics *observability.Metrics

	group singleflight.Group
}

// NewCache returns a Cache using the real clock and the default parser.
func NewCache(store Store, fetcher Fetcher, metrics *observability.Metrics, logger *logrus.Logger) *Cache {
	return &Cache{
		Store:   store,
		Fetcher: fetcher,
		Parser:  expiration.NewParser(),
		Clock:   clockwork.NewRealClock(),
		Logger:  logger,
		Metrics: metrics,
	}
}

// Get returns the forecast for key. A forecast that has not expired is
// returned without a fetch. Otherwise the bulletin is fetched, parsed
// and stored.
//
// If the fetch fails and an older forecast is stored, that forecast is
// returned together with a *FetchError.
func (c *Cache) Get(ctx context.Context, key Key) (Record, error) {
	now := c.Clock.Now()

	if c.Ephemeral != nil {
		rec, ok, err := c.Ephemeral.Get(ctx, key.ZoneID)
		switch {
		case err != nil:
			c.Logger.WithFields(logrus.Fields{"zone": key.ZoneID}).
				Warnf("ephemeral get failed: %v", err)
		case ok && !rec.Expired(now):
			c.Metrics.CacheLookups.WithLabelValues("hit_ephemeral").Inc()
			return rec, nil
		}
	}

	rec, err := c.Store.FindByZoneID(ctx, key.ZoneID)
	switch {
	case err == nil && !rec.Expired(now):
		c.Metrics.CacheLookups.WithLabelValues("hit_store").Inc()
		c.warm(ctx, rec)
		return rec, nil
	case err != nil && !errors.Is(err, ErrNotFound):
		return Record{}, fmt.Errorf("finding forecast (zoneID=%s): %w", key.ZoneID, err)
	}

	c.Metrics.CacheLookups.WithLabelValues("miss").Inc()
	return c.do(ctx, key)
}

// Refresh refetches the forecast of a stored record. It shares the
// single flight of Get, so a refresh never races a request for the same
// zone.
func (c *Cache) Refresh(ctx context.Context, r Record) (Record, error) {
	return c.do(ctx, KeyOf(r))
}

// do runs the fetch of key once for all concurrent callers. The fetch is
// detached from ctx so one caller giving up does not fail the others;
// each caller still stops waiting when its own ctx ends.
func (c *Cache) do(ctx context.Context, key Key) (Record, error) {
	ch := c.group.DoChan(key.ZoneID, func() (any, error) {
		return c.fetch(context.WithoutCancel(ctx), key)
	})

	select {
	case <-ctx.Done():
		return Record{}, ctx.Err()
	case res := <-ch:
		rec, _ := res.Val.(Record)
		return rec, res.Err
	}
}

func (c *Cache) fetch(ctx context.Context, key Key) (Record, error) {
	now := c.Clock.Now()
	log := c.Logger.WithFields(logrus.Fields{
		"zone":  key.ZoneID,
		"layer": key.Layer,
	})

	// Another flight may have finished between the caller's lookup and
	// this one starting.
	existing, err := c.Store.FindByZoneID(ctx, key.ZoneID)
	hasExisting := err == nil
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Record{}, fmt.Errorf("finding forecast (zoneID=%s): %w", key.ZoneID, err)
	}

	if hasExisting && !existing.Expired(now) {
		return existing, nil
	}

	text, err := c.Fetcher.Fetch(ctx, key.ZoneID, key.Layer)
	if err != nil {
		c.Metrics.Fetches.WithLabelValues(string(key.Layer), "error").Inc()
		fetchErr := &FetchError{ZoneID: key.ZoneID, Layer: key.Layer, Err: err}
		if hasExisting {
			log.Warnf("fetch failed, serving stored forecast: %v", err)
			return existing, fetchErr
		}

		return Record{}, fetchErr
	}
	c.Metrics.Fetches.WithLabelValues(string(key.Layer), "success").Inc()

	parsed, err := c.Parser.Parse(text, key.TimeZone, now)
	if err != nil {
		c.Metrics.ParseFailures.WithLabelValues(string(key.Layer)).Inc()
		c.purge(ctx, key.ZoneID)
		log.Warnf("deleted forecast after parse failure: %v", err)
		return Record{}, fmt.Errorf("parsing forecast (zoneID=%s): %w", key.ZoneID, err)
	}

	for _, w := range parsed.Warnings {
		log.Warn(w)
	}

	rec := Record{
		ZoneID:    key.ZoneID,
		Layer:     key.Layer,
		Text:      text,
		TimeZone:  key.TimeZone,
		IssuedAt:  parsed.IssuedAt,
		ExpiresAt: parsed.ExpiresAt,
		FetchedAt: now,
	}

	if hasExisting && !rec.ExpiresAt.After(existing.ExpiresAt) {
		c.Metrics.Writes.WithLabelValues("discarded").Inc()
		log.Infof("no update needed, fetched forecast expires %s", rec.ExpiresAt)
		return existing, nil
	}

	written, err := c.Store.Upsert(ctx, rec)
	if err != nil {
		return Record{}, fmt.Errorf("writing forecast (zoneID=%s): %w", key.ZoneID, err)
	}

	if !written {
		// A later forecast was stored outside this process.
		c.Metrics.Writes.WithLabelValues("discarded").Inc()
		current, err := c.Store.FindByZoneID(ctx, key.ZoneID)
		if err != nil {
			return Record{}, fmt.Errorf("finding forecast (zoneID=%s): %w", key.ZoneID, err)
		}

		return current, nil
	}

	c.Metrics.Writes.WithLabelValues("written").Inc()
	c.warm(ctx, rec)

	if hasExisting {
		log.Infof("forecast updated, expires %s", rec.ExpiresAt)
		c.notify(ctx, rec)
	} else {
		log.Infof("forecast saved, expires %s", rec.ExpiresAt)
	}

	return rec, nil
}

// warm copies r into the ephemeral layer until it expires.
func (c *Cache) warm(ctx context.Context, r Record) {
	if c.Ephemeral == nil {
		return
	}

	ttl := r.ExpiresAt.Sub(c.Clock.Now())
	if err := c.Ephemeral.Set(ctx, r, ttl); err != nil {
		c.Logger.WithFields(logrus.Fields{"zone": r.ZoneID}).
			Warnf("ephemeral set failed: %v", err)
	}
}

// purge removes a zone's forecast from both layers.
func (c *Cache) purge(ctx context.Context, zoneID string) {
	if err := c.Store.Delete(ctx, zoneID); err != nil {
		c.Logger.WithFields(logrus.Fields{"zone": zoneID}).
			Errorf("deleting forecast: %v", err)
	}

	if c.Ephemeral != nil {
		if err := c.Ephemeral.Delete(ctx, zoneID); err != nil {
			c.Logger.WithFields(logrus.Fields{"zone": zoneID}).
				Warnf("ephemeral delete failed: %v", err)
		}
	}
}

func (c *Cache) notify(ctx context.Context, r Record) {
	if c.Notifier == nil {
		return
	}

	timeout := c.NotifyTimeout
	if timeout <= 0 {
		timeout = DefaultNotifyTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := c.Notifier.Notify(ctx, r); err != nil {
		c.Logger.WithFields(logrus.Fields{"zone": r.ZoneID}).
			Errorf("publishing forecast update: %v", err)
	}
}
