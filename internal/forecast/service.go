package forecast

import (
	"context"
	"errors"
	"fmt"

	"github.com/cicconee/marine-forecast/internal/app"
	"github.com/cicconee/marine-forecast/internal/geometry"
	"github.com/cicconee/marine-forecast/internal/zone"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Resolver is the interface that wraps the zone lookups Service needs.
//
// Resolve returns the zone of each layer containing the point.
// TimeZoneOf returns the IANA time zone of a zone. Catalog returns the
// zone catalog being searched.
type Resolver interface {
	Resolve(lat, lon float64) (zone.Resolution, error)
	TimeZoneOf(z zone.Zone) string
	Catalog() *zone.Catalog
}

// Service serves the marine forecasts of a point. Each point maps to up
// to three zones, one per layer, and each zone's forecast comes from the
// Cache.
type Service struct {
	// Maps points to zones.
	Resolver Resolver

	// Serves and refreshes zone forecasts.
	Cache *Cache

	Logger *logrus.Logger
}

// New will return a pointer to a Service.
func New(r Resolver, c *Cache, l *logrus.Logger) *Service {
	return &Service{
		Resolver: r,
		Cache:    c,
		Logger:   l,
	}
}

// ZoneForecast is the forecast of one zone. Record is nil when no
// forecast could be produced, in which case Err says why. Stale is set
// when Record has expired because the refetch failed.
type ZoneForecast struct {
	Zone   zone.Zone
	Record *Record
	Stale  bool
	Err    error
}

// PointForecast holds the forecast of each zone a point resolved to, in
// layer order.
type PointForecast struct {
	Point geometry.Point
	Zones []ZoneForecast
}

// Get will get the forecast of every zone containing point. Errors of a
// single zone are reported on its ZoneForecast and do not affect the
// other zones. Resolution errors fail the whole call.
func (s *Service) Get(ctx context.Context, point geometry.Point) (PointForecast, error) {
	res, err := s.Resolver.Resolve(point.Lat(), point.Lon())
	if err != nil {
		return PointForecast{}, fmt.Errorf("resolving zones (point=%s): %w", point, err)
	}

	zones := res.Zones()
	results := make([]ZoneForecast, len(zones))

	var g errgroup.Group
	for i := range zones {
		i := i
		g.Go(func() error {
			results[i] = s.zoneForecast(ctx, zones[i])
			return nil
		})
	}
	_ = g.Wait()

	return PointForecast{Point: res.Point, Zones: results}, nil
}

// GetZone will get the forecast of a single zone by layer and ID.
func (s *Service) GetZone(ctx context.Context, layer zone.Layer, id string) (ZoneForecast, error) {
	z, ok := s.Resolver.Catalog().Lookup(layer, id)
	if !ok {
		return ZoneForecast{}, app.NotFound(
			fmt.Errorf("zone not in catalog (layer=%s, id=%s)", layer, id),
			fmt.Sprintf("%s zone %s does not exist", layer, id))
	}

	zf := s.zoneForecast(ctx, z)
	if zf.Record == nil {
		return ZoneForecast{}, zf.Err
	}

	return zf, nil
}

func (s *Service) zoneForecast(ctx context.Context, z zone.Zone) ZoneForecast {
	key := Key{
		ZoneID:   z.ID,
		Layer:    z.Layer,
		TimeZone: s.Resolver.TimeZoneOf(z),
	}

	zf := ZoneForecast{Zone: z}

	rec, err := s.Cache.Get(ctx, key)
	if err != nil {
		zf.Err = err

		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) || rec.ZoneID == "" {
			s.Logger.WithFields(logrus.Fields{
				"zone":  z.ID,
				"layer": z.Layer,
			}).Errorf("no forecast available: %v", err)
			return zf
		}
	}

	zf.Record = &rec
	zf.Stale = rec.Expired(s.Cache.Clock.Now())
	return zf
}
