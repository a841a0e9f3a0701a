package zone

import (
	"fmt"
	"sync"

	"github.com/cicconee/marine-forecast/internal/geometry"
	"github.com/ringsaturn/tzf"
	"github.com/sirupsen/logrus"
)

// FallbackTimeZone is used when no time zone polygon covers a zone's
// centroid, which happens far out at sea.
const FallbackTimeZone = "UTC"

// TimeZoneFinder maps a coordinate to an IANA time zone name. An empty
// name means the coordinate is not covered.
type TimeZoneFinder interface {
	GetTimezoneName(lng float64, lat float64) string
}

// NewDefaultFinder returns a TimeZoneFinder backed by tzf's embedded
// data. It holds a large amount of memory; build it once.
func NewDefaultFinder() (TimeZoneFinder, error) {
	f, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, fmt.Errorf("creating timezone finder: %w", err)
	}

	return f, nil
}

// Resolution holds at most one zone per layer for a point.
type Resolution struct {
	Point    geometry.Point
	Coastal  *Zone
	Offshore *Zone
	HighSeas *Zone
}

// Get returns the zone resolved for layer l, or nil.
func (r Resolution) Get(l Layer) *Zone {
	switch l {
	case Coastal:
		return r.Coastal
	case Offshore:
		return r.Offshore
	case HighSeas:
		return r.HighSeas
	}

	return nil
}

func (r *Resolution) set(l Layer, z *Zone) {
	switch l {
	case Coastal:
		r.Coastal = z
	case Offshore:
		r.Offshore = z
	case HighSeas:
		r.HighSeas = z
	}
}

// Zones returns the resolved zones in layer order.
func (r Resolution) Zones() []Zone {
	var zones []Zone
	for _, l := range Layers {
		if z := r.Get(l); z != nil {
			zones = append(zones, *z)
		}
	}

	return zones
}

// Resolver maps points to zones using a Catalog.
type Resolver struct {
	catalog *Catalog
	finder  TimeZoneFinder
	logger  *logrus.Logger

	mu        sync.RWMutex
	timeZones map[string]string
}

func NewResolver(c *Catalog, f TimeZoneFinder, l *logrus.Logger) *Resolver {
	return &Resolver{
		catalog:   c,
		finder:    f,
		logger:    l,
		timeZones: map[string]string{},
	}
}

// Catalog returns the catalog the resolver searches.
func (r *Resolver) Catalog() *Catalog {
	return r.catalog
}

// Resolve returns the zone of each layer that contains the point at
// (lat, lon). A layer with no match is nil. More than one match in a
// layer fails with *AmbiguousZoneError, no match in any layer fails
// with *NoZoneFoundError.
func (r *Resolver) Resolve(lat, lon float64) (Resolution, error) {
	p := geometry.NewPoint(lon, lat)
	if !p.Valid() {
		return Resolution{}, &InvalidPointError{Point: p}
	}

	res := Resolution{Point: p}
	found := false
	for _, layer := range Layers {
		var matches []Zone
		for _, z := range r.catalog.ZonesOf(layer) {
			if z.Shape.Contains(p) {
				matches = append(matches, z)
			}
		}

		switch len(matches) {
		case 0:
			continue
		case 1:
			res.set(layer, &matches[0])
			found = true
		default:
			ids := make([]string, len(matches))
			for i, m := range matches {
				ids[i] = m.ID
			}

			err := &AmbiguousZoneError{Layer: layer, Point: p, IDs: ids}
			r.logger.WithFields(logrus.Fields{
				"layer": layer,
				"point": p.String(),
				"ids":   ids,
			}).Error("overlapping zone geometry")
			return Resolution{}, err
		}
	}

	if !found {
		return Resolution{}, &NoZoneFoundError{Point: p}
	}

	return res, nil
}

// TimeZoneOf returns the IANA time zone at the zone's centroid. Results
// are cached per zone since geometry never changes after load.
func (r *Resolver) TimeZoneOf(z Zone) string {
	key := z.Key()

	r.mu.RLock()
	tz, ok := r.timeZones[key]
	r.mu.RUnlock()
	if ok {
		return tz
	}

	c := z.Centroid
	if len(c) < 2 {
		c = z.Shape.Centroid()
	}

	tz = r.finder.GetTimezoneName(c.Lon(), c.Lat())
	if tz == "" {
		r.logger.WithFields(logrus.Fields{
			"zone":     z.ID,
			"layer":    z.Layer,
			"centroid": c.String(),
		}).Warnf("no time zone at centroid, using %s", FallbackTimeZone)
		tz = FallbackTimeZone
	}

	r.mu.Lock()
	r.timeZones[key] = tz
	r.mu.Unlock()

	return tz
}
