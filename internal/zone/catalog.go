package zone

import (
	"context"
	"strings"
	"sync"

	"github.com/cicconee/marine-forecast/internal/geometry"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Files holds the geometry file path of each layer.
type Files struct {
	Coastal  string
	Offshore string
	HighSeas string
}

func (f Files) path(l Layer) string {
	switch l {
	case Coastal:
		return f.Coastal
	case Offshore:
		return f.Offshore
	case HighSeas:
		return f.HighSeas
	}

	return ""
}

// Catalog is the immutable set of zones of all three layers. It is safe
// for concurrent use.
type Catalog struct {
	zones map[Layer][]Zone
	index map[Layer]map[string]int
}

// Load reads the three layers concurrently and builds a Catalog. Any
// missing or unparsable file fails the whole load with a
// *GeometryLoadError.
func Load(ctx context.Context, files Files, logger *logrus.Logger) (*Catalog, error) {
	g, ctx := errgroup.WithContext(ctx)

	results := make([][]Zone, len(Layers))
	for i, layer := range Layers {
		i, layer := i, layer
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			zones, err := readFile(files.path(layer), layer)
			if err != nil {
				return &GeometryLoadError{Layer: layer, Path: files.path(layer), Err: err}
			}

			results[i] = zones
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Zone
	for i, zones := range results {
		logger.WithFields(logrus.Fields{
			"layer": Layers[i],
			"zones": len(zones),
		}).Info("loaded zone geometry")
		all = append(all, zones...)
	}

	return NewCatalog(logger, all), nil
}

// NewCatalog indexes zones by layer and ID. Zones of a layer sharing an
// ID are merged into one zone covering all their polygons, keeping the
// attributes of the later record, and a warning is logged. For the high
// seas layer this means two regions with the same name.
func NewCatalog(logger *logrus.Logger, zones []Zone) *Catalog {
	c := &Catalog{
		zones: map[Layer][]Zone{},
		index: map[Layer]map[string]int{},
	}

	for _, l := range Layers {
		c.index[l] = map[string]int{}
	}

	for _, z := range zones {
		idx, ok := c.index[z.Layer]
		if !ok {
			continue
		}

		key := strings.ToUpper(z.ID)
		if pos, dup := idx[key]; dup {
			log := logger.WithFields(logrus.Fields{
				"layer": z.Layer,
				"id":    z.ID,
			})

			prev := c.zones[z.Layer][pos]
			shape, err := geometry.Merge(prev.Shape, z.Shape)
			if err != nil {
				log.Warnf("duplicate zone identity, keeping the earlier record: %v", err)
				continue
			}

			log.Warn("duplicate zone identity, merging polygons")
			c.zones[z.Layer][pos] = New(z.Layer, prev.ID, z.Name, z.Office, shape)
			continue
		}

		idx[key] = len(c.zones[z.Layer])
		c.zones[z.Layer] = append(c.zones[z.Layer], z)
	}

	return c
}

// ZonesOf returns the zones of layer l. The returned slice must not be
// modified.
func (c *Catalog) ZonesOf(l Layer) []Zone {
	return c.zones[l]
}

// Lookup finds a zone by layer and ID. IDs match regardless of case.
func (c *Catalog) Lookup(l Layer, id string) (Zone, bool) {
	pos, ok := c.index[l][strings.ToUpper(id)]
	if !ok {
		return Zone{}, false
	}

	return c.zones[l][pos], true
}

// All returns every zone in layer order.
func (c *Catalog) All() []Zone {
	all := make([]Zone, 0, c.Len())
	for _, l := range Layers {
		all = append(all, c.zones[l]...)
	}

	return all
}

func (c *Catalog) Len() int {
	n := 0
	for _, zones := range c.zones {
		n += len(zones)
	}

	return n
}

// Loader loads a Catalog once and hands the same result to every later
// caller, including a failed result.
type Loader struct {
	Files  Files
	Logger *logrus.Logger

	once    sync.Once
	catalog *Catalog
	err     error
}

func (l *Loader) Catalog(ctx context.Context) (*Catalog, error) {
	l.once.Do(func() {
		l.catalog, l.err = Load(ctx, l.Files, l.Logger)
	})

	return l.catalog, l.err
}
