package zone

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cicconee/marine-forecast/internal/geometry"
	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Attribute names read from every zone record. Matching ignores case.
const (
	attrID     = "ID"
	attrName   = "NAME"
	attrOffice = "WFO"
)

// readFile reads every zone of layer from path. The format is chosen by
// file extension: .shp for ESRI shapefiles (with the .dbf beside it),
// .geojson or .json for a GeoJSON FeatureCollection.
func readFile(path string, layer Layer) ([]Zone, error) {
	if path == "" {
		return nil, errors.New("no path configured")
	}

	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		return readShapefile(path, layer)
	case ".geojson", ".json":
		return readGeoJSON(path, layer)
	}

	return nil, fmt.Errorf("unsupported file extension %q", filepath.Ext(path))
}

func readShapefile(path string, layer Layer) ([]Zone, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening shapefile: %w", err)
	}
	defer r.Close()

	fields := r.Fields()

	var zones []Zone
	for r.Next() {
		n, s := r.Shape()

		var poly *shp.Polygon
		switch v := s.(type) {
		case *shp.Polygon:
			poly = v
		case *shp.Null:
			continue
		default:
			return nil, fmt.Errorf("record %d: unsupported shape %T", n, s)
		}

		attrs := make(map[string]string, len(fields))
		for i, f := range fields {
			attrs[strings.ToUpper(f.String())] = cleanAttribute(r.ReadAttribute(n, i))
		}

		g, err := geometry.FromRings(shapefileRings(poly))
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", n, err)
		}

		z, err := buildZone(layer, attrs, g)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", n, err)
		}

		zones = append(zones, z)
	}

	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("reading shapefile: %w", err)
	}

	return zones, nil
}

// cleanAttribute strips the padding dBase leaves around values.
func cleanAttribute(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\x00"))
}

// shapefileRings splits a shapefile polygon into its rings using the
// part offsets.
func shapefileRings(p *shp.Polygon) []orb.Ring {
	rings := make([]orb.Ring, 0, len(p.Parts))
	for i, start := range p.Parts {
		end := int32(len(p.Points))
		if i+1 < len(p.Parts) {
			end = p.Parts[i+1]
		}

		if start < 0 || start > end || int(end) > len(p.Points) {
			continue
		}

		ring := make(orb.Ring, 0, end-start)
		for _, pt := range p.Points[start:end] {
			ring = append(ring, orb.Point{pt.X, pt.Y})
		}

		rings = append(rings, ring)
	}

	return rings
}

func readGeoJSON(path string, layer Layer) ([]Zone, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decoding feature collection: %w", err)
	}

	zones := make([]Zone, 0, len(fc.Features))
	for i, f := range fc.Features {
		attrs := make(map[string]string, len(f.Properties))
		for k, v := range f.Properties {
			if s, ok := v.(string); ok {
				attrs[strings.ToUpper(k)] = strings.TrimSpace(s)
			}
		}

		z, err := buildZone(layer, attrs, f.Geometry)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}

		zones = append(zones, z)
	}

	return zones, nil
}

func buildZone(layer Layer, attrs map[string]string, g orb.Geometry) (Zone, error) {
	shape, err := geometry.NewShape(g)
	if err != nil {
		return Zone{}, err
	}

	id := attrs[attrID]
	name := attrs[attrName]
	if layer == HighSeas {
		id = name
	}

	if id == "" {
		return Zone{}, fmt.Errorf("missing %s attribute", attrID)
	}

	return New(layer, id, name, attrs[attrOffice], shape), nil
}
