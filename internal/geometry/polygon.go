package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

var ErrEmptyShape = errors.New("geometry: empty shape")

// Shape is the boundary of a zone. It holds either an orb.Polygon or an
// orb.MultiPolygon along with its bounding box.
type Shape struct {
	geom  orb.Geometry
	bound orb.Bound
}

// NewShape wraps g as a Shape. Only polygons and multipolygons with at
// least one ring are accepted.
func NewShape(g orb.Geometry) (Shape, error) {
	switch v := g.(type) {
	case orb.Polygon:
		if len(v) == 0 || len(v[0]) == 0 {
			return Shape{}, ErrEmptyShape
		}
	case orb.MultiPolygon:
		if len(v) == 0 {
			return Shape{}, ErrEmptyShape
		}
	case nil:
		return Shape{}, ErrEmptyShape
	default:
		return Shape{}, fmt.Errorf("geometry: unsupported type %s", g.GeoJSONType())
	}

	return Shape{geom: g, bound: g.Bound()}, nil
}

// Geometry returns the underlying orb geometry.
func (s Shape) Geometry() orb.Geometry {
	return s.geom
}

// Bound returns the bounding box of the shape.
func (s Shape) Bound() orb.Bound {
	return s.bound
}

// Contains reports whether p lies inside the shape. Points inside a
// hole are outside; points on an edge are inside.
func (s Shape) Contains(p Point) bool {
	pt := p.Orb()
	if !s.bound.Contains(pt) {
		return false
	}

	switch g := s.geom.(type) {
	case orb.Polygon:
		return planar.PolygonContains(g, pt)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(g, pt)
	}

	return false
}

// Centroid returns the area weighted centroid of the shape.
func (s Shape) Centroid() Point {
	c, _ := planar.CentroidArea(s.geom)
	return FromOrb(c)
}

// Merge combines the polygons of every shape into one multipolygon
// shape. Holes stay with their polygons.
func Merge(shapes ...Shape) (Shape, error) {
	var mp orb.MultiPolygon
	for _, s := range shapes {
		switch g := s.geom.(type) {
		case orb.Polygon:
			mp = append(mp, g)
		case orb.MultiPolygon:
			mp = append(mp, g...)
		}
	}

	return NewShape(mp)
}

// FromRings groups rings into polygons the way shapefiles encode them.
// Clockwise rings are outer rings. A counter-clockwise ring is a hole of
// the smallest outer ring containing its first vertex. A hole that no
// outer ring contains is treated as an outer ring.
func FromRings(rings []orb.Ring) (orb.Geometry, error) {
	var outers, holes []orb.Ring
	for _, r := range rings {
		if len(r) < 3 {
			continue
		}

		if !r.Closed() {
			r = append(r, r[0])
		}

		if len(r) < 4 {
			continue
		}

		if r.Orientation() == orb.CCW {
			holes = append(holes, r)
			continue
		}

		outers = append(outers, r)
	}

	mp := make(orb.MultiPolygon, len(outers))
	for i, r := range outers {
		mp[i] = orb.Polygon{r}
	}

	for _, h := range holes {
		owner := -1
		for i, r := range outers {
			if !planar.RingContains(r, h[0]) {
				continue
			}

			if owner < 0 || math.Abs(planar.Area(r)) < math.Abs(planar.Area(outers[owner])) {
				owner = i
			}
		}

		if owner < 0 {
			mp = append(mp, orb.Polygon{h})
			continue
		}

		mp[owner] = append(mp[owner], h)
	}

	switch len(mp) {
	case 0:
		return nil, ErrEmptyShape
	case 1:
		return mp[0], nil
	}

	return mp, nil
}
