package geometry

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Point is a longitude/latitude pair stored as {lat, lon}. Use NewPoint
// to build one so the ordering is never mixed up.
type Point []float64

func NewPoint(x, y float64) Point {
	return Point{y, x}
}

func (p Point) X() float64 {
	return p[1]
}

func (p Point) Y() float64 {
	return p[0]
}

func (p Point) Lon() float64 {
	return p.X()
}

func (p Point) Lat() float64 {
	return p.Y()
}

// Valid reports whether the point holds a longitude in [-180, 180] and
// a latitude in [-90, 90].
func (p Point) Valid() bool {
	if len(p) < 2 {
		return false
	}

	if math.IsNaN(p.Lon()) || math.IsNaN(p.Lat()) {
		return false
	}

	return p.Lon() >= -180 && p.Lon() <= 180 && p.Lat() >= -90 && p.Lat() <= 90
}

// Orb returns the point as an orb.Point, which is ordered {lon, lat}.
func (p Point) Orb() orb.Point {
	return orb.Point{p.Lon(), p.Lat()}
}

// FromOrb converts an orb.Point into a Point.
func FromOrb(o orb.Point) Point {
	return NewPoint(o.Lon(), o.Lat())
}

// RoundedLon returns the longitude rounded to the 4th
// decimal place.
func (p Point) RoundedLon() float64 {
	return round(p.Lon(), 4)
}

// RoundedLat returns the latitude rounded to the 4th
// decimal place.
func (p Point) RoundedLat() float64 {
	return round(p.Lat(), 4)
}

func round(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

func (p Point) String() string {
	if len(p) < 2 {
		return ""
	}

	return fmt.Sprintf("(%f,%f)", p.X(), p.Y())
}

// RoundedString returns the string representation of this point
// with the longitude and latitude rounded to the 4th decimal place.
func (p Point) RoundedString() string {
	if len(p) < 2 {
		return ""
	}

	return fmt.Sprintf("(%f, %f)", p.RoundedLon(), p.RoundedLat())
}
