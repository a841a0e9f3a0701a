package zone

import (
	"fmt"
	"strings"

	"github.com/cicconee/marine-forecast/internal/geometry"
)

// Layer is one of the three independent marine zone collections.
type Layer string

const (
	Coastal  Layer = "coastal"
	Offshore Layer = "offshore"
	HighSeas Layer = "high_seas"
)

// Layers lists every layer in resolution order.
var Layers = []Layer{Coastal, Offshore, HighSeas}

// ParseLayer returns the Layer named by s. Matching ignores case and
// accepts "high-seas" for HighSeas.
func ParseLayer(s string) (Layer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "coastal":
		return Coastal, nil
	case "offshore":
		return Offshore, nil
	case "high_seas", "high-seas", "highseas":
		return HighSeas, nil
	}

	return "", fmt.Errorf("unknown layer %q", s)
}

func (l Layer) String() string {
	return string(l)
}

// Zone is a single forecast region within a layer.
//
// High seas zones have no ID attribute in the source data, so their
// name is promoted to ID.
type Zone struct {
	ID     string `json:"id"`
	Layer  Layer  `json:"layer"`
	Name   string `json:"name"`
	Office string `json:"office,omitempty"`

	Shape    geometry.Shape `json:"-"`
	Centroid geometry.Point `json:"-"`
}

// New builds a Zone and caches its centroid.
func New(layer Layer, id, name, office string, shape geometry.Shape) Zone {
	if layer == HighSeas && id == "" {
		id = name
	}

	return Zone{
		ID:       id,
		Layer:    layer,
		Name:     name,
		Office:   office,
		Shape:    shape,
		Centroid: shape.Centroid(),
	}
}

// Key identifies the zone across layers.
func (z Zone) Key() string {
	return string(z.Layer) + ":" + z.ID
}
