package zone

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/cicconee/marine-forecast/internal/geometry"
	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// box returns a clockwise ring over the given bounds.
func box(minLon, minLat, maxLon, maxLat float64) orb.Ring {
	return orb.Ring{
		{minLon, minLat}, {minLon, maxLat}, {maxLon, maxLat}, {maxLon, minLat}, {minLon, minLat},
	}
}

func testZone(t *testing.T, layer Layer, id string, r orb.Ring) Zone {
	t.Helper()

	s, err := geometry.NewShape(orb.Polygon{r})
	require.NoError(t, err)

	return New(layer, id, id+" waters", "MFL", s)
}

type shpRecord struct {
	id, name, office string
	rings            []orb.Ring
}

func writeShapefile(t *testing.T, dir, name string, records []shpRecord) string {
	t.Helper()

	path := filepath.Join(dir, name+".shp")
	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)

	require.NoError(t, w.SetFields([]shp.Field{
		shp.StringField("ID", 10),
		shp.StringField("NAME", 200),
		shp.StringField("WFO", 5),
	}))

	for _, rec := range records {
		parts := make([][]shp.Point, 0, len(rec.rings))
		for _, r := range rec.rings {
			part := make([]shp.Point, 0, len(r))
			for _, p := range r {
				part = append(part, shp.Point{X: p[0], Y: p[1]})
			}
			parts = append(parts, part)
		}

		poly := shp.Polygon(*shp.NewPolyLine(parts))
		row := int(w.Write(&poly))
		require.NoError(t, w.WriteAttribute(row, 0, rec.id))
		require.NoError(t, w.WriteAttribute(row, 1, rec.name))
		require.NoError(t, w.WriteAttribute(row, 2, rec.office))
	}

	w.Close()
	return path
}

func writeGeoJSON(t *testing.T, dir, name string, props []map[string]string, rings []orb.Ring) string {
	t.Helper()

	type feature struct {
		Type       string            `json:"type"`
		Properties map[string]string `json:"properties"`
		Geometry   struct {
			Type        string         `json:"type"`
			Coordinates [][][2]float64 `json:"coordinates"`
		} `json:"geometry"`
	}

	fc := struct {
		Type     string    `json:"type"`
		Features []feature `json:"features"`
	}{Type: "FeatureCollection"}

	for i, r := range rings {
		f := feature{Type: "Feature", Properties: props[i]}
		f.Geometry.Type = "Polygon"
		ring := make([][2]float64, len(r))
		for j, p := range r {
			ring[j] = [2]float64{p[0], p[1]}
		}
		f.Geometry.Coordinates = [][][2]float64{ring}
		fc.Features = append(fc.Features, f)
	}

	data, err := json.Marshal(fc)
	require.NoError(t, err)

	path := filepath.Join(dir, name+".geojson")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

type fakeFinder struct {
	name  string
	calls atomic.Int32
}

func (f *fakeFinder) GetTimezoneName(lng float64, lat float64) string {
	f.calls.Add(1)
	return f.name
}
