package forecast

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/cicconee/marine-forecast/internal/app"
	"github.com/cicconee/marine-forecast/internal/geometry"
	"github.com/cicconee/marine-forecast/internal/observability"
	"github.com/cicconee/marine-forecast/internal/zone"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type utcFinder struct{}

func (utcFinder) GetTimezoneName(float64, float64) string { return "UTC" }

func testZone(t *testing.T, layer zone.Layer, id string, minLon, minLat, maxLon, maxLat float64) zone.Zone {
	t.Helper()

	s, err := geometry.NewShape(orb.Polygon{{
		{minLon, minLat}, {minLon, maxLat}, {maxLon, maxLat}, {maxLon, minLat}, {minLon, minLat},
	}})
	require.NoError(t, err)

	return zone.New(layer, id, id, "", s)
}

func newTestService(t *testing.T) (*Service, *testCache) {
	t.Helper()

	catalog := zone.NewCatalog(observability.NewDiscardLogger(), []zone.Zone{
		testZone(t, zone.Coastal, "AMZ651", -80.4, 25.2, -80.1, 25.8),
		testZone(t, zone.Offshore, "AMZ013", -81, 22, -65, 31),
		testZone(t, zone.HighSeas, "Atlantic", -100, 7, -35, 31),
	})

	tc := newTestCache()
	resolver := zone.NewResolver(catalog, utcFinder{}, observability.NewDiscardLogger())

	return New(resolver, tc.Cache, observability.NewDiscardLogger()), tc
}

func TestServiceGet_AllLayers(t *testing.T) {
	s, tc := newTestService(t)
	for _, id := range []string{"AMZ651", "AMZ013", "Atlantic"} {
		tc.fetcher.set(id, bulletin(epoch, epoch.Add(6*time.Hour)))
	}

	pf, err := s.Get(context.Background(), geometry.NewPoint(-80.2, 25.5))
	require.NoError(t, err)

	require.Len(t, pf.Zones, 3)
	assert.Equal(t, zone.Coastal, pf.Zones[0].Zone.Layer)
	assert.Equal(t, zone.Offshore, pf.Zones[1].Zone.Layer)
	assert.Equal(t, zone.HighSeas, pf.Zones[2].Zone.Layer)

	for _, zf := range pf.Zones {
		require.NoError(t, zf.Err)
		require.NotNil(t, zf.Record)
		assert.False(t, zf.Stale)
		assert.Equal(t, zf.Zone.ID, zf.Record.ZoneID)
		assert.Equal(t, "UTC", zf.Record.TimeZone)
	}
}

func TestServiceGet_ZoneErrorsAreIndependent(t *testing.T) {
	s, tc := newTestService(t)
	tc.fetcher.set("AMZ651", bulletin(epoch, epoch.Add(6*time.Hour)))
	tc.fetcher.fail("AMZ013", errors.New("404"))
	tc.fetcher.set("Atlantic", "1630 UTC MON JAN 15 2024\nExpires:202401151200")

	pf, err := s.Get(context.Background(), geometry.NewPoint(-80.2, 25.5))
	require.NoError(t, err)
	require.Len(t, pf.Zones, 3)

	assert.NoError(t, pf.Zones[0].Err)
	assert.NotNil(t, pf.Zones[0].Record)

	var fetchErr *FetchError
	assert.ErrorAs(t, pf.Zones[1].Err, &fetchErr)
	assert.Nil(t, pf.Zones[1].Record)

	assert.Error(t, pf.Zones[2].Err)
	assert.Nil(t, pf.Zones[2].Record)
}

func TestServiceGet_StaleOnFetchFailure(t *testing.T) {
	s, tc := newTestService(t)
	tc.fetcher.set("AMZ651", bulletin(epoch, epoch.Add(time.Hour)))
	tc.fetcher.set("AMZ013", bulletin(epoch, epoch.Add(time.Hour)))
	tc.fetcher.set("Atlantic", bulletin(epoch, epoch.Add(time.Hour)))

	p := geometry.NewPoint(-80.2, 25.5)
	_, err := s.Get(context.Background(), p)
	require.NoError(t, err)

	tc.clock.Advance(2 * time.Hour)
	tc.fetcher.fail("AMZ013", errors.New("timeout"))

	pf, err := s.Get(context.Background(), p)
	require.NoError(t, err)

	off := pf.Zones[1]
	require.NotNil(t, off.Record)
	assert.True(t, off.Stale)
	assert.Error(t, off.Err)
}

func TestServiceGet_NoZone(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.Get(context.Background(), geometry.NewPoint(10, 50))

	var noZone *zone.NoZoneFoundError
	assert.ErrorAs(t, err, &noZone)
}

func TestServiceGetZone(t *testing.T) {
	s, tc := newTestService(t)
	tc.fetcher.set("AMZ651", bulletin(epoch, epoch.Add(6*time.Hour)))

	zf, err := s.GetZone(context.Background(), zone.Coastal, "amz651")
	require.NoError(t, err)
	assert.Equal(t, "AMZ651", zf.Record.ZoneID)

	_, err = s.GetZone(context.Background(), zone.Coastal, "XXX000")
	var respErr *app.ServerResponseError
	require.ErrorAs(t, err, &respErr)
	status, _ := respErr.ServerErrorResponse()
	assert.Equal(t, http.StatusNotFound, status)

	tc.fetcher.fail("AMZ013", errors.New("down"))
	_, err = s.GetZone(context.Background(), zone.Offshore, "AMZ013")
	var fetchErr *FetchError
	assert.ErrorAs(t, err, &fetchErr)
}
