package server

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePoint(t *testing.T) {
	p, err := ParsePoint(" -80.25 ", "25.5")
	require.NoError(t, err)
	assert.Equal(t, -80.25, p.Lon())
	assert.Equal(t, 25.5, p.Lat())

	p, err = PointFromQuery(url.Values{"lon": {"-70"}, "lat": {"28"}})
	require.NoError(t, err)
	assert.Equal(t, 28.0, p.Lat())
}

func TestParsePoint_Errors(t *testing.T) {
	tests := []struct {
		lon, lat string
		msg      string
	}{
		{"", "25", "Invalid longitude"},
		{"-80", "north", "Invalid latitude"},
		{"-80", "91", "Coordinates out of range"},
		{"-181", "0", "Coordinates out of range"},
		{"NaN", "0", "Coordinates out of range"},
	}

	for _, tc := range tests {
		_, err := ParsePoint(tc.lon, tc.lat)

		var qErr *QueryParameterError
		require.True(t, errors.As(err, &qErr), "%s,%s", tc.lon, tc.lat)
		assert.Equal(t, tc.msg, qErr.Msg)
	}
}
