package expiration

import (
	"errors"
	"net/http"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utc(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

const coastalBulletin = `
FZNT23 KNHC 150907
CWFAMZ

Coastal Waters Forecast
National Weather Service Miami FL
407 AM EST Mon Jan 15 2024

AMZ671-152300-
Expires:202401151800
Northwest Providence Channel-
.TODAY...E winds 10 to 15 kt. Seas 3 to 5 ft.
`

const highSeasBulletin = `
FZNT02 KNHC 151630
HSFAT2

HIGH SEAS FORECAST
NWS NATIONAL HURRICANE CENTER MIAMI FL
1630 UTC MON JAN 15 2024

SUPERSEDED BY NEXT ISSUANCE IN 12 HOURS

SEAS GIVEN AS SIGNIFICANT WAVE HEIGHT.
`

func TestParse_ExplicitExpiresIsZoneLocal(t *testing.T) {
	p := NewParser()

	res, err := p.Parse(coastalBulletin, "America/Nassau", utc(2024, 1, 15, 10, 0))
	require.NoError(t, err)

	assert.True(t, res.ExpiresAt.Equal(utc(2024, 1, 15, 23, 0)), "got %s", res.ExpiresAt)
	assert.True(t, res.IssuedAt.Equal(utc(2024, 1, 15, 9, 7)), "got %s", res.IssuedAt)
	assert.Equal(t, "expires_token", res.ExpirationSource)
	assert.Equal(t, "local_heading", res.IssuanceSource)
	assert.Empty(t, res.Warnings)
}

func TestParse_Superseded(t *testing.T) {
	res, err := NewParser().Parse(highSeasBulletin, "UTC", utc(2024, 1, 15, 17, 0))
	require.NoError(t, err)

	issued := utc(2024, 1, 15, 16, 30)
	assert.True(t, res.IssuedAt.Equal(issued))
	assert.True(t, res.ExpiresAt.Equal(issued.Add(12*time.Hour)))
	assert.Equal(t, "utc_heading", res.IssuanceSource)
	assert.Equal(t, "superseded", res.ExpirationSource)
}

func TestParse_ExplicitWinsOverSuperseded(t *testing.T) {
	text := highSeasBulletin + "\nExpires:202401160200\n"

	res, err := NewParser().Parse(text, "UTC", utc(2024, 1, 15, 17, 0))
	require.NoError(t, err)

	assert.True(t, res.ExpiresAt.Equal(utc(2024, 1, 16, 2, 0)))
	assert.Equal(t, "expires_token", res.ExpirationSource)
}

func TestParse_DefaultExpiration(t *testing.T) {
	text := "HIGH SEAS FORECAST\n0430 UTC TUE JAN 16 2024\nNo expiry here.\n"

	res, err := NewParser().Parse(text, "UTC", utc(2024, 1, 16, 5, 0))
	require.NoError(t, err)

	issued := utc(2024, 1, 16, 4, 30)
	assert.True(t, res.ExpiresAt.Equal(issued.Add(DefaultValidity)))
	assert.Equal(t, "default", res.ExpirationSource)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "no expiration found")
}

func TestParse_NoIssuanceUsesNow(t *testing.T) {
	now := utc(2024, 1, 16, 5, 0)

	res, err := NewParser().Parse("nothing useful", "America/New_York", now)
	require.NoError(t, err)

	assert.True(t, res.IssuedAt.Equal(now))
	assert.True(t, res.ExpiresAt.Equal(now.Add(6*time.Hour)))
	assert.Equal(t, "fetch_time", res.IssuanceSource)
	assert.Len(t, res.Warnings, 2)
}

func TestParse_InvalidCalendarDateFallsBack(t *testing.T) {
	now := utc(2024, 3, 1, 0, 0)

	res, err := NewParser().Parse("1630 UTC FRI FEB 30 2024", "UTC", now)
	require.NoError(t, err)

	assert.Equal(t, "fetch_time", res.IssuanceSource)
}

func TestParse_Stale(t *testing.T) {
	tests := []struct {
		name string
		text string
		now  time.Time
	}{
		{
			name: "expires before issuance",
			text: "1630 UTC MON JAN 15 2024\nExpires:202401151200",
			now:  utc(2024, 1, 15, 17, 0),
		},
		{
			name: "expires equals issuance",
			text: "1630 UTC MON JAN 15 2024\nExpires:202401151630",
			now:  utc(2024, 1, 15, 17, 0),
		},
		{
			name: "expired more than a day ago",
			text: "1630 UTC MON JAN 15 2024\nExpires:202401152200",
			now:  utc(2024, 1, 16, 22, 1),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewParser().Parse(tc.text, "UTC", tc.now)

			var stale *StaleForecastError
			assert.ErrorAs(t, err, &stale)
		})
	}
}

func TestParse_StaleBoundary(t *testing.T) {
	_, err := NewParser().Parse("1630 UTC MON JAN 15 2024\nExpires:202401152200", "UTC", utc(2024, 1, 16, 22, 0))
	assert.NoError(t, err, "exactly 24h past expiration is still accepted")
}

func TestParse_UnknownTimeZone(t *testing.T) {
	_, err := NewParser().Parse(coastalBulletin, "Mars/Olympus", utc(2024, 1, 15, 10, 0))

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestLocalIssuance(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	tests := []struct {
		text string
		want time.Time
		ok   bool
	}{
		{"1015 PM CST Tue Jan 16 2024", utc(2024, 1, 17, 4, 15), true},
		{"1205 AM CST Tue Jan 16 2024", utc(2024, 1, 16, 6, 5), true},
		{"1200 PM CST Tue Jan 16 2024", utc(2024, 1, 16, 18, 0), true},
		{"1315 PM CST Tue Jan 16 2024", time.Time{}, false},
		{"no heading", time.Time{}, false},
	}

	for _, tc := range tests {
		got, ok := LocalIssuance{}.Issuance(tc.text, chicago)
		assert.Equal(t, tc.ok, ok, tc.text)
		if tc.ok {
			assert.True(t, got.Equal(tc.want), "%s: got %s", tc.text, got.UTC())
		}
	}
}

func TestParser_CustomStrategies(t *testing.T) {
	p := &Parser{
		Expiration: []ExpirationStrategy{SupersededExpiration{}},
	}

	now := utc(2024, 1, 15, 0, 0)
	res, err := p.Parse("Expires:202401151800", "UTC", now)
	require.NoError(t, err)

	assert.Equal(t, "default", res.ExpirationSource, "explicit strategy not configured")
	assert.True(t, res.ExpiresAt.Equal(now.Add(DefaultValidity)))
}

func TestParseErrors_ServerErrorResponse(t *testing.T) {
	for _, err := range []interface{ ServerErrorResponse() (int, string) }{
		&ParseError{TimeZone: "Mars/Olympus", Err: errors.New("unknown time zone")},
		&StaleForecastError{Reason: "expires before issuance"},
	} {
		status, msg := err.ServerErrorResponse()
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, "Forecast temporarily unavailable", msg)
	}
}
