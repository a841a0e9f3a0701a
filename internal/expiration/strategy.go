package expiration

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// IssuanceStrategy extracts the issuance time from bulletin text. It
// reports false when its pattern does not match.
type IssuanceStrategy interface {
	Name() string
	Issuance(text string, loc *time.Location) (time.Time, bool)
}

// ExpirationStrategy extracts the expiration time from bulletin text.
// issuedAt is the already resolved issuance time.
type ExpirationStrategy interface {
	Name() string
	Expiration(text string, issuedAt time.Time, loc *time.Location) (time.Time, bool)
}

var months = map[string]time.Month{
	"JAN": time.January,
	"FEB": time.February,
	"MAR": time.March,
	"APR": time.April,
	"MAY": time.May,
	"JUN": time.June,
	"JUL": time.July,
	"AUG": time.August,
	"SEP": time.September,
	"OCT": time.October,
	"NOV": time.November,
	"DEC": time.December,
}

// date builds a time and rejects values time.Date would normalize, such
// as Feb 30 or hour 25.
func date(year, month, day, hour, min string, loc *time.Location) (time.Time, bool) {
	m, ok := months[strings.ToUpper(month)]
	if !ok {
		return time.Time{}, false
	}

	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, false
	}

	d, err := strconv.Atoi(day)
	if err != nil {
		return time.Time{}, false
	}

	h, err := strconv.Atoi(hour)
	if err != nil || h > 23 {
		return time.Time{}, false
	}

	mi, err := strconv.Atoi(min)
	if err != nil || mi > 59 {
		return time.Time{}, false
	}

	t := time.Date(y, m, d, h, mi, 0, 0, loc)
	if t.Day() != d || t.Month() != m {
		return time.Time{}, false
	}

	return t, true
}

// UTCIssuance matches the high seas heading form
// "1630 UTC MON JAN 15 2024".
type UTCIssuance struct{}

var utcIssuanceRE = regexp.MustCompile(`(\d{4})\s+UTC\s+(\w{3})\s+(\w{3})\s+(\d{1,2})\s+(\d{4})`)

func (UTCIssuance) Name() string { return "utc_heading" }

func (UTCIssuance) Issuance(text string, _ *time.Location) (time.Time, bool) {
	m := utcIssuanceRE.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}

	return date(m[5], m[3], m[4], m[1][:2], m[1][2:], time.UTC)
}

// LocalIssuance matches the coastal and offshore heading form
// "407 AM EST Mon Jan 15 2024". The time zone abbreviation is ignored
// and the zone's own time zone is used instead, since abbreviations
// like CST are ambiguous.
type LocalIssuance struct{}

var localIssuanceRE = regexp.MustCompile(`\b(\d{3,4})\s+(AM|PM)\s+[A-Z]{2,5}\s+\w{3}\s+(\w{3})\s+(\d{1,2})\s+(\d{4})`)

func (LocalIssuance) Name() string { return "local_heading" }

func (LocalIssuance) Issuance(text string, loc *time.Location) (time.Time, bool) {
	m := localIssuanceRE.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, false
	}

	hour, min := n/100, n%100
	if hour < 1 || hour > 12 {
		return time.Time{}, false
	}

	hour %= 12
	if m[2] == "PM" {
		hour += 12
	}

	return date(m[5], m[3], m[4], strconv.Itoa(hour), strconv.Itoa(min), loc)
}

// ExplicitExpiration matches "Expires:YYYYMMDDHHmm", a wall clock time
// in the zone's time zone.
type ExplicitExpiration struct{}

var expiresRE = regexp.MustCompile(`Expires:(\d{12})`)

func (ExplicitExpiration) Name() string { return "expires_token" }

func (ExplicitExpiration) Expiration(text string, _ time.Time, loc *time.Location) (time.Time, bool) {
	m := expiresRE.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}

	t, err := time.ParseInLocation("200601021504", m[1], loc)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// SupersededExpiration matches "SUPERSEDED BY NEXT ISSUANCE IN N HOURS"
// and expires N hours after issuance.
type SupersededExpiration struct{}

var supersededRE = regexp.MustCompile(`SUPERSEDED BY NEXT ISSUANCE IN (\d+) HOURS`)

func (SupersededExpiration) Name() string { return "superseded" }

func (SupersededExpiration) Expiration(text string, issuedAt time.Time, _ *time.Location) (time.Time, bool) {
	m := supersededRE.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}

	hours, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, false
	}

	return issuedAt.Add(time.Duration(hours) * time.Hour), true
}
