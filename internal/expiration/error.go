package expiration

import (
	"fmt"
	"net/http"
	"time"
)

const unavailableMsg = "Forecast temporarily unavailable"

// ParseError means the bulletin could not be interpreted at all.
type ParseError struct {
	TimeZone string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing bulletin (timeZone=%s): %v", e.TimeZone, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ServerErrorResponse reports a 503. The bulletin is purged and the next
// fetch starts clean.
func (e *ParseError) ServerErrorResponse() (int, string) {
	return http.StatusServiceUnavailable, unavailableMsg
}

// StaleForecastError means the derived timestamps are inconsistent or
// too old to serve. The bulletin must not be stored.
type StaleForecastError struct {
	IssuedAt  time.Time
	ExpiresAt time.Time
	Reason    string
}

func (e *StaleForecastError) Error() string {
	return fmt.Sprintf("stale forecast (issuedAt=%s, expiresAt=%s): %s",
		e.IssuedAt.Format(time.RFC3339),
		e.ExpiresAt.Format(time.RFC3339),
		e.Reason)
}

func (e *StaleForecastError) ServerErrorResponse() (int, string) {
	return http.StatusServiceUnavailable, unavailableMsg
}
