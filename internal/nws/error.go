package nws

import "fmt"

type StatusCodeError struct {
	URL        string
	StatusCode int
	Detail     string
}

func (s *StatusCodeError) Error() string {
	return fmt.Sprintf("invalid status code (URL: %s, StatusCode: %d, Detail: %s)", s.URL, s.StatusCode, s.Detail)
}

// UnknownZoneError is returned when no bulletin location can be built
// for a zone.
type UnknownZoneError struct {
	ZoneID string
	Reason string
}

func (e *UnknownZoneError) Error() string {
	return fmt.Sprintf("no bulletin for zone %q: %s", e.ZoneID, e.Reason)
}
