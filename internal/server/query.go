package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cicconee/marine-forecast/internal/geometry"
)

type QueryParameterError struct {
	Msg string
	error
}

func (p *QueryParameterError) ServerErrorResponse() (int, string) {
	return http.StatusBadRequest, p.Msg
}

func (p *QueryParameterError) Unwrap() error {
	return p.error
}

// PointFromQuery reads the lon and lat query parameters.
func PointFromQuery(q url.Values) (geometry.Point, error) {
	return ParsePoint(q.Get("lon"), q.Get("lat"))
}

// ParsePoint parses longitude and latitude strings into a
// geometry.Point. Unparsable or out of range coordinates are
// returned as a *QueryParameterError.
func ParsePoint(lonStr string, latStr string) (geometry.Point, error) {
	lon, err := parseCoordinate("lon", lonStr)
	if err != nil {
		return geometry.Point{}, &QueryParameterError{Msg: "Invalid longitude", error: err}
	}

	lat, err := parseCoordinate("lat", latStr)
	if err != nil {
		return geometry.Point{}, &QueryParameterError{Msg: "Invalid latitude", error: err}
	}

	p := geometry.NewPoint(lon, lat)
	if !p.Valid() {
		return geometry.Point{}, &QueryParameterError{
			Msg:   "Coordinates out of range",
			error: fmt.Errorf("point out of range (point=%s)", p),
		}
	}

	return p, nil
}

func parseCoordinate(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	return v, nil
}
