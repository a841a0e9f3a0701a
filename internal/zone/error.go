package zone

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cicconee/marine-forecast/internal/geometry"
)

// GeometryLoadError is returned when a layer's geometry file is missing
// or cannot be parsed. There is no degraded mode: the service cannot
// start without all three layers.
type GeometryLoadError struct {
	Layer Layer
	Path  string
	Err   error
}

func (e *GeometryLoadError) Error() string {
	return fmt.Sprintf("loading %s geometry (path=%s): %v", e.Layer, e.Path, e.Err)
}

func (e *GeometryLoadError) Unwrap() error {
	return e.Err
}

// AmbiguousZoneError means a point fell inside more than one polygon of
// the same layer. The source geometry is corrupt or overlapping.
type AmbiguousZoneError struct {
	Layer Layer
	Point geometry.Point
	IDs   []string
}

func (e *AmbiguousZoneError) Error() string {
	return fmt.Sprintf("point %s matches %d %s zones: %s",
		e.Point, len(e.IDs), e.Layer, strings.Join(e.IDs, ", "))
}

func (e *AmbiguousZoneError) ServerErrorResponse() (int, string) {
	return http.StatusInternalServerError, "Something went wrong"
}

// NoZoneFoundError means the point is outside every covered marine
// region.
type NoZoneFoundError struct {
	Point geometry.Point
}

func (e *NoZoneFoundError) Error() string {
	return fmt.Sprintf("no marine zone contains point %s", e.Point)
}

func (e *NoZoneFoundError) ServerErrorResponse() (int, string) {
	return http.StatusNotFound, "No forecast for this location"
}

type InvalidPointError struct {
	Point geometry.Point
}

func (e *InvalidPointError) Error() string {
	return fmt.Sprintf("invalid point %s", e.Point)
}

func (e *InvalidPointError) ServerErrorResponse() (int, string) {
	return http.StatusBadRequest, "Longitude or latitude out of range"
}
