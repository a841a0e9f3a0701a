package forecast

import (
	"fmt"
	"net/http"

	"github.com/cicconee/marine-forecast/internal/zone"
)

// FetchError means the upstream bulletin could not be retrieved. When a
// stored forecast exists the Cache returns it alongside a FetchError so
// callers may serve it as stale.
type FetchError struct {
	ZoneID string
	Layer  zone.Layer
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching forecast (zoneID=%s, layer=%s): %v", e.ZoneID, e.Layer, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) ServerErrorResponse() (int, string) {
	return http.StatusBadGateway, "Forecast source is unavailable"
}
