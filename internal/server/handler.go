package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cicconee/marine-forecast/internal/app"
	"github.com/cicconee/marine-forecast/internal/forecast"
	"github.com/cicconee/marine-forecast/internal/zone"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Handler struct {
	logger    *logrus.Logger
	forecasts *forecast.Service
	checks    []HealthCheck
}

func NewHandler(l *logrus.Logger) *Handler {
	return &Handler{
		logger: l,
	}
}

func (h *Handler) NewLogWriter(w http.ResponseWriter, r *http.Request) *LogWriter {
	return NewLogWriter(h.logger, w, r)
}

type pointBody struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

type zoneBody struct {
	ID       string `json:"id"`
	Layer    string `json:"layer"`
	Name     string `json:"name"`
	Office   string `json:"office,omitempty"`
	TimeZone string `json:"time_zone"`
}

type forecastBody struct {
	Zone      zoneBody   `json:"zone"`
	Text      string     `json:"text,omitempty"`
	IssuedAt  *time.Time `json:"issued_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	FetchedAt *time.Time `json:"fetched_at,omitempty"`
	Stale     bool       `json:"stale"`
	Error     string     `json:"error,omitempty"`
}

func (h *Handler) zoneBody(z zone.Zone) zoneBody {
	return zoneBody{
		ID:       z.ID,
		Layer:    string(z.Layer),
		Name:     z.Name,
		Office:   z.Office,
		TimeZone: h.forecasts.Resolver.TimeZoneOf(z),
	}
}

func (h *Handler) forecastBody(zf forecast.ZoneForecast) forecastBody {
	body := forecastBody{
		Zone:  h.zoneBody(zf.Zone),
		Stale: zf.Stale,
	}

	if zf.Record != nil {
		body.Text = zf.Record.Text
		body.IssuedAt = &zf.Record.IssuedAt
		body.ExpiresAt = &zf.Record.ExpiresAt
		body.FetchedAt = &zf.Record.FetchedAt
	}

	if zf.Err != nil {
		_, body.Error = errorMessage(zf.Err)
	}

	return body
}

// HandleGetForecasts returns the forecast of every zone containing the
// point given by the lon and lat query parameters.
func (h *Handler) HandleGetForecasts() http.HandlerFunc {
	type res struct {
		Point     pointBody      `json:"point"`
		Forecasts []forecastBody `json:"forecasts"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writer := h.NewLogWriter(w, r)

		point, err := PointFromQuery(r.URL.Query())
		if err != nil {
			writer.WriteError(err)
			return
		}

		pf, err := h.forecasts.Get(r.Context(), point)
		if err != nil {
			writer.WriteError(err)
			return
		}

		body := res{
			Point:     pointBody{Lon: pf.Point.Lon(), Lat: pf.Point.Lat()},
			Forecasts: make([]forecastBody, len(pf.Zones)),
		}
		for i, zf := range pf.Zones {
			body.Forecasts[i] = h.forecastBody(zf)
		}

		writer.Write(Response{Status: http.StatusOK, Body: body})
	}
}

// HandleGetZones returns the zones containing a point without fetching
// any forecast.
func (h *Handler) HandleGetZones() http.HandlerFunc {
	type res struct {
		Point pointBody  `json:"point"`
		Zones []zoneBody `json:"zones"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writer := h.NewLogWriter(w, r)

		point, err := PointFromQuery(r.URL.Query())
		if err != nil {
			writer.WriteError(err)
			return
		}

		resolution, err := h.forecasts.Resolver.Resolve(point.Lat(), point.Lon())
		if err != nil {
			writer.WriteError(err)
			return
		}

		zones := resolution.Zones()
		body := res{
			Point: pointBody{Lon: point.Lon(), Lat: point.Lat()},
			Zones: make([]zoneBody, len(zones)),
		}
		for i, z := range zones {
			body.Zones[i] = h.zoneBody(z)
		}

		writer.Write(Response{Status: http.StatusOK, Body: body})
	}
}

// HandleGetZoneForecast returns the forecast of a single zone.
func (h *Handler) HandleGetZoneForecast() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writer := h.NewLogWriter(w, r)

		layer, err := zone.ParseLayer(chi.URLParam(r, "layer"))
		if err != nil {
			writer.WriteError(app.BadRequest(err, "Unknown layer"))
			return
		}

		zf, err := h.forecasts.GetZone(r.Context(), layer, chi.URLParam(r, "id"))
		if err != nil {
			writer.WriteError(fmt.Errorf("getting zone forecast: %w", err))
			return
		}

		writer.Write(Response{Status: http.StatusOK, Body: h.forecastBody(zf)})
	}
}

// HandleHealth runs every health check and reports 503 when any fails.
func (h *Handler) HandleHealth() http.HandlerFunc {
	type res struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks,omitempty"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writer := h.NewLogWriter(w, r)
		body := res{Status: "ok", Checks: map[string]string{}}
		status := http.StatusOK

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		for _, c := range h.checks {
			if err := c.Check(ctx); err != nil {
				h.logger.WithField("check", c.Name).Warnf("health check failed: %v", err)
				body.Checks[c.Name] = err.Error()
				body.Status = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			body.Checks[c.Name] = "ok"
		}

		writer.Write(Response{Status: status, Body: body})
	}
}
