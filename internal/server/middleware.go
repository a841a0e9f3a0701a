package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cicconee/marine-forecast/internal/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs every request and counts it by route pattern and
// status. It must be mounted on the router so the route pattern is
// known once the request has been served.
type RequestLogger struct {
	logger  *logrus.Logger
	metrics *observability.Metrics
}

func (l *RequestLogger) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		if l.metrics != nil {
			l.metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		}

		l.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"route":       route,
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  middleware.GetReqID(r.Context()),
		}).Info("request served")
	})
}
