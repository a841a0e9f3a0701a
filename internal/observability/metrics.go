package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "marine_forecast"

// Metrics holds the Prometheus collectors for the forecast service.
type Metrics struct {
	CacheLookups  *prometheus.CounterVec // labels: result={hit_ephemeral,hit_store,miss}
	Fetches       *prometheus.CounterVec // labels: layer, outcome={success,error}
	ParseFailures *prometheus.CounterVec // labels: layer
	Writes        *prometheus.CounterVec // labels: result={written,discarded}

	SweepDuration  prometheus.Histogram
	SweepRefreshed prometheus.Counter
	SweepFailures  prometheus.Counter

	HTTPRequests *prometheus.CounterVec // labels: route, status
}

func newMetrics() *Metrics {
	return &Metrics{
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Forecast cache lookups by result.",
		}, []string{"result"}),
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_fetches_total",
			Help:      "Bulletin fetches by layer and outcome.",
		}, []string{"layer", "outcome"}),
		ParseFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_failures_total",
			Help:      "Bulletins rejected by the expiration parser.",
		}, []string{"layer"}),
		Writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecast_writes_total",
			Help:      "Fetched forecasts written or discarded by the monotonic expiration rule.",
		}, []string{"result"}),
		SweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_duration_seconds",
			Help:      "Duration of refresh sweeps.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		SweepRefreshed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_refreshed_total",
			Help:      "Expired forecasts refreshed by sweeps.",
		}),
		SweepFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_failures_total",
			Help:      "Zones that failed to refresh during sweeps.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"route", "status"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.CacheLookups,
		m.Fetches,
		m.ParseFailures,
		m.Writes,
		m.SweepDuration,
		m.SweepRefreshed,
		m.SweepFailures,
		m.HTTPRequests,
	}
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics on a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
