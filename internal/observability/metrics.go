package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// weather orchestration core.
type Metrics struct {
	// Upstream client metrics.
	GeocodeRequests  *prometheus.CounterVec   // labels: op={search,resolve,reverse}, outcome={success,error,empty}
	ForecastRequests *prometheus.CounterVec   // labels: outcome={success,error}
	UpstreamDuration *prometheus.HistogramVec // labels: service={geocode,forecast}

	// Cache metrics.
	CacheLookups *prometheus.CounterVec // labels: result={hit,miss,corrupt}

	// Orchestrator metrics.
	SuggestionFetches   prometheus.Counter
	StaleResultsDropped *prometheus.CounterVec // labels: kind={suggestion,load}
	Loads               *prometheus.CounterVec // labels: source={city,coordinates}, outcome={fresh,cached,error}
	OrchestratorRunning prometheus.Gauge
}

// NewMetrics creates and registers all core metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.GeocodeRequests,
		m.ForecastRequests,
		m.UpstreamDuration,
		m.CacheLookups,
		m.SuggestionFetches,
		m.StaleResultsDropped,
		m.Loads,
		m.OrchestratorRunning,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skylook",
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by operation and outcome.",
		}, []string{"op", "outcome"}),
		ForecastRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skylook",
			Name:      "forecast_requests_total",
			Help:      "Forecast API requests by outcome.",
		}, []string{"outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "skylook",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"service"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skylook",
			Name:      "snapshot_cache_lookups_total",
			Help:      "Snapshot cache lookups by result.",
		}, []string{"result"}),
		SuggestionFetches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skylook",
			Name:      "suggestion_fetches_total",
			Help:      "Suggestion searches that survived the debounce window.",
		}),
		StaleResultsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skylook",
			Name:      "stale_results_dropped_total",
			Help:      "Responses discarded because a newer request superseded them.",
		}, []string{"kind"}),
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skylook",
			Name:      "loads_total",
			Help:      "Weather loads by trigger source and outcome.",
		}, []string{"source", "outcome"}),
		OrchestratorRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "skylook",
			Name:      "orchestrator_running",
			Help:      "1 while the orchestrator loops are active, 0 otherwise.",
		}),
	}
}
