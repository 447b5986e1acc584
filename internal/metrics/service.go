package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// Service is the Prometheus-backed Metrics implementation.
type Service struct {
	ConsolidationRuns       prometheus.Counter
	ConsolidationFailures   prometheus.Counter
	ConsolidationDuration   prometheus.Histogram
	CacheHits               prometheus.Counter
	CacheMisses             prometheus.Counter
	CacheInvalidations      prometheus.Counter
	UpstreamFetchFailures   prometheus.Counter
	ProjectionRequests      prometheus.Counter
	StartupTimeSeconds      prometheus.Gauge
}

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		ConsolidationRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "liga_consolidation_runs_total",
			Help: "The total number of round consolidation attempts.",
		}),
		ConsolidationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "liga_consolidation_failures_total",
			Help: "The total number of round consolidations that failed.",
		}),
		ConsolidationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "liga_consolidation_duration_seconds",
			Help:    "The duration of individual round consolidations.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "liga_ledger_cache_hits_total",
			Help: "The total number of ledger cache hits.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "liga_ledger_cache_misses_total",
			Help: "The total number of ledger cache misses triggering a recompute.",
		}),
		CacheInvalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "liga_ledger_cache_invalidations_total",
			Help: "The total number of ledger cache entries invalidated.",
		}),
		UpstreamFetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "liga_upstream_fetch_failures_total",
			Help: "The total number of upstream data fetches that degraded to zero/absent.",
		}),
		ProjectionRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "liga_projection_requests_total",
			Help: "The total number of live projection requests served.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "liga_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.ConsolidationRuns,
		s.ConsolidationFailures,
		s.ConsolidationDuration,
		s.CacheHits,
		s.CacheMisses,
		s.CacheInvalidations,
		s.UpstreamFetchFailures,
		s.ProjectionRequests,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncConsolidationRuns() {
	s.ConsolidationRuns.Inc()
}

func (s *Service) IncConsolidationFailures() {
	s.ConsolidationFailures.Inc()
}

func (s *Service) ObserveConsolidationDuration(duration float64) {
	s.ConsolidationDuration.Observe(duration)
}

func (s *Service) IncCacheHits() {
	s.CacheHits.Inc()
}

func (s *Service) IncCacheMisses() {
	s.CacheMisses.Inc()
}

func (s *Service) IncCacheInvalidations() {
	s.CacheInvalidations.Inc()
}

func (s *Service) IncUpstreamFetchFailures() {
	s.UpstreamFetchFailures.Inc()
}

func (s *Service) IncProjectionRequests() {
	s.ProjectionRequests.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
