package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncConsolidationRuns()
	IncConsolidationFailures()
	ObserveConsolidationDuration(duration float64)
	IncCacheHits()
	IncCacheMisses()
	IncCacheInvalidations()
	IncUpstreamFetchFailures()
	IncProjectionRequests()
	SetStartupTime(duration float64)
}
