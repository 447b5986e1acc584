package metrics

import "sync"

// MockMetrics is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type MockMetrics struct {
	mu sync.Mutex

	ConsolidationRuns     int
	ConsolidationFailures int
	Durations             []float64
	CacheHits             int
	CacheMisses           int
	CacheInvalidations    int
	UpstreamFetchFailures int
	ProjectionRequests    int
	StartupTimes          []float64
}

// NewMock creates a new mock instance.
func NewMock() *MockMetrics {
	return &MockMetrics{}
}

func (m *MockMetrics) IncConsolidationRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConsolidationRuns++
}

func (m *MockMetrics) IncConsolidationFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConsolidationFailures++
}

func (m *MockMetrics) ObserveConsolidationDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Durations = append(m.Durations, duration)
}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) IncCacheInvalidations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheInvalidations++
}

func (m *MockMetrics) IncUpstreamFetchFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpstreamFetchFailures++
}

func (m *MockMetrics) IncProjectionRequests() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProjectionRequests++
}

func (m *MockMetrics) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartupTimes = append(m.StartupTimes, duration)
}
