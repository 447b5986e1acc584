package ledger

import "sync"

// MockEventStore is an in-memory EventStore for testing.
type MockEventStore struct {
	mu          sync.Mutex
	adjustments []Adjustment
	settlements []Settlement

	AddAdjustmentFunc func(adj Adjustment) error
	AddSettlementFunc func(s Settlement) error

	AddAdjustmentCalls []Adjustment
	AddSettlementCalls []Settlement
}

// NewMockEventStore creates a new mock instance.
func NewMockEventStore() *MockEventStore {
	return &MockEventStore{}
}

func (m *MockEventStore) AddAdjustment(adj Adjustment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddAdjustmentCalls = append(m.AddAdjustmentCalls, adj)
	if m.AddAdjustmentFunc != nil {
		return m.AddAdjustmentFunc(adj)
	}
	m.adjustments = append(m.adjustments, adj)
	return nil
}

func (m *MockEventStore) DeleteAdjustment(leagueID string, season int, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, adj := range m.adjustments {
		if adj.ID == id {
			m.adjustments = append(m.adjustments[:i], m.adjustments[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *MockEventStore) ListAdjustments(leagueID string, season int) ([]Adjustment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Adjustment, len(m.adjustments))
	copy(out, m.adjustments)
	return out, nil
}

func (m *MockEventStore) AddSettlement(s Settlement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddSettlementCalls = append(m.AddSettlementCalls, s)
	if m.AddSettlementFunc != nil {
		return m.AddSettlementFunc(s)
	}
	m.settlements = append(m.settlements, s)
	return nil
}

func (m *MockEventStore) DeleteSettlement(leagueID string, season int, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.settlements {
		if s.ID == id {
			m.settlements = append(m.settlements[:i], m.settlements[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *MockEventStore) ListSettlements(leagueID string, season int) ([]Settlement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Settlement, len(m.settlements))
	copy(out, m.settlements)
	return out, nil
}
