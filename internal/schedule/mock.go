package schedule

import "sync"

// MockStore is a mock implementation of the FixtureStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	GenerateOnceFunc func(leagueID string, season int, rounds []Round) (bool, error)
	GetRoundFunc     func(leagueID string, season int, round int) (*Round, error)
	GetAllRoundsFunc func(leagueID string, season int) ([]Round, error)
	HasFixturesFunc  func(leagueID string, season int) (bool, error)

	// Call records
	GenerateOnceCalls [][]Round
	GetRoundCalls     []int
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) GenerateOnce(leagueID string, season int, rounds []Round) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateOnceCalls = append(m.GenerateOnceCalls, rounds)
	if m.GenerateOnceFunc != nil {
		return m.GenerateOnceFunc(leagueID, season, rounds)
	}
	return true, nil
}

func (m *MockStore) GetRound(leagueID string, season int, round int) (*Round, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetRoundCalls = append(m.GetRoundCalls, round)
	if m.GetRoundFunc != nil {
		return m.GetRoundFunc(leagueID, season, round)
	}
	return nil, nil
}

func (m *MockStore) GetAllRounds(leagueID string, season int) ([]Round, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllRoundsFunc != nil {
		return m.GetAllRoundsFunc(leagueID, season)
	}
	return nil, nil
}

func (m *MockStore) HasFixtures(leagueID string, season int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.HasFixturesFunc != nil {
		return m.HasFixturesFunc(leagueID, season)
	}
	return false, nil
}
