package league

import "sync"

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	UpsertParticipantsFunc    func(leagueID string, season int, participants []Participant) error
	GetParticipantsFunc       func(leagueID string, season int) ([]Participant, error)
	GetActiveParticipantsFunc func(leagueID string, season int) ([]Participant, error)
	GetParticipantFunc        func(leagueID string, season int, id ParticipantID) (*Participant, error)
	DeactivateParticipantFunc func(leagueID string, season int, id ParticipantID) error
	IsKnownParticipantFunc    func(leagueID string, season int, id ParticipantID) bool

	// Call records
	UpsertParticipantsCalls    [][]Participant
	DeactivateParticipantCalls []ParticipantID
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) UpsertParticipants(leagueID string, season int, participants []Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertParticipantsCalls = append(m.UpsertParticipantsCalls, participants)
	if m.UpsertParticipantsFunc != nil {
		return m.UpsertParticipantsFunc(leagueID, season, participants)
	}
	return nil
}

func (m *MockStore) GetParticipants(leagueID string, season int) ([]Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetParticipantsFunc != nil {
		return m.GetParticipantsFunc(leagueID, season)
	}
	return nil, nil
}

func (m *MockStore) GetActiveParticipants(leagueID string, season int) ([]Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetActiveParticipantsFunc != nil {
		return m.GetActiveParticipantsFunc(leagueID, season)
	}
	return nil, nil
}

func (m *MockStore) GetParticipant(leagueID string, season int, id ParticipantID) (*Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetParticipantFunc != nil {
		return m.GetParticipantFunc(leagueID, season, id)
	}
	return nil, nil
}

func (m *MockStore) DeactivateParticipant(leagueID string, season int, id ParticipantID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeactivateParticipantCalls = append(m.DeactivateParticipantCalls, id)
	if m.DeactivateParticipantFunc != nil {
		return m.DeactivateParticipantFunc(leagueID, season, id)
	}
	return nil
}

func (m *MockStore) IsKnownParticipant(leagueID string, season int, id ParticipantID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsKnownParticipantFunc != nil {
		return m.IsKnownParticipantFunc(leagueID, season, id)
	}
	return true
}
