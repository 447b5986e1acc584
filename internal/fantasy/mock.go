package fantasy

import (
	"context"
	"sync"

	"github.com/ligafc/liga-engine/internal/league"
)

// MockClient is a mock implementation of the Client interface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	// Spies for method calls
	GetMarketStatusFunc func(ctx context.Context) (MarketStatus, error)
	GetLiveScoresFunc   func(ctx context.Context, round int) (map[int64]float64, error)
	GetTeamRosterFunc   func(ctx context.Context, id league.ParticipantID, round int) (Roster, error)

	// Call records
	GetMarketStatusCalls int
	GetLiveScoresCalls   []int
	GetTeamRosterCalls   []league.ParticipantID
}

// NewMockClient creates a new mock instance.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Reset clears all call records.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetMarketStatusCalls = 0
	m.GetLiveScoresCalls = nil
	m.GetTeamRosterCalls = nil
}

func (m *MockClient) GetMarketStatus(ctx context.Context) (MarketStatus, error) {
	m.mu.Lock()
	m.GetMarketStatusCalls++
	fn := m.GetMarketStatusFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return MarketStatus{}, nil
}

func (m *MockClient) GetLiveScores(ctx context.Context, round int) (map[int64]float64, error) {
	m.mu.Lock()
	m.GetLiveScoresCalls = append(m.GetLiveScoresCalls, round)
	fn := m.GetLiveScoresFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, round)
	}
	return map[int64]float64{}, nil
}

func (m *MockClient) GetTeamRoster(ctx context.Context, id league.ParticipantID, round int) (Roster, error) {
	m.mu.Lock()
	m.GetTeamRosterCalls = append(m.GetTeamRosterCalls, id)
	fn := m.GetTeamRosterFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, id, round)
	}
	return Roster{}, nil
}

// MockScoreProvider is a mock implementation of the ScoreProvider interface.
type MockScoreProvider struct {
	mu sync.Mutex

	ParticipantScoresFunc func(ctx context.Context, round int, participants []league.Participant) ([]ParticipantScore, error)

	ParticipantScoresCalls []int
}

// NewMockScoreProvider creates a new mock instance.
func NewMockScoreProvider() *MockScoreProvider {
	return &MockScoreProvider{}
}

func (m *MockScoreProvider) ParticipantScores(ctx context.Context, round int, participants []league.Participant) ([]ParticipantScore, error) {
	m.mu.Lock()
	m.ParticipantScoresCalls = append(m.ParticipantScoresCalls, round)
	fn := m.ParticipantScoresFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, round, participants)
	}
	return nil, nil
}
