package fantasy

import (
	"context"

	"github.com/ligafc/liga-engine/internal/league"
)

// Client defines the interface for the upstream fantasy data provider.
// This allows for mock implementations to be used in tests.
type Client interface {
	GetMarketStatus(ctx context.Context) (MarketStatus, error)
	GetLiveScores(ctx context.Context, round int) (map[int64]float64, error)
	GetTeamRoster(ctx context.Context, id league.ParticipantID, round int) (Roster, error)
}

// ScoreProvider computes per-participant raw scores for a round.
type ScoreProvider interface {
	ParticipantScores(ctx context.Context, round int, participants []league.Participant) ([]ParticipantScore, error)
}
