package consolidation

import (
	"errors"

	"github.com/ligafc/liga-engine/internal/fantasy"
	"github.com/ligafc/liga-engine/internal/league"
	"github.com/ligafc/liga-engine/internal/modules"
	"github.com/ligafc/liga-engine/internal/ranking"
	"github.com/ligafc/liga-engine/internal/schedule"
)

// SchemaVersion is stamped into every snapshot so later readers can handle
// layout changes.
const SchemaVersion = 2

// RoundStatus is the lifecycle of a round. Transitions only move forward:
// open -> closing -> consolidated.
type RoundStatus string

const (
	StatusOpen         RoundStatus = "OPEN"
	StatusClosing      RoundStatus = "CLOSING"
	StatusConsolidated RoundStatus = "CONSOLIDATED"
)

var (
	// ErrRoundStillOpen is returned when consolidation is requested for a
	// round whose market can still change scores.
	ErrRoundStillOpen = errors.New("round market is still open")
	// ErrMissingPriorRound is returned for out-of-order consolidation
	// requests: round N requires a snapshot for round N-1.
	ErrMissingPriorRound = errors.New("prior round is not consolidated")
	// ErrNoParticipants is returned when the league has no active members.
	ErrNoParticipants = errors.New("league has no active participants")
)

// MiniLeagueSection is the mini-league portion of a snapshot: the round's
// fixtures with their decided results and the cumulative table after them.
type MiniLeagueSection struct {
	Round     int                     `json:"round,omitempty"`
	Bye       league.ParticipantID    `json:"bye,omitempty"`
	Results   []modules.FixtureResult `json:"results,omitempty"`
	Standings []modules.Standing      `json:"standings,omitempty"`
}

// Snapshot is the immutable, fully-computed record of one consolidated
// round. It is created exactly once per (league, round, season) unless a
// forced re-consolidation replaces it whole.
type Snapshot struct {
	ID             string                    `json:"id"`
	LeagueID       string                    `json:"league_id"`
	Season         int                       `json:"season"`
	Round          int                       `json:"round"`
	Status         RoundStatus               `json:"status"`
	SchemaVersion  int                       `json:"schema_version"`
	ConsolidatedAt int64                     `json:"consolidated_at"`
	Forced         bool                      `json:"forced,omitempty"`
	Scores         []fantasy.ParticipantScore `json:"scores"`
	Ranking        []ranking.Entry           `json:"ranking"`
	Cumulative     []ranking.Entry           `json:"cumulative"`
	Totals         []ranking.CumulativeScore `json:"totals"`
	MiniLeague     MiniLeagueSection         `json:"minileague"`
	Knockout       *modules.Bracket          `json:"knockout,omitempty"`
	Deltas         []modules.Delta           `json:"deltas"`
}

// NetDeltas returns the round's net monetary delta per participant. The sum
// of a participant's module deltas for the round is by definition their
// entry in the cumulative ledger.
func (s *Snapshot) NetDeltas() map[league.ParticipantID]float64 {
	return modules.NetByParticipant(s.Deltas)
}

// Options alter a consolidation run.
type Options struct {
	// Force replaces an existing consolidated snapshot atomically and
	// cascade-invalidates every downstream ledger cache entry.
	Force bool
	// ScoreOverrides substitutes corrected raw scores for specific
	// participants, used by the round-correction flow.
	ScoreOverrides map[league.ParticipantID]float64
}

// Invalidator is the slice of the cache layer consolidation needs: wiping
// every derived ledger entry for a league season.
type Invalidator interface {
	InvalidateLeague(leagueID string, season int) error
}

// Collaborator interfaces re-exported for readability at the wiring site.
type (
	FixtureStore  = schedule.FixtureStore
	ScoreProvider = fantasy.ScoreProvider
)
