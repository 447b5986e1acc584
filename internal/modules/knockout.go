package modules

import (
	"fmt"

	"github.com/ligafc/liga-engine/internal/league"
	"github.com/ligafc/liga-engine/internal/schedule"
)

// Knockout phase names, smallest bracket first.
const (
	PhaseRoundOf32 = "round-of-32"
	PhaseRoundOf16 = "round-of-16"
	PhaseQuarter   = "quarter"
	PhaseSemi      = "semi"
	PhaseFinal     = "final"
	PhaseChampion  = "champion"
)

// TieState is the state of one bracket slot.
type TieState string

const (
	TieActive  TieState = "active"
	TieDecided TieState = "decided"
)

// Tie is one knockout pairing. An undecided tie carries forward to the next
// round unchanged.
type Tie struct {
	Phase  string               `json:"phase"`
	Home   league.ParticipantID `json:"home"`
	Away   league.ParticipantID `json:"away"`
	State  TieState             `json:"state"`
	Winner league.ParticipantID `json:"winner,omitempty"`
	Loser  league.ParticipantID `json:"loser,omitempty"`
}

// Bracket is the full state of the single-elimination sub-competition.
// Champion is set once the final is decided.
type Bracket struct {
	Phase    string               `json:"phase"`
	Ties     []Tie                `json:"ties"`
	Champion league.ParticipantID `json:"champion,omitempty"`
}

// phaseForCount maps a participant count to the opening phase name.
func phaseForCount(n int) string {
	switch {
	case n > 16:
		return PhaseRoundOf32
	case n > 8:
		return PhaseRoundOf16
	case n > 4:
		return PhaseQuarter
	case n > 2:
		return PhaseSemi
	default:
		return PhaseFinal
	}
}

func nextPhase(phase string) string {
	switch phase {
	case PhaseRoundOf32:
		return PhaseRoundOf16
	case PhaseRoundOf16:
		return PhaseQuarter
	case PhaseQuarter:
		return PhaseSemi
	case PhaseSemi:
		return PhaseFinal
	default:
		return PhaseChampion
	}
}

// NewBracket seeds the opening phase from a seed order that is independent
// of the round-robin schedule. An odd seed count sends the middle seed
// straight to the next phase.
func NewBracket(seeds []league.ParticipantID) Bracket {
	pairings, byeSeed := schedule.KnockoutSeeding(seeds)
	b := Bracket{Phase: phaseForCount(len(seeds))}
	for _, p := range pairings {
		b.Ties = append(b.Ties, Tie{Phase: b.Phase, Home: p.Home, Away: p.Away, State: TieActive})
	}
	if byeSeed != "" {
		// The bye seed is modeled as an already-decided tie with no loser,
		// so phase advancement picks it up without a special case.
		b.Ties = append(b.Ties, Tie{Phase: b.Phase, Home: byeSeed, State: TieDecided, Winner: byeSeed})
	}
	return b
}

// AdvanceBracket decides every still-active tie that has both scores
// available and a non-tied result. The winner advances, the loser is
// eliminated with the phase's penalty and the winner earns its bonus.
// A tie with a missing score or an exactly equal score carries forward
// undecided and produces no delta. When every tie of the phase is decided
// the next phase is paired from the winners in slot order.
func AdvanceBracket(b Bracket, scores map[league.ParticipantID]float64, cfg KnockoutConfig) (Bracket, []Delta) {
	if !cfg.Enabled || b.Champion != "" {
		return b, nil
	}

	payout := cfg.PhasePayouts[b.Phase]
	var deltas []Delta

	out := Bracket{Phase: b.Phase, Ties: make([]Tie, len(b.Ties))}
	copy(out.Ties, b.Ties)

	for i, tie := range out.Ties {
		if tie.State != TieActive {
			continue
		}
		homeScore, homeOK := scores[tie.Home]
		awayScore, awayOK := scores[tie.Away]
		if !homeOK || !awayOK || homeScore == awayScore {
			continue
		}

		if homeScore > awayScore {
			tie.Winner, tie.Loser = tie.Home, tie.Away
		} else {
			tie.Winner, tie.Loser = tie.Away, tie.Home
		}
		tie.State = TieDecided
		out.Ties[i] = tie

		if payout != 0 {
			deltas = append(deltas,
				Delta{
					ParticipantID: tie.Winner,
					Module:        KindKnockout,
					Amount:        payout,
					Description:   fmt.Sprintf("Vitória M-M %s", tie.Phase),
				},
				Delta{
					ParticipantID: tie.Loser,
					Module:        KindKnockout,
					Amount:        -payout,
					Description:   fmt.Sprintf("Eliminação M-M %s", tie.Phase),
				},
			)
		}
	}

	for _, tie := range out.Ties {
		if tie.State != TieDecided {
			return out, deltas
		}
	}

	// Phase complete: collect winners in slot order and pair the next phase.
	winners := make([]league.ParticipantID, 0, len(out.Ties))
	for _, tie := range out.Ties {
		winners = append(winners, tie.Winner)
	}
	if len(winners) == 1 {
		out.Champion = winners[0]
		return out, deltas
	}

	next := Bracket{Phase: nextPhase(out.Phase)}
	pairings, byeSeed := schedule.KnockoutSeeding(winners)
	for _, p := range pairings {
		next.Ties = append(next.Ties, Tie{Phase: next.Phase, Home: p.Home, Away: p.Away, State: TieActive})
	}
	if byeSeed != "" {
		next.Ties = append(next.Ties, Tie{Phase: next.Phase, Home: byeSeed, State: TieDecided, Winner: byeSeed})
	}
	return next, deltas
}
