package modules

import (
	"fmt"
	"math"
	"sort"

	"github.com/ligafc/liga-engine/internal/league"
)

// Kind identifies one of the league's parallel sub-competitions.
type Kind string

const (
	KindPosition   Kind = "position"
	KindMiniLeague Kind = "minileague"
	KindKnockout   Kind = "knockout"
	KindExtremes   Kind = "extremes"
)

// Delta is a signed monetary amount attributed to a participant for one
// round of one module.
type Delta struct {
	ParticipantID league.ParticipantID `json:"participant_id"`
	Module        Kind                 `json:"module"`
	Amount        float64              `json:"amount"`
	Description   string               `json:"description,omitempty"`
}

// NetByParticipant sums deltas per participant.
func NetByParticipant(deltas []Delta) map[league.ParticipantID]float64 {
	out := map[league.ParticipantID]float64{}
	for _, d := range deltas {
		out[d.ParticipantID] += d.Amount
	}
	return out
}

// PositionPhase is one payout table, active from FromRound onward. Leagues
// shrink the table mid-season (e.g. a 4-slot table from round 30), so the
// config is a list of phases instead of a single table.
type PositionPhase struct {
	FromRound int             `json:"from_round"`
	Payouts   map[int]float64 `json:"payouts"`
	Net       float64         `json:"net"`
}

// PositionConfig configures the position bonus/penalty module.
type PositionConfig struct {
	Enabled bool            `json:"enabled"`
	Phases  []PositionPhase `json:"phases"`
}

// TableFor returns the payout table in effect for a round, or nil when no
// phase covers it.
func (c PositionConfig) TableFor(round int) map[int]float64 {
	var table map[int]float64
	for _, phase := range c.Phases {
		if round >= phase.FromRound {
			table = phase.Payouts
		}
	}
	return table
}

func (c PositionConfig) validate() error {
	if len(c.Phases) == 0 {
		return fmt.Errorf("position module enabled with no payout phases")
	}
	prev := math.MinInt32
	for i, phase := range c.Phases {
		if phase.FromRound <= prev {
			return fmt.Errorf("position phases must be in ascending round order")
		}
		prev = phase.FromRound
		if len(phase.Payouts) == 0 {
			return fmt.Errorf("position phase %d has an empty payout table", i)
		}
		var sum float64
		for pos, amount := range phase.Payouts {
			if pos < 1 {
				return fmt.Errorf("position phase %d has invalid position %d", i, pos)
			}
			sum += amount
		}
		// The table's net total is declared alongside the table so a typo in
		// one entry is caught before any round is consolidated with it.
		if math.Abs(sum-phase.Net) > 1e-9 {
			return fmt.Errorf("position phase %d payouts sum to %.2f, declared net is %.2f", i, sum, phase.Net)
		}
	}
	return nil
}

// MiniLeagueConfig configures the round-robin mini-league payouts. A score
// difference within DrawTolerance is a draw, at or beyond BlowoutMargin a
// blowout, anything between a standard win/loss.
type MiniLeagueConfig struct {
	Enabled       bool    `json:"enabled"`
	StartRound    int     `json:"start_round"`
	DrawTolerance float64 `json:"draw_tolerance"`
	BlowoutMargin float64 `json:"blowout_margin"`
	WinPayout     float64 `json:"win_payout"`
	DrawPayout    float64 `json:"draw_payout"`
	BlowoutPayout float64 `json:"blowout_payout"`
}

func (c MiniLeagueConfig) validate() error {
	if c.DrawTolerance < 0 || c.BlowoutMargin <= 0 {
		return fmt.Errorf("mini-league margins must be positive")
	}
	if c.DrawTolerance >= c.BlowoutMargin {
		return fmt.Errorf("mini-league draw tolerance %.2f must be below blowout margin %.2f", c.DrawTolerance, c.BlowoutMargin)
	}
	if c.WinPayout <= 0 || c.DrawPayout <= 0 || c.BlowoutPayout <= 0 {
		return fmt.Errorf("mini-league payouts must be positive")
	}
	return nil
}

// KnockoutConfig configures the single-elimination bracket. PhasePayouts is
// keyed by the phase name; the winner of a tie earns the payout and the
// eliminated side is charged its negation.
type KnockoutConfig struct {
	Enabled      bool               `json:"enabled"`
	StartRound   int                `json:"start_round"`
	PhasePayouts map[string]float64 `json:"phase_payouts"`
}

func (c KnockoutConfig) validate() error {
	if len(c.PhasePayouts) == 0 {
		return fmt.Errorf("knockout module enabled with no phase payouts")
	}
	for phase, amount := range c.PhasePayouts {
		if amount <= 0 {
			return fmt.Errorf("knockout phase %q payout must be positive", phase)
		}
	}
	return nil
}

// ExtremesConfig configures the weekly best/worst ("mito"/"mico") module.
type ExtremesConfig struct {
	Enabled      bool    `json:"enabled"`
	BestBonus    float64 `json:"best_bonus"`
	WorstPenalty float64 `json:"worst_penalty"`
}

func (c ExtremesConfig) validate() error {
	if c.BestBonus <= 0 || c.WorstPenalty <= 0 {
		return fmt.Errorf("extremes bonus and penalty must be positive")
	}
	return nil
}

// Config is the full per-league module configuration.
type Config struct {
	Position   PositionConfig   `json:"position"`
	MiniLeague MiniLeagueConfig `json:"minileague"`
	Knockout   KnockoutConfig   `json:"knockout"`
	Extremes   ExtremesConfig   `json:"extremes"`
}

// Validate fails fast on any enabled module with an unusable configuration.
// Consolidation calls this before writing anything.
func (c Config) Validate() error {
	if c.Position.Enabled {
		if err := c.Position.validate(); err != nil {
			return err
		}
	}
	if c.MiniLeague.Enabled {
		if err := c.MiniLeague.validate(); err != nil {
			return err
		}
	}
	if c.Knockout.Enabled {
		if err := c.Knockout.validate(); err != nil {
			return err
		}
	}
	if c.Extremes.Enabled {
		if err := c.Extremes.validate(); err != nil {
			return err
		}
	}
	return nil
}

// DefaultConfig returns the payout scheme most leagues run with.
func DefaultConfig() Config {
	return Config{
		Position: PositionConfig{
			Enabled: true,
			Phases: []PositionPhase{
				{
					FromRound: 1,
					Payouts:   map[int]float64{1: 10, 2: 7, 3: 5, 4: -5, 5: -7, 6: -10},
					Net:       0,
				},
			},
		},
		MiniLeague: MiniLeagueConfig{
			Enabled:       true,
			StartRound:    1,
			DrawTolerance: 0.3,
			BlowoutMargin: 50.0,
			WinPayout:     5.0,
			DrawPayout:    3.0,
			BlowoutPayout: 7.0,
		},
		Knockout: KnockoutConfig{
			Enabled:    true,
			StartRound: 1,
			PhasePayouts: map[string]float64{
				PhaseRoundOf16: 5,
				PhaseQuarter:   10,
				PhaseSemi:      15,
				PhaseFinal:     20,
			},
		},
		Extremes: ExtremesConfig{
			Enabled:      true,
			BestBonus:    10.0,
			WorstPenalty: 10.0,
		},
	}
}

// sortedIDs returns map keys in canonical id order, the deterministic
// iteration order used whenever map contents feed a computation.
func sortedIDs(scores map[league.ParticipantID]float64) []league.ParticipantID {
	out := make([]league.ParticipantID, 0, len(scores))
	for id := range scores {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
