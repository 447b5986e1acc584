package ledger

import (
	"errors"
	"fmt"

	"github.com/ligafc/liga-engine/internal/league"
)

// SettlementType distinguishes the direction of a real-world payment.
type SettlementType string

const (
	// SettlementPayment is money from the participant to the league operator.
	SettlementPayment SettlementType = "payment"
	// SettlementReceipt is money from the league operator to the participant.
	SettlementReceipt SettlementType = "receipt"
)

var (
	ErrUnknownParticipant = errors.New("participant is not a league member")
	ErrNotFound           = errors.New("record not found")
)

// Adjustment is an admin-entered monetary entry for a participant, applied
// outside of automatic scoring. Soft-deleted, never removed.
type Adjustment struct {
	ID            string               `json:"id"`
	LeagueID      string               `json:"league_id"`
	Season        int                  `json:"season"`
	ParticipantID league.ParticipantID `json:"participant_id"`
	Label         string               `json:"label"`
	Amount        float64              `json:"amount"`
	CreatedAt     int64                `json:"created_at"`
	DeletedAt     *int64               `json:"deleted_at,omitempty"`
}

// Settlement is a payment event between a participant and the league
// operator. It affects the final balance but never any per-round entry.
type Settlement struct {
	ID            string               `json:"id"`
	LeagueID      string               `json:"league_id"`
	Season        int                  `json:"season"`
	ParticipantID league.ParticipantID `json:"participant_id"`
	Type          SettlementType       `json:"type"`
	Amount        float64              `json:"amount"`
	CreatedAt     int64                `json:"created_at"`
	DeletedAt     *int64               `json:"deleted_at,omitempty"`
}

// BalanceDelta is the settlement's signed contribution to the cumulative
// balance. A payment lowers the balance, a receipt raises it.
func (s Settlement) BalanceDelta() float64 {
	if s.Type == SettlementPayment {
		return -s.Amount
	}
	return s.Amount
}

// Validate rejects malformed settlements before they reach the event log.
func (s Settlement) Validate() error {
	if s.Type != SettlementPayment && s.Type != SettlementReceipt {
		return fmt.Errorf("invalid settlement type %q", s.Type)
	}
	if s.Amount <= 0 {
		return fmt.Errorf("settlement amount must be positive, got %v", s.Amount)
	}
	return nil
}

// RoundDelta is one consolidated round's net contribution to a
// participant's balance. Consolidated rounds are immutable short of a
// forced correction, which the flag records.
type RoundDelta struct {
	Round  int     `json:"round"`
	Amount float64 `json:"amount"`
	Forced bool    `json:"forced,omitempty"`
}

// Balance is a participant's fully-derived cumulative position: every
// consolidated round delta in order, plus adjustments, plus settlements.
type Balance struct {
	ParticipantID   league.ParticipantID `json:"participant_id"`
	LastRound       int                  `json:"last_round"`
	Rounds          []RoundDelta         `json:"rounds"`
	RoundTotal      float64              `json:"round_total"`
	AdjustmentTotal float64              `json:"adjustment_total"`
	SettlementTotal float64              `json:"settlement_total"`
	Total           float64              `json:"total"`
}

// EntryKind tags the origin of a statement line.
type EntryKind string

const (
	EntryRound      EntryKind = "round"
	EntryAdjustment EntryKind = "adjustment"
	EntrySettlement EntryKind = "settlement"
)

// StatementEntry is one line of the participant's statement.
type StatementEntry struct {
	Kind    EntryKind `json:"kind"`
	Round   int       `json:"round,omitempty"`
	Label   string    `json:"label,omitempty"`
	Amount  float64   `json:"amount"`
	Running float64   `json:"running"`
}

// Statement is the full itemized history behind a participant's balance:
// round deltas in round order, then adjustments and settlements in entry
// order, with a running total.
type Statement struct {
	ParticipantID league.ParticipantID `json:"participant_id"`
	Entries       []StatementEntry     `json:"entries"`
	Total         float64              `json:"total"`
}

// SummaryRow is one participant's line in the season summary.
type SummaryRow struct {
	ParticipantID league.ParticipantID `json:"participant_id"`
	Name          string               `json:"name"`
	Position      int                  `json:"position"`
	Balance       float64              `json:"balance"`
	RoundTotal    float64              `json:"round_total"`
	Settled       float64              `json:"settled"`
}

// SeasonSummary ranks every active participant by cumulative balance.
type SeasonSummary struct {
	LeagueID  string       `json:"league_id"`
	Season    int          `json:"season"`
	LastRound int          `json:"last_round"`
	Rows      []SummaryRow `json:"rows"`
}
