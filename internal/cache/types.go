package cache

import (
	"github.com/ligafc/liga-engine/internal/ledger"
	"github.com/ligafc/liga-engine/internal/league"
)

// Entry is one cached ledger balance. Balance and LastRound are
// denormalized copies of the payload for cheap scans.
type Entry struct {
	LeagueID      string               `json:"league_id"`
	Season        int                  `json:"season"`
	ParticipantID league.ParticipantID `json:"participant_id"`
	Balance       ledger.Balance       `json:"balance"`
	UpdatedAt     int64                `json:"updated_at"`
}
