package modules

import (
	"fmt"

	"github.com/ligafc/liga-engine/internal/ranking"
)

// CalculatePosition converts a round ranking into bonus/penalty deltas using
// the payout table in effect for the round. Positions without a table entry
// (or with a zero entry) produce no delta.
func CalculatePosition(entries []ranking.Entry, round int, cfg PositionConfig) []Delta {
	if !cfg.Enabled {
		return nil
	}
	table := cfg.TableFor(round)
	if table == nil {
		return nil
	}

	var deltas []Delta
	for _, e := range entries {
		amount, ok := table[e.Position]
		if !ok || amount == 0 {
			continue
		}
		deltas = append(deltas, Delta{
			ParticipantID: e.ParticipantID,
			Module:        KindPosition,
			Amount:        amount,
			Description:   fmt.Sprintf("Banco R%d: %dº lugar", round, e.Position),
		})
	}
	return deltas
}
