package modules

import (
	"fmt"

	"github.com/ligafc/liga-engine/internal/league"
)

// CalculateExtremes awards the round's single best raw score ("mito") and
// charges the single worst ("mico"). Ties at either extreme are resolved by
// the lowest canonical participant id; arbitrary but stable, and deliberately
// visible here rather than buried in map iteration order.
func CalculateExtremes(scores map[league.ParticipantID]float64, cfg ExtremesConfig) []Delta {
	if !cfg.Enabled || len(scores) < 2 {
		return nil
	}

	ids := sortedIDs(scores)
	best, worst := ids[0], ids[0]
	for _, id := range ids[1:] {
		if scores[id] > scores[best] {
			best = id
		}
		if scores[id] < scores[worst] {
			worst = id
		}
	}
	if best == worst {
		return nil
	}

	return []Delta{
		{
			ParticipantID: best,
			Module:        KindExtremes,
			Amount:        cfg.BestBonus,
			Description:   fmt.Sprintf("Mito da rodada (%.2f)", scores[best]),
		},
		{
			ParticipantID: worst,
			Module:        KindExtremes,
			Amount:        -cfg.WorstPenalty,
			Description:   fmt.Sprintf("Mico da rodada (%.2f)", scores[worst]),
		},
	}
}
