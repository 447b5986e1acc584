package ranking

import (
	"sort"

	"github.com/ligafc/liga-engine/internal/league"
)

// Score is one participant's raw score for a round. Absent marks a score
// that defaulted to zero because the upstream fetch failed, so auditors can
// tell "zero because absent" from "zero because earned".
type Score struct {
	ParticipantID league.ParticipantID `json:"participant_id"`
	Points        float64              `json:"points"`
	Absent        bool                 `json:"absent,omitempty"`
}

// CumulativeScore is a participant's season-to-date accumulation.
type CumulativeScore struct {
	ParticipantID league.ParticipantID `json:"participant_id"`
	Total         float64              `json:"total"`
	Secondary     float64              `json:"secondary"`
}

// Entry is a ranked participant. Position is 1-based.
type Entry struct {
	ParticipantID league.ParticipantID `json:"participant_id"`
	Position      int                  `json:"position"`
	Points        float64              `json:"points"`
	Absent        bool                 `json:"absent,omitempty"`
}

// RoundRanking ranks participants by raw score descending. The sort is
// stable: participants tied on score keep their relative input order.
func RoundRanking(scores []Score) []Entry {
	sorted := make([]Score, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Points > sorted[j].Points
	})

	entries := make([]Entry, len(sorted))
	for i, s := range sorted {
		entries[i] = Entry{
			ParticipantID: s.ParticipantID,
			Position:      i + 1,
			Points:        s.Points,
			Absent:        s.Absent,
		}
	}
	return entries
}

// CumulativeRanking ranks season-to-date totals descending. Ties are broken
// by accumulated secondary metric descending, then by the participant's
// cumulative rank from the prior round (stability), then by input order.
// priorPositions maps participant to their previous cumulative position; a
// participant missing from the map sorts after one that is present.
func CumulativeRanking(totals []CumulativeScore, priorPositions map[league.ParticipantID]int) []Entry {
	sorted := make([]CumulativeScore, len(totals))
	copy(sorted, totals)

	prior := func(id league.ParticipantID) int {
		if pos, ok := priorPositions[id]; ok {
			return pos
		}
		return len(totals) + 1
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		if a.Secondary != b.Secondary {
			return a.Secondary > b.Secondary
		}
		return prior(a.ParticipantID) < prior(b.ParticipantID)
	})

	entries := make([]Entry, len(sorted))
	for i, s := range sorted {
		entries[i] = Entry{
			ParticipantID: s.ParticipantID,
			Position:      i + 1,
			Points:        s.Total,
		}
	}
	return entries
}

// Positions returns a participant -> position lookup for a ranking.
func Positions(entries []Entry) map[league.ParticipantID]int {
	out := make(map[league.ParticipantID]int, len(entries))
	for _, e := range entries {
		out[e.ParticipantID] = e.Position
	}
	return out
}
