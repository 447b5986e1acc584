package ranking_test

import (
	"testing"

	"github.com/ligafc/liga-engine/internal/league"
	"github.com/ligafc/liga-engine/internal/ranking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRankingOrdersByScoreDescending(t *testing.T) {
	entries := ranking.RoundRanking([]ranking.Score{
		{ParticipantID: "a", Points: 55.1},
		{ParticipantID: "b", Points: 80.4},
		{ParticipantID: "c", Points: 12.0, Absent: true},
	})

	require.Len(t, entries, 3)
	assert.Equal(t, league.ParticipantID("b"), entries[0].ParticipantID)
	assert.Equal(t, 1, entries[0].Position)
	assert.Equal(t, league.ParticipantID("a"), entries[1].ParticipantID)
	assert.Equal(t, league.ParticipantID("c"), entries[2].ParticipantID)
	assert.True(t, entries[2].Absent)
}

func TestRoundRankingTiesKeepInputOrder(t *testing.T) {
	entries := ranking.RoundRanking([]ranking.Score{
		{ParticipantID: "z", Points: 50},
		{ParticipantID: "a", Points: 50},
		{ParticipantID: "m", Points: 50},
	})

	assert.Equal(t, league.ParticipantID("z"), entries[0].ParticipantID)
	assert.Equal(t, league.ParticipantID("a"), entries[1].ParticipantID)
	assert.Equal(t, league.ParticipantID("m"), entries[2].ParticipantID)
}

func TestCumulativeRankingTieBreaks(t *testing.T) {
	totals := []ranking.CumulativeScore{
		{ParticipantID: "a", Total: 100, Secondary: 3},
		{ParticipantID: "b", Total: 100, Secondary: 5},
		{ParticipantID: "c", Total: 120, Secondary: 0},
	}

	// Secondary metric breaks the a/b tie.
	entries := ranking.CumulativeRanking(totals, nil)
	assert.Equal(t, league.ParticipantID("c"), entries[0].ParticipantID)
	assert.Equal(t, league.ParticipantID("b"), entries[1].ParticipantID)
	assert.Equal(t, league.ParticipantID("a"), entries[2].ParticipantID)
}

func TestCumulativeRankingPriorRoundStability(t *testing.T) {
	totals := []ranking.CumulativeScore{
		{ParticipantID: "a", Total: 100, Secondary: 2},
		{ParticipantID: "b", Total: 100, Secondary: 2},
	}

	// Fully tied: the participant ranked higher last round stays higher.
	entries := ranking.CumulativeRanking(totals, map[league.ParticipantID]int{"b": 1, "a": 2})
	assert.Equal(t, league.ParticipantID("b"), entries[0].ParticipantID)

	// Without prior positions the input order is kept.
	entries = ranking.CumulativeRanking(totals, nil)
	assert.Equal(t, league.ParticipantID("a"), entries[0].ParticipantID)
}

func TestPositions(t *testing.T) {
	entries := ranking.RoundRanking([]ranking.Score{
		{ParticipantID: "a", Points: 1},
		{ParticipantID: "b", Points: 2},
	})
	pos := ranking.Positions(entries)
	assert.Equal(t, 1, pos["b"])
	assert.Equal(t, 2, pos["a"])
}
