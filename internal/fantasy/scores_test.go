package fantasy_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/ligafc/liga-engine/internal/fantasy"
	"github.com/ligafc/liga-engine/internal/league"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func participants(n int) []league.Participant {
	out := make([]league.Participant, n)
	for i := range out {
		id := league.ParticipantID(fmt.Sprintf("p%02d", i+1))
		out[i] = league.Participant{ID: id, Name: string(id), Active: true}
	}
	return out
}

func TestParticipantScoresSumsRosterWithCaptainDoubled(t *testing.T) {
	client := fantasy.NewMockClient()
	client.GetLiveScoresFunc = func(ctx context.Context, round int) (map[int64]float64, error) {
		return map[int64]float64{1: 10, 2: 5, 3: 2}, nil
	}
	client.GetTeamRosterFunc = func(ctx context.Context, id league.ParticipantID, round int) (fantasy.Roster, error) {
		return fantasy.Roster{AthleteIDs: []int64{1, 2, 3}, CaptainID: 1}, nil
	}

	svc := fantasy.NewScoreService(client)
	scores, err := svc.ParticipantScores(context.Background(), 4, participants(2))
	require.NoError(t, err)
	require.Len(t, scores, 2)
	// Captain's 10 counts double: 20 + 5 + 2.
	assert.Equal(t, 27.0, scores[0].Score)
	assert.False(t, scores[0].Absent)
}

func TestParticipantScoresSoftFailure(t *testing.T) {
	client := fantasy.NewMockClient()
	client.GetLiveScoresFunc = func(ctx context.Context, round int) (map[int64]float64, error) {
		return map[int64]float64{1: 10}, nil
	}
	client.GetTeamRosterFunc = func(ctx context.Context, id league.ParticipantID, round int) (fantasy.Roster, error) {
		if id == "p02" {
			return fantasy.Roster{}, fmt.Errorf("upstream unavailable")
		}
		return fantasy.Roster{AthleteIDs: []int64{1}, CaptainID: 0}, nil
	}

	svc := fantasy.NewScoreService(client)
	scores, err := svc.ParticipantScores(context.Background(), 4, participants(3))
	require.NoError(t, err)
	require.Len(t, scores, 3)

	// p02 degraded to zero/absent, the rest unaffected, order preserved.
	assert.Equal(t, league.ParticipantID("p01"), scores[0].ParticipantID)
	assert.Equal(t, 10.0, scores[0].Score)
	assert.True(t, scores[1].Absent)
	assert.Equal(t, 0.0, scores[1].Score)
	assert.Equal(t, 10.0, scores[2].Score)
}

func TestParticipantScoresFailsWithoutLiveScores(t *testing.T) {
	client := fantasy.NewMockClient()
	client.GetLiveScoresFunc = func(ctx context.Context, round int) (map[int64]float64, error) {
		return nil, fmt.Errorf("upstream down")
	}

	svc := fantasy.NewScoreService(client)
	_, err := svc.ParticipantScores(context.Background(), 4, participants(2))
	assert.Error(t, err)
}

func TestScoreMapKeepsAbsentAtZero(t *testing.T) {
	m := fantasy.ScoreMap([]fantasy.ParticipantScore{
		{ParticipantID: "a", Score: 12.5},
		{ParticipantID: "b", Absent: true},
	})
	assert.Equal(t, 12.5, m["a"])
	score, ok := m["b"]
	assert.True(t, ok)
	assert.Equal(t, 0.0, score)
}
