package consolidation_test

import (
	"context"
	"testing"

	"github.com/ligafc/liga-engine/internal/consolidation"
	"github.com/ligafc/liga-engine/internal/fantasy"
	"github.com/ligafc/liga-engine/internal/league"
	"github.com/ligafc/liga-engine/internal/metrics"
	"github.com/ligafc/liga-engine/internal/modules"
	"github.com/ligafc/liga-engine/internal/pubsub"
	"github.com/ligafc/liga-engine/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testLeague = "liga-1"
	testSeason = 2025
)

type fixture struct {
	consolidator *consolidation.Consolidator
	snapshots    *consolidation.MockSnapshotStore
	participants *league.MockStore
	fixtures     *schedule.MockStore
	scores       *fantasy.MockScoreProvider
	upstream     *fantasy.MockClient
	invalidator  *consolidation.MockInvalidator
	metrics      *metrics.MockMetrics
	pubsub       *pubsub.MockPubSubClient
}

func testParticipants(n int) []league.Participant {
	out := make([]league.Participant, n)
	for i := range out {
		out[i] = league.Participant{
			ID:       league.ParticipantID(string(rune('a' + i))),
			EntityID: int64(i + 1),
			Name:     "Time " + string(rune('A'+i)),
			Active:   true,
		}
	}
	return out
}

func newFixture(t *testing.T, cfg modules.Config, participants []league.Participant) *fixture {
	t.Helper()

	f := &fixture{
		snapshots:    consolidation.NewMockSnapshotStore(),
		participants: league.NewMock(),
		fixtures:     schedule.NewMock(),
		scores:       fantasy.NewMockScoreProvider(),
		upstream:     fantasy.NewMockClient(),
		invalidator:  &consolidation.MockInvalidator{},
		metrics:      metrics.NewMock(),
		pubsub:       pubsub.NewMock("test-project"),
	}

	f.participants.GetActiveParticipantsFunc = func(string, int) ([]league.Participant, error) {
		return participants, nil
	}
	// Market closed well past any round under test.
	f.upstream.GetMarketStatusFunc = func(context.Context) (fantasy.MarketStatus, error) {
		return fantasy.MarketStatus{CurrentRound: 38, Open: false}, nil
	}
	// One point per round times the participant's entity ID keeps scores
	// distinct and makes totals easy to predict.
	f.scores.ParticipantScoresFunc = func(_ context.Context, round int, ps []league.Participant) ([]fantasy.ParticipantScore, error) {
		out := make([]fantasy.ParticipantScore, len(ps))
		for i, p := range ps {
			out[i] = fantasy.ParticipantScore{ParticipantID: p.ID, Score: float64(p.EntityID) * 10}
		}
		return out, nil
	}
	rounds := schedule.RoundRobin(participantIDs(participants))
	f.fixtures.GetRoundFunc = func(_ string, _ int, round int) (*schedule.Round, error) {
		if round < 1 || round > len(rounds) {
			return nil, nil
		}
		return &rounds[round-1], nil
	}

	f.consolidator = consolidation.New(
		testLeague, testSeason, cfg,
		f.participants, f.fixtures, f.snapshots,
		f.scores, f.upstream, f.invalidator, f.metrics, f.pubsub,
	)
	return f
}

func participantIDs(ps []league.Participant) []league.ParticipantID {
	out := make([]league.ParticipantID, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func testConfig() modules.Config {
	cfg := modules.DefaultConfig()
	cfg.MiniLeague.StartRound = 1
	cfg.Knockout.Enabled = false
	return cfg
}

func consolidateRounds(t *testing.T, f *fixture, upTo int) *consolidation.Snapshot {
	t.Helper()
	var snap *consolidation.Snapshot
	for r := 1; r <= upTo; r++ {
		var err error
		snap, err = f.consolidator.ConsolidateRound(context.Background(), r, consolidation.Options{})
		require.NoError(t, err)
	}
	return snap
}

func TestConsolidateRoundProducesSnapshot(t *testing.T) {
	f := newFixture(t, testConfig(), testParticipants(4))

	snap, err := f.consolidator.ConsolidateRound(context.Background(), 1, consolidation.Options{})
	require.NoError(t, err)
	require.NotNil(t, snap)

	assert.Equal(t, consolidation.StatusConsolidated, snap.Status)
	assert.Equal(t, consolidation.SchemaVersion, snap.SchemaVersion)
	assert.NotEmpty(t, snap.ID)
	assert.NotZero(t, snap.ConsolidatedAt)
	assert.Len(t, snap.Scores, 4)
	assert.Len(t, snap.Ranking, 4)

	// Highest score ranks first.
	assert.Equal(t, league.ParticipantID("d"), snap.Ranking[0].ParticipantID)
	assert.Equal(t, 1, snap.Ranking[0].Position)

	assert.NotEmpty(t, snap.Deltas)
	assert.Len(t, snap.MiniLeague.Results, 2)

	assert.Equal(t, []string{testLeague}, f.invalidator.Calls)
	require.Len(t, f.pubsub.SendMessageCalls, 1)
	assert.Equal(t, string(pubsub.EventRoundConsolidated), f.pubsub.SendMessageCalls[0].Topic)
	assert.Equal(t, 1, f.metrics.ConsolidationRuns)
	assert.Zero(t, f.metrics.ConsolidationFailures)
}

func TestConsolidateRoundIsIdempotent(t *testing.T) {
	f := newFixture(t, testConfig(), testParticipants(4))

	first, err := f.consolidator.ConsolidateRound(context.Background(), 1, consolidation.Options{})
	require.NoError(t, err)

	second, err := f.consolidator.ConsolidateRound(context.Background(), 1, consolidation.Options{})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.snapshots.InsertCalls, 1)
	assert.Len(t, f.pubsub.SendMessageCalls, 1)
}

func TestConsolidateRoundEnforcesOrdering(t *testing.T) {
	f := newFixture(t, testConfig(), testParticipants(4))

	_, err := f.consolidator.ConsolidateRound(context.Background(), 3, consolidation.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, consolidation.ErrMissingPriorRound)
	assert.Empty(t, f.snapshots.InsertCalls)
	assert.Equal(t, 1, f.metrics.ConsolidationFailures)
}

func TestConsolidateRoundRejectsOpenRound(t *testing.T) {
	f := newFixture(t, testConfig(), testParticipants(4))
	f.upstream.GetMarketStatusFunc = func(context.Context) (fantasy.MarketStatus, error) {
		return fantasy.MarketStatus{CurrentRound: 1, Open: true}, nil
	}

	_, err := f.consolidator.ConsolidateRound(context.Background(), 1, consolidation.Options{})
	assert.ErrorIs(t, err, consolidation.ErrRoundStillOpen)
}

func TestConsolidateRoundRejectsEmptyLeague(t *testing.T) {
	f := newFixture(t, testConfig(), testParticipants(4))
	f.participants.GetActiveParticipantsFunc = func(string, int) ([]league.Participant, error) {
		return nil, nil
	}

	_, err := f.consolidator.ConsolidateRound(context.Background(), 1, consolidation.Options{})
	assert.ErrorIs(t, err, consolidation.ErrNoParticipants)
}

func TestConsolidateRoundRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.MiniLeague.DrawTolerance = -1
	f := newFixture(t, cfg, testParticipants(4))

	_, err := f.consolidator.ConsolidateRound(context.Background(), 1, consolidation.Options{})
	require.Error(t, err)
	assert.Empty(t, f.snapshots.InsertCalls)
	// Nothing was read or written before the config check failed.
	assert.Equal(t, 0, f.upstream.GetMarketStatusCalls)
}

func TestConsolidateRoundAccumulatesTotals(t *testing.T) {
	f := newFixture(t, testConfig(), testParticipants(4))

	snap := consolidateRounds(t, f, 3)

	totals := map[league.ParticipantID]float64{}
	for _, tot := range snap.Totals {
		totals[tot.ParticipantID] = tot.Total
	}
	// 10*entityID per round, three rounds in.
	assert.Equal(t, 30.0, totals["a"])
	assert.Equal(t, 120.0, totals["d"])
	assert.Equal(t, league.ParticipantID("d"), snap.Cumulative[0].ParticipantID)
	assert.Equal(t, league.ParticipantID("a"), snap.Cumulative[3].ParticipantID)
}

func TestConsolidateRoundConcurrentLoser(t *testing.T) {
	f := newFixture(t, testConfig(), testParticipants(4))
	stored := &consolidation.Snapshot{
		ID: "winner", LeagueID: testLeague, Season: testSeason, Round: 1,
		Status: consolidation.StatusConsolidated,
	}
	f.snapshots.InsertIfAbsentFunc = func(snap *consolidation.Snapshot) (bool, error) {
		// Simulate another process winning the insert race.
		f.snapshots.Seed(stored)
		return false, nil
	}

	snap, err := f.consolidator.ConsolidateRound(context.Background(), 1, consolidation.Options{})
	require.NoError(t, err)
	assert.Equal(t, "winner", snap.ID)
	assert.Empty(t, f.pubsub.SendMessageCalls)
	assert.Empty(t, f.invalidator.Calls)
}

func TestForcedReconsolidationReplacesSnapshot(t *testing.T) {
	f := newFixture(t, testConfig(), testParticipants(4))

	original, err := f.consolidator.ConsolidateRound(context.Background(), 1, consolidation.Options{})
	require.NoError(t, err)

	corrected, err := f.consolidator.ConsolidateRound(context.Background(), 1, consolidation.Options{
		Force:          true,
		ScoreOverrides: map[league.ParticipantID]float64{"a": 99},
	})
	require.NoError(t, err)

	assert.NotEqual(t, original.ID, corrected.ID)
	assert.True(t, corrected.Forced)
	assert.Len(t, f.snapshots.ReplaceCalls, 1)

	scores := fantasy.ScoreMap(corrected.Scores)
	assert.Equal(t, 99.0, scores["a"])

	// Correction cascades: cache invalidated again, correction event out.
	assert.Equal(t, []string{testLeague, testLeague}, f.invalidator.Calls)
	require.Len(t, f.pubsub.SendMessageCalls, 2)
	assert.Equal(t, string(pubsub.EventRoundCorrected), f.pubsub.SendMessageCalls[1].Topic)

	got, err := f.snapshots.Get(testLeague, testSeason, 1)
	require.NoError(t, err)
	assert.Equal(t, corrected.ID, got.ID)
}

func TestConsolidateRoundAbsentParticipantScoresZero(t *testing.T) {
	f := newFixture(t, testConfig(), testParticipants(4))
	f.scores.ParticipantScoresFunc = func(_ context.Context, round int, ps []league.Participant) ([]fantasy.ParticipantScore, error) {
		out := make([]fantasy.ParticipantScore, len(ps))
		for i, p := range ps {
			out[i] = fantasy.ParticipantScore{ParticipantID: p.ID, Score: float64(p.EntityID) * 10}
		}
		out[0].Score = 0
		out[0].Absent = true
		return out, nil
	}

	snap, err := f.consolidator.ConsolidateRound(context.Background(), 1, consolidation.Options{})
	require.NoError(t, err)

	// Absent participant ranks last with zero, never excluded.
	last := snap.Ranking[len(snap.Ranking)-1]
	assert.Equal(t, league.ParticipantID("a"), last.ParticipantID)
	assert.True(t, last.Absent)
	assert.Equal(t, 0.0, last.Points)
	assert.Equal(t, 1, f.metrics.UpstreamFetchFailures)
}

func TestConsolidateRoundKnockoutLifecycle(t *testing.T) {
	cfg := testConfig()
	cfg.Knockout.Enabled = true
	cfg.Knockout.StartRound = 2
	f := newFixture(t, cfg, testParticipants(4))

	first, err := f.consolidator.ConsolidateRound(context.Background(), 1, consolidation.Options{})
	require.NoError(t, err)
	assert.Nil(t, first.Knockout)

	second := consolidateRounds(t, f, 2)
	require.NotNil(t, second.Knockout)
	assert.NotEmpty(t, second.Knockout.Ties)

	// Distinct deterministic scores decide every tie each round, so the
	// four-seed bracket crowns a champion two rounds after it starts.
	third := consolidateRounds(t, f, 3)
	require.NotNil(t, third.Knockout)
	assert.Equal(t, league.ParticipantID("d"), third.Knockout.Champion)
}

func TestConsolidateRoundBeforeMiniLeagueStart(t *testing.T) {
	cfg := testConfig()
	cfg.MiniLeague.StartRound = 5
	f := newFixture(t, cfg, testParticipants(4))

	snap, err := f.consolidator.ConsolidateRound(context.Background(), 1, consolidation.Options{})
	require.NoError(t, err)
	assert.Empty(t, snap.MiniLeague.Results)
	assert.Empty(t, f.fixtures.GetRoundCalls)
}

func TestRoundStatus(t *testing.T) {
	f := newFixture(t, testConfig(), testParticipants(4))
	f.upstream.GetMarketStatusFunc = func(context.Context) (fantasy.MarketStatus, error) {
		return fantasy.MarketStatus{CurrentRound: 5, Open: true}, nil
	}

	status, err := f.consolidator.RoundStatus(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, consolidation.StatusOpen, status)

	status, err = f.consolidator.RoundStatus(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, consolidation.StatusClosing, status)

	f.snapshots.Seed(&consolidation.Snapshot{
		LeagueID: testLeague, Season: testSeason, Round: 4,
		Status: consolidation.StatusConsolidated,
	})
	status, err = f.consolidator.RoundStatus(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, consolidation.StatusConsolidated, status)
}
