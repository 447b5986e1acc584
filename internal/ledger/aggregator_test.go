package ledger_test

import (
	"testing"

	"github.com/ligafc/liga-engine/internal/consolidation"
	"github.com/ligafc/liga-engine/internal/ledger"
	"github.com/ligafc/liga-engine/internal/league"
	"github.com/ligafc/liga-engine/internal/modules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAggregator(t *testing.T) (*ledger.Aggregator, *consolidation.MockSnapshotStore, *ledger.MockEventStore) {
	t.Helper()
	participants := league.NewMock()
	participants.GetParticipantsFunc = func(string, int) ([]league.Participant, error) {
		return []league.Participant{
			{ID: "a", Name: "Time A", Active: true},
			{ID: "b", Name: "Time B", Active: true},
		}, nil
	}
	snapshots := consolidation.NewMockSnapshotStore()
	events := ledger.NewMockEventStore()
	return ledger.NewAggregator(testLeague, testSeason, participants, snapshots, events), snapshots, events
}

func seedRound(snapshots *consolidation.MockSnapshotStore, round int, deltas map[league.ParticipantID]float64) {
	snap := &consolidation.Snapshot{
		ID: "snap", LeagueID: testLeague, Season: testSeason, Round: round,
		Status: consolidation.StatusConsolidated,
	}
	for id, amount := range deltas {
		snap.Deltas = append(snap.Deltas, modules.Delta{
			ParticipantID: id, Module: modules.KindPosition, Amount: amount,
		})
	}
	snapshots.Seed(snap)
}

func TestComputeBalanceFoldsRoundsInOrder(t *testing.T) {
	agg, snapshots, _ := newAggregator(t)
	seedRound(snapshots, 1, map[league.ParticipantID]float64{"a": 10, "b": -10})
	seedRound(snapshots, 2, map[league.ParticipantID]float64{"a": 15, "b": -3})
	seedRound(snapshots, 3, map[league.ParticipantID]float64{"a": 15, "b": 7})

	balance, err := agg.ComputeBalance("a", 0)
	require.NoError(t, err)
	assert.Equal(t, 40.0, balance.Total)
	assert.Equal(t, 3, balance.LastRound)
	require.Len(t, balance.Rounds, 3)
	assert.Equal(t, ledger.RoundDelta{Round: 2, Amount: 15}, balance.Rounds[1])

	// Cutoff limits the fold to earlier rounds.
	partial, err := agg.ComputeBalance("a", 2)
	require.NoError(t, err)
	assert.Equal(t, 25.0, partial.Total)
	assert.Equal(t, 2, partial.LastRound)
}

func TestComputeBalanceSettlementSignConvention(t *testing.T) {
	agg, snapshots, events := newAggregator(t)
	seedRound(snapshots, 1, map[league.ParticipantID]float64{"a": 25})
	seedRound(snapshots, 2, map[league.ParticipantID]float64{"a": 15})

	// A participant who earned net +40 then paid 100 ends at -60.
	require.NoError(t, events.AddSettlement(ledger.Settlement{
		ID: "s1", LeagueID: testLeague, Season: testSeason,
		ParticipantID: "a", Type: ledger.SettlementPayment, Amount: 100,
	}))

	balance, err := agg.ComputeBalance("a", 0)
	require.NoError(t, err)
	assert.Equal(t, 40.0, balance.RoundTotal)
	assert.Equal(t, -100.0, balance.SettlementTotal)
	assert.Equal(t, -60.0, balance.Total)

	// A receipt of the same amount moves the balance back up.
	require.NoError(t, events.AddSettlement(ledger.Settlement{
		ID: "s2", LeagueID: testLeague, Season: testSeason,
		ParticipantID: "a", Type: ledger.SettlementReceipt, Amount: 100,
	}))
	balance, err = agg.ComputeBalance("a", 0)
	require.NoError(t, err)
	assert.Equal(t, 40.0, balance.Total)
}

func TestComputeBalanceLedgerIdentity(t *testing.T) {
	agg, snapshots, events := newAggregator(t)
	seedRound(snapshots, 1, map[league.ParticipantID]float64{"a": 12.5, "b": -12.5})
	seedRound(snapshots, 2, map[league.ParticipantID]float64{"a": -4, "b": 9})

	require.NoError(t, events.AddAdjustment(ledger.Adjustment{
		ID: "adj1", LeagueID: testLeague, Season: testSeason,
		ParticipantID: "a", Label: "Multa", Amount: -20,
	}))
	require.NoError(t, events.AddSettlement(ledger.Settlement{
		ID: "s1", LeagueID: testLeague, Season: testSeason,
		ParticipantID: "a", Type: ledger.SettlementReceipt, Amount: 30,
	}))

	balance, err := agg.ComputeBalance("a", 0)
	require.NoError(t, err)
	assert.Equal(t, balance.RoundTotal+balance.AdjustmentTotal+balance.SettlementTotal, balance.Total)
	assert.Equal(t, 18.5, balance.Total)

	// Identity holds after a correction rewrites round 2.
	snapshots.Replace(&consolidation.Snapshot{
		ID: "snap-corrected", LeagueID: testLeague, Season: testSeason, Round: 2,
		Status: consolidation.StatusConsolidated, Forced: true,
		Deltas: []modules.Delta{{ParticipantID: "a", Module: modules.KindPosition, Amount: 6}},
	})
	balance, err = agg.ComputeBalance("a", 0)
	require.NoError(t, err)
	assert.Equal(t, 28.5, balance.Total)
	assert.True(t, balance.Rounds[1].Forced)
}

func TestComputeBalanceUnknownParticipant(t *testing.T) {
	agg, _, _ := newAggregator(t)
	_, err := agg.ComputeBalance("zz", 0)
	assert.ErrorIs(t, err, ledger.ErrUnknownParticipant)
}

func TestComputeBalanceNoConsolidatedRounds(t *testing.T) {
	agg, _, _ := newAggregator(t)
	balance, err := agg.ComputeBalance("a", 0)
	require.NoError(t, err)
	assert.Zero(t, balance.Total)
	assert.Zero(t, balance.LastRound)
	assert.Empty(t, balance.Rounds)
}

func TestStatementRunningTotals(t *testing.T) {
	agg, snapshots, events := newAggregator(t)
	seedRound(snapshots, 1, map[league.ParticipantID]float64{"a": 10})
	seedRound(snapshots, 2, map[league.ParticipantID]float64{"a": -3})
	require.NoError(t, events.AddAdjustment(ledger.Adjustment{
		ID: "adj1", LeagueID: testLeague, Season: testSeason,
		ParticipantID: "a", Label: "Bônus", Amount: 5,
	}))
	require.NoError(t, events.AddSettlement(ledger.Settlement{
		ID: "s1", LeagueID: testLeague, Season: testSeason,
		ParticipantID: "a", Type: ledger.SettlementPayment, Amount: 20,
	}))

	statement, err := agg.Statement("a")
	require.NoError(t, err)
	require.Len(t, statement.Entries, 4)

	assert.Equal(t, ledger.EntryRound, statement.Entries[0].Kind)
	assert.Equal(t, 10.0, statement.Entries[0].Running)
	assert.Equal(t, 7.0, statement.Entries[1].Running)
	assert.Equal(t, ledger.EntryAdjustment, statement.Entries[2].Kind)
	assert.Equal(t, 12.0, statement.Entries[2].Running)
	assert.Equal(t, ledger.EntrySettlement, statement.Entries[3].Kind)
	assert.Equal(t, -8.0, statement.Entries[3].Running)
	assert.Equal(t, -8.0, statement.Total)

	// The statement total always reconciles with the computed balance.
	balance, err := agg.ComputeBalance("a", 0)
	require.NoError(t, err)
	assert.Equal(t, balance.Total, statement.Total)
}

func TestSeasonSummaryOrdering(t *testing.T) {
	agg, snapshots, events := newAggregator(t)
	seedRound(snapshots, 1, map[league.ParticipantID]float64{"a": 10, "b": 10})
	require.NoError(t, events.AddSettlement(ledger.Settlement{
		ID: "s1", LeagueID: testLeague, Season: testSeason,
		ParticipantID: "b", Type: ledger.SettlementPayment, Amount: 5,
	}))

	summary, err := agg.SeasonSummary()
	require.NoError(t, err)
	assert.Equal(t, 1, summary.LastRound)
	require.Len(t, summary.Rows, 2)

	assert.Equal(t, league.ParticipantID("a"), summary.Rows[0].ParticipantID)
	assert.Equal(t, 1, summary.Rows[0].Position)
	assert.Equal(t, "Time A", summary.Rows[0].Name)
	assert.Equal(t, league.ParticipantID("b"), summary.Rows[1].ParticipantID)
	assert.Equal(t, 5.0, summary.Rows[1].Balance)
	assert.Equal(t, -5.0, summary.Rows[1].Settled)
}
