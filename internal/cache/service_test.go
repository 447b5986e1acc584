package cache_test

import (
	"testing"
	"time"

	"github.com/ligafc/liga-engine/internal/cache"
	"github.com/ligafc/liga-engine/internal/database"
	"github.com/ligafc/liga-engine/internal/ledger"
	"github.com/ligafc/liga-engine/internal/league"
	"github.com/ligafc/liga-engine/internal/metrics"
	"github.com/ligafc/liga-engine/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves canned balances and counts recomputations.
type fakeSource struct {
	balances map[league.ParticipantID]ledger.Balance
	computes int
}

func (f *fakeSource) ComputeBalance(id league.ParticipantID, cutoff int) (ledger.Balance, error) {
	f.computes++
	balance, ok := f.balances[id]
	if !ok {
		return ledger.Balance{}, ledger.ErrUnknownParticipant
	}
	return balance, nil
}

func (f *fakeSource) ComputeAllBalances(cutoff int) (map[league.ParticipantID]ledger.Balance, error) {
	f.computes++
	return f.balances, nil
}

func setupService(t *testing.T) (*cache.Service, cache.Store, *fakeSource, *metrics.MockMetrics, *pubsub.MockPubSubClient) {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	store := cache.NewStore(db)
	source := &fakeSource{balances: map[league.ParticipantID]ledger.Balance{
		"a": {ParticipantID: "a", Total: 42.5, LastRound: 3, RoundTotal: 42.5},
		"b": {ParticipantID: "b", Total: -7, LastRound: 3, RoundTotal: -7},
	}}
	metricsSvc := metrics.NewMock()
	pubsubClient := pubsub.NewMock("test-project")
	svc := cache.NewService(testLeague, testSeason, store, source, metricsSvc, pubsubClient)
	return svc, store, source, metricsSvc, pubsubClient
}

func TestGetBalanceLazyRecompute(t *testing.T) {
	svc, _, source, metricsSvc, _ := setupService(t)

	// First read misses and recomputes.
	balance, err := svc.GetBalance("a")
	require.NoError(t, err)
	assert.Equal(t, 42.5, balance.Total)
	assert.Equal(t, 1, source.computes)
	assert.Equal(t, 1, metricsSvc.CacheMisses)

	// Second read is served from the cache.
	balance, err = svc.GetBalance("a")
	require.NoError(t, err)
	assert.Equal(t, 42.5, balance.Total)
	assert.Equal(t, 1, source.computes)
	assert.Equal(t, 1, metricsSvc.CacheHits)
}

func TestCacheCoherence(t *testing.T) {
	svc, store, _, _, _ := setupService(t)

	first, err := svc.GetBalance("a")
	require.NoError(t, err)

	// Deleting the entry and reading again yields the direct recomputation.
	require.NoError(t, store.Delete(testLeague, testSeason, "a"))
	second, err := svc.GetBalance("a")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestInvalidateLeagueCascades(t *testing.T) {
	svc, store, source, metricsSvc, pubsubClient := setupService(t)

	_, err := svc.GetBalance("a")
	require.NoError(t, err)
	_, err = svc.GetBalance("b")
	require.NoError(t, err)

	// Upstream change: totals move, cache is wiped whole.
	source.balances["a"] = ledger.Balance{ParticipantID: "a", Total: 2.5, LastRound: 4}
	require.NoError(t, svc.InvalidateLeague(testLeague, testSeason))
	assert.Equal(t, 1, metricsSvc.CacheInvalidations)

	entry, err := store.Get(testLeague, testSeason, "a")
	require.NoError(t, err)
	assert.Nil(t, entry)

	balance, err := svc.GetBalance("a")
	require.NoError(t, err)
	assert.Equal(t, 2.5, balance.Total)

	require.Len(t, pubsubClient.SendMessageCalls, 1)
	assert.Equal(t, string(pubsub.EventCacheInvalidated), pubsubClient.SendMessageCalls[0].Topic)
}

func TestAuditDetectsDrift(t *testing.T) {
	svc, store, _, _, _ := setupService(t)

	_, err := svc.GetBalance("a")
	require.NoError(t, err)

	// Clean audit first.
	balance, drifted, err := svc.Audit("a")
	require.NoError(t, err)
	assert.False(t, drifted)
	assert.Equal(t, 42.5, balance.Total)

	// A stale entry written behind the aggregator's back is drift.
	require.NoError(t, store.Put(cache.Entry{
		LeagueID: testLeague, Season: testSeason, ParticipantID: "a",
		Balance:   ledger.Balance{ParticipantID: "a", Total: 999, LastRound: 3},
		UpdatedAt: time.Now().Unix(),
	}))
	balance, drifted, err = svc.Audit("a")
	require.NoError(t, err)
	assert.True(t, drifted)
	// The recomputation wins, never the stale cache.
	assert.Equal(t, 42.5, balance.Total)

	entry, err := store.Get(testLeague, testSeason, "a")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 42.5, entry.Balance.Total)
}

func TestGetAllBalancesRefillsCache(t *testing.T) {
	svc, store, _, _, _ := setupService(t)

	balances, err := svc.GetAllBalances()
	require.NoError(t, err)
	assert.Len(t, balances, 2)

	entry, err := store.Get(testLeague, testSeason, "b")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, -7.0, entry.Balance.Total)
}
