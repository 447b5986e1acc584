package cache

import (
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ligafc/liga-engine/internal/ledger"
	"github.com/ligafc/liga-engine/internal/league"
	"github.com/ligafc/liga-engine/internal/metrics"
	"github.com/ligafc/liga-engine/internal/pubsub"
)

// driftTolerance absorbs float accumulation noise when comparing a cached
// total against its recomputation.
const driftTolerance = 1e-9

// BalanceSource recomputes balances from the sources of truth.
type BalanceSource interface {
	ComputeBalance(participantID league.ParticipantID, cutoff int) (ledger.Balance, error)
	ComputeAllBalances(cutoff int) (map[league.ParticipantID]ledger.Balance, error)
}

// Service is the read path for ledger balances. Reads hit the cache;
// misses recompute through the aggregator and re-persist. Writes never
// patch a cached value in place: any upstream change invalidates and the
// next read rebuilds.
type Service struct {
	leagueID string
	season   int
	store    Store
	source   BalanceSource
	metrics  metrics.Metrics
	pubsub   pubsub.PubSubClient
}

// NewService creates a cache Service.
func NewService(leagueID string, season int, store Store, source BalanceSource, metricsSvc metrics.Metrics, pubsubClient pubsub.PubSubClient) *Service {
	return &Service{
		leagueID: leagueID,
		season:   season,
		store:    store,
		source:   source,
		metrics:  metricsSvc,
		pubsub:   pubsubClient,
	}
}

// GetBalance returns the participant's cumulative balance, lazily
// recomputing on a miss. Redundant concurrent recomputes for the same key
// are harmless: they derive the same value and upsert it.
func (s *Service) GetBalance(participantID league.ParticipantID) (ledger.Balance, error) {
	entry, err := s.store.Get(s.leagueID, s.season, participantID)
	if err != nil {
		return ledger.Balance{}, err
	}
	if entry != nil {
		s.metrics.IncCacheHits()
		return entry.Balance, nil
	}

	s.metrics.IncCacheMisses()
	return s.recompute(participantID)
}

// GetAllBalances returns every participant's balance, recomputing and
// refilling any missing entries in one aggregator pass.
func (s *Service) GetAllBalances() (map[league.ParticipantID]ledger.Balance, error) {
	balances, err := s.source.ComputeAllBalances(0)
	if err != nil {
		return nil, err
	}
	for _, balance := range balances {
		if err := s.put(balance); err != nil {
			return nil, err
		}
	}
	return balances, nil
}

// Audit recomputes the participant's balance and compares it with the
// cached entry. A disagreement is an auditable inconsistency: it is
// logged, the stale entry is discarded and the recomputed value wins.
// The recomputed balance is returned either way.
func (s *Service) Audit(participantID league.ParticipantID) (ledger.Balance, bool, error) {
	entry, err := s.store.Get(s.leagueID, s.season, participantID)
	if err != nil {
		return ledger.Balance{}, false, err
	}
	fresh, err := s.source.ComputeBalance(participantID, 0)
	if err != nil {
		return ledger.Balance{}, false, err
	}
	if entry == nil {
		return fresh, false, s.put(fresh)
	}

	drifted := math.Abs(entry.Balance.Total-fresh.Total) > driftTolerance ||
		entry.Balance.LastRound != fresh.LastRound
	if drifted {
		log.Error("Ledger cache drift detected",
			"leagueID", s.leagueID,
			"participantID", participantID,
			"cachedTotal", entry.Balance.Total,
			"recomputedTotal", fresh.Total,
			"cachedLastRound", entry.Balance.LastRound,
			"recomputedLastRound", fresh.LastRound,
		)
		if err := s.store.Delete(s.leagueID, s.season, participantID); err != nil {
			return ledger.Balance{}, true, err
		}
		if err := s.put(fresh); err != nil {
			return ledger.Balance{}, true, err
		}
	}
	return fresh, drifted, nil
}

// InvalidateParticipant drops one cached entry.
func (s *Service) InvalidateParticipant(participantID league.ParticipantID) error {
	s.metrics.IncCacheInvalidations()
	return s.store.Delete(s.leagueID, s.season, participantID)
}

// InvalidateLeague drops every cached entry for the league season. Called
// whenever any upstream input changes: a consolidation, a correction, an
// adjustment or settlement edit.
func (s *Service) InvalidateLeague(leagueID string, season int) error {
	s.metrics.IncCacheInvalidations()
	if err := s.store.DeleteLeague(leagueID, season); err != nil {
		return err
	}
	err := s.pubsub.SendMessage(pubsub.EventCacheInvalidated, pubsub.CacheInvalidatedPayload{
		LeagueID: leagueID,
		Season:   season,
	})
	if err != nil {
		log.Error("Failed to publish cache invalidation event", "leagueID", leagueID, "error", err)
	}
	log.Info("Ledger cache invalidated", "leagueID", leagueID, "season", season)
	return nil
}

func (s *Service) recompute(participantID league.ParticipantID) (ledger.Balance, error) {
	balance, err := s.source.ComputeBalance(participantID, 0)
	if err != nil {
		return ledger.Balance{}, err
	}
	if err := s.put(balance); err != nil {
		return ledger.Balance{}, err
	}
	return balance, nil
}

func (s *Service) put(balance ledger.Balance) error {
	return s.store.Put(Entry{
		LeagueID:      s.leagueID,
		Season:        s.season,
		ParticipantID: balance.ParticipantID,
		Balance:       balance,
		UpdatedAt:     time.Now().Unix(),
	})
}
