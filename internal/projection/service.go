// Package projection serves live previews of the current round while its
// market is still open. Previews come from the same pipeline that later
// consolidates the round, so the preview and the eventual snapshot cannot
// drift apart. Nothing here is ever persisted.
package projection

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ligafc/liga-engine/internal/cache"
	"github.com/ligafc/liga-engine/internal/consolidation"
	"github.com/ligafc/liga-engine/internal/metrics"
)

// ErrUnavailable is the only error callers see when a preview cannot be
// computed. The underlying upstream failure is logged, not surfaced.
var ErrUnavailable = errors.New("live projection unavailable")

// DefaultTTL shields the upstream data source from repeated polling.
const DefaultTTL = 2 * time.Minute

// Engine computes a non-persisted preview for a round.
type Engine interface {
	Preview(ctx context.Context, round int) (*consolidation.Snapshot, error)
}

type cacheKey struct {
	leagueID string
	round    int
}

// Service caches previews per (league, round) with a short TTL.
type Service struct {
	leagueID string
	engine   Engine
	previews *cache.Memory[cacheKey, *consolidation.Snapshot]
	metrics  metrics.Metrics
}

// NewService creates a projection Service.
func NewService(leagueID string, engine Engine, ttl time.Duration, metricsSvc metrics.Metrics) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		leagueID: leagueID,
		engine:   engine,
		previews: cache.NewMemory[cacheKey, *consolidation.Snapshot](ttl),
		metrics:  metricsSvc,
	}
}

// Project returns the live preview for the round, serving a cached one
// when fresh enough.
func (s *Service) Project(ctx context.Context, round int) (*consolidation.Snapshot, error) {
	s.metrics.IncProjectionRequests()

	key := cacheKey{leagueID: s.leagueID, round: round}
	if snap, ok := s.previews.Get(key); ok {
		s.metrics.IncCacheHits()
		return snap, nil
	}
	s.metrics.IncCacheMisses()

	snap, err := s.engine.Preview(ctx, round)
	if err != nil {
		log.Error("Live projection failed", "leagueID", s.leagueID, "round", round, "error", err)
		return nil, ErrUnavailable
	}
	s.previews.Set(key, snap)
	return snap, nil
}

// Invalidate drops the cached preview for a round, used after a
// consolidation makes the preview moot.
func (s *Service) Invalidate(round int) {
	s.previews.Delete(cacheKey{leagueID: s.leagueID, round: round})
}
