package consolidation

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/ligafc/liga-engine/internal/fantasy"
	"github.com/ligafc/liga-engine/internal/league"
	"github.com/ligafc/liga-engine/internal/metrics"
	"github.com/ligafc/liga-engine/internal/modules"
	"github.com/ligafc/liga-engine/internal/pubsub"
	"github.com/ligafc/liga-engine/internal/ranking"
	"github.com/ligafc/liga-engine/internal/schedule"
)

// Consolidator freezes closed rounds into immutable snapshots. It owns the
// open -> closing -> consolidated transition and nothing depends on it.
type Consolidator struct {
	leagueID     string
	season       int
	cfg          modules.Config
	participants league.Store
	fixtures     schedule.FixtureStore
	snapshots    SnapshotStore
	scores       fantasy.ScoreProvider
	upstream     fantasy.Client
	invalidator  Invalidator
	metrics      metrics.Metrics
	pubsub       pubsub.PubSubClient
}

// New creates a Consolidator.
func New(
	leagueID string,
	season int,
	cfg modules.Config,
	participants league.Store,
	fixtures schedule.FixtureStore,
	snapshots SnapshotStore,
	scores fantasy.ScoreProvider,
	upstream fantasy.Client,
	invalidator Invalidator,
	metricsSvc metrics.Metrics,
	pubsubClient pubsub.PubSubClient,
) *Consolidator {
	return &Consolidator{
		leagueID:     leagueID,
		season:       season,
		cfg:          cfg,
		participants: participants,
		fixtures:     fixtures,
		snapshots:    snapshots,
		scores:       scores,
		upstream:     upstream,
		invalidator:  invalidator,
		metrics:      metricsSvc,
		pubsub:       pubsubClient,
	}
}

// RoundStatus reports where a round sits in its lifecycle.
func (c *Consolidator) RoundStatus(ctx context.Context, round int) (RoundStatus, error) {
	snap, err := c.snapshots.Get(c.leagueID, c.season, round)
	if err != nil {
		return "", err
	}
	if snap != nil {
		return StatusConsolidated, nil
	}
	status, err := c.upstream.GetMarketStatus(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to determine round status: %w", err)
	}
	if round < status.CurrentRound || (round == status.CurrentRound && !status.Open) {
		return StatusClosing, nil
	}
	return StatusOpen, nil
}

// ConsolidateRound runs the full pipeline for one closed round: schedule
// lookup, ranking, all module calculators, snapshot assembly, conditional
// persist. Consolidating an already-consolidated round without force is a
// no-op returning the stored snapshot. Forcing replaces the snapshot
// atomically and cascade-invalidates the ledger cache for the league.
func (c *Consolidator) ConsolidateRound(ctx context.Context, round int, opts Options) (*Snapshot, error) {
	start := time.Now()
	c.metrics.IncConsolidationRuns()
	snap, err := c.consolidateRound(ctx, round, opts)
	if err != nil {
		c.metrics.IncConsolidationFailures()
		return nil, err
	}
	c.metrics.ObserveConsolidationDuration(time.Since(start).Seconds())
	return snap, nil
}

func (c *Consolidator) consolidateRound(ctx context.Context, round int, opts Options) (*Snapshot, error) {
	if round < 1 {
		return nil, fmt.Errorf("invalid round %d", round)
	}
	// Invalid configuration fails fast, before any read or write.
	if err := c.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid module configuration: %w", err)
	}

	log.Info("Starting round consolidation", "leagueID", c.leagueID, "round", round, "force", opts.Force)

	existing, err := c.snapshots.Get(c.leagueID, c.season, round)
	if err != nil {
		return nil, err
	}
	if existing != nil && !opts.Force {
		// Duplicate attempt: a no-op success, not an error.
		log.Info("Round already consolidated, skipping", "leagueID", c.leagueID, "round", round)
		return existing, nil
	}

	var prior *Snapshot
	if round > 1 {
		prior, err = c.snapshots.Get(c.leagueID, c.season, round-1)
		if err != nil {
			return nil, err
		}
		if prior == nil {
			return nil, fmt.Errorf("cannot consolidate round %d: %w", round, ErrMissingPriorRound)
		}
	}

	status, err := c.upstream.GetMarketStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch market status: %w", err)
	}
	if round > status.CurrentRound || (round == status.CurrentRound && status.Open) {
		return nil, fmt.Errorf("round %d: %w", round, ErrRoundStillOpen)
	}

	participants, err := c.participants.GetActiveParticipants(c.leagueID, c.season)
	if err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}

	scores, err := c.scores.ParticipantScores(ctx, round, participants)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scores for round %d: %w", round, err)
	}
	for i := range scores {
		if scores[i].Absent {
			c.metrics.IncUpstreamFetchFailures()
		}
		if override, ok := opts.ScoreOverrides[scores[i].ParticipantID]; ok {
			scores[i].Score = override
			scores[i].Absent = false
		}
	}

	snap, err := c.buildSnapshot(round, scores, prior, opts.Force)
	if err != nil {
		return nil, err
	}

	if opts.Force && existing != nil {
		if err := c.snapshots.Replace(snap); err != nil {
			return nil, err
		}
		// Every derived ledger entry for this league season is now stale.
		if err := c.invalidator.InvalidateLeague(c.leagueID, c.season); err != nil {
			return nil, fmt.Errorf("snapshot replaced but cache invalidation failed: %w", err)
		}
		c.publish(pubsub.EventRoundCorrected, round, true)
		log.Info("Round re-consolidated", "leagueID", c.leagueID, "round", round)
		return snap, nil
	}

	inserted, err := c.snapshots.InsertIfAbsent(snap)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// Lost the race to a concurrent trigger: observe and exit cleanly.
		log.Info("Concurrent consolidation won the race", "leagueID", c.leagueID, "round", round)
		return c.snapshots.Get(c.leagueID, c.season, round)
	}

	if err := c.invalidator.InvalidateLeague(c.leagueID, c.season); err != nil {
		log.Error("Failed to invalidate ledger cache after consolidation", "error", err, "round", round)
	}
	c.publish(pubsub.EventRoundConsolidated, round, false)
	log.Info("Round consolidated", "leagueID", c.leagueID, "round", round, "participants", len(participants))
	return snap, nil
}

// Preview runs the exact consolidation pipeline against the latest live
// scores and returns the result without persisting anything. The output is
// advisory: it is marked open and must never reach the snapshot store or
// the ledger cache.
func (c *Consolidator) Preview(ctx context.Context, round int) (*Snapshot, error) {
	if round < 1 {
		return nil, fmt.Errorf("invalid round %d", round)
	}
	if err := c.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid module configuration: %w", err)
	}

	var prior *Snapshot
	if round > 1 {
		var err error
		prior, err = c.snapshots.Get(c.leagueID, c.season, round-1)
		if err != nil {
			return nil, err
		}
	}

	participants, err := c.participants.GetActiveParticipants(c.leagueID, c.season)
	if err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}

	scores, err := c.scores.ParticipantScores(ctx, round, participants)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch live scores for round %d: %w", round, err)
	}

	snap, err := c.buildSnapshot(round, scores, prior, false)
	if err != nil {
		return nil, err
	}
	snap.Status = StatusOpen
	return snap, nil
}

func (c *Consolidator) buildSnapshot(round int, scores []fantasy.ParticipantScore, prior *Snapshot, forced bool) (*Snapshot, error) {
	scoreMap := fantasy.ScoreMap(scores)

	rankScores := make([]ranking.Score, len(scores))
	for i, s := range scores {
		rankScores[i] = ranking.Score{ParticipantID: s.ParticipantID, Points: s.Score, Absent: s.Absent}
	}
	roundRanking := ranking.RoundRanking(rankScores)

	totals, cumulative := c.accumulate(roundRanking, prior)

	snap := &Snapshot{
		ID:             uuid.New().String(),
		LeagueID:       c.leagueID,
		Season:         c.season,
		Round:          round,
		Status:         StatusConsolidated,
		SchemaVersion:  SchemaVersion,
		ConsolidatedAt: time.Now().Unix(),
		Forced:         forced,
		Scores:         scores,
		Ranking:        roundRanking,
		Cumulative:     cumulative,
		Totals:         totals,
	}

	var deltas []modules.Delta
	deltas = append(deltas, modules.CalculatePosition(roundRanking, round, c.cfg.Position)...)

	miniLeague, miniDeltas, err := c.runMiniLeague(round, scoreMap, prior)
	if err != nil {
		return nil, err
	}
	snap.MiniLeague = miniLeague
	deltas = append(deltas, miniDeltas...)

	bracket, knockoutDeltas := c.runKnockout(round, scoreMap, cumulative, prior)
	snap.Knockout = bracket
	deltas = append(deltas, knockoutDeltas...)

	deltas = append(deltas, modules.CalculateExtremes(scoreMap, c.cfg.Extremes)...)

	snap.Deltas = deltas
	return snap, nil
}

// accumulate folds this round's ranking into the season-to-date totals. The
// secondary tie-break metric is the number of round wins.
func (c *Consolidator) accumulate(roundRanking []ranking.Entry, prior *Snapshot) ([]ranking.CumulativeScore, []ranking.Entry) {
	prevTotals := map[league.ParticipantID]ranking.CumulativeScore{}
	var priorPositions map[league.ParticipantID]int
	if prior != nil {
		for _, t := range prior.Totals {
			prevTotals[t.ParticipantID] = t
		}
		priorPositions = ranking.Positions(prior.Cumulative)
	}

	totals := make([]ranking.CumulativeScore, 0, len(roundRanking))
	for _, e := range roundRanking {
		t := prevTotals[e.ParticipantID]
		t.ParticipantID = e.ParticipantID
		t.Total += e.Points
		if e.Position == 1 {
			t.Secondary++
		}
		totals = append(totals, t)
	}
	return totals, ranking.CumulativeRanking(totals, priorPositions)
}

func (c *Consolidator) runMiniLeague(round int, scoreMap map[league.ParticipantID]float64, prior *Snapshot) (MiniLeagueSection, []modules.Delta, error) {
	if !c.cfg.MiniLeague.Enabled || round < c.cfg.MiniLeague.StartRound {
		return MiniLeagueSection{}, nil, nil
	}

	// The schedule is indexed from the mini-league's start round.
	fixtureRound := round - c.cfg.MiniLeague.StartRound + 1
	fixtures, err := c.fixtures.GetRound(c.leagueID, c.season, fixtureRound)
	if err != nil {
		return MiniLeagueSection{}, nil, err
	}
	if fixtures == nil {
		// Season outlived the round-robin cycle.
		return MiniLeagueSection{}, nil, nil
	}

	results, deltas := modules.CalculateMiniLeague(fixtures.Pairings, scoreMap, c.cfg.MiniLeague)

	var history [][]modules.FixtureResult
	if prior != nil {
		priorSnaps, err := c.snapshots.ListUpTo(c.leagueID, c.season, prior.Round)
		if err != nil {
			return MiniLeagueSection{}, nil, err
		}
		for _, s := range priorSnaps {
			if len(s.MiniLeague.Results) > 0 {
				history = append(history, s.MiniLeague.Results)
			}
		}
	}
	history = append(history, results)

	return MiniLeagueSection{
		Round:     fixtureRound,
		Bye:       fixtures.Bye,
		Results:   results,
		Standings: modules.AccumulateStandings(history),
	}, deltas, nil
}

func (c *Consolidator) runKnockout(round int, scoreMap map[league.ParticipantID]float64, cumulative []ranking.Entry, prior *Snapshot) (*modules.Bracket, []modules.Delta) {
	if !c.cfg.Knockout.Enabled || round < c.cfg.Knockout.StartRound {
		return nil, nil
	}

	var bracket modules.Bracket
	if prior != nil && prior.Knockout != nil {
		bracket = *prior.Knockout
	} else {
		// Seed from the cumulative standings going into the start round,
		// independent of the round-robin schedule.
		seeds := make([]league.ParticipantID, 0, len(cumulative))
		for _, e := range cumulative {
			seeds = append(seeds, e.ParticipantID)
		}
		bracket = modules.NewBracket(seeds)
	}

	advanced, deltas := modules.AdvanceBracket(bracket, scoreMap, c.cfg.Knockout)
	return &advanced, deltas
}

func (c *Consolidator) publish(event pubsub.EventType, round int, forced bool) {
	err := c.pubsub.SendMessage(event, pubsub.RoundConsolidatedPayload{
		LeagueID: c.leagueID,
		Season:   c.season,
		Round:    round,
		Forced:   forced,
	})
	if err != nil {
		log.Error("Failed to publish consolidation event", "event", event, "round", round, "error", err)
	}
}
