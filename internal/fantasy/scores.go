package fantasy

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ligafc/liga-engine/internal/league"
)

const (
	// rosterWorkers bounds concurrent roster fetches against the upstream.
	rosterWorkers = 5
	// fetchTimeout caps a single participant's roster fetch. Exceeding it is
	// a soft failure for that participant, never a process-wide abort.
	fetchTimeout = 15 * time.Second
)

// ScoreService turns live athlete scores and team rosters into
// per-participant raw scores.
type ScoreService struct {
	client Client
}

// NewScoreService creates a ScoreService on top of an upstream client.
func NewScoreService(client Client) *ScoreService {
	return &ScoreService{client: client}
}

var _ ScoreProvider = (*ScoreService)(nil)

// ParticipantScores computes each participant's raw score for a round: the
// sum of their rostered athletes' scores, with the captain counted double.
// Roster fetches run through a small worker pool; a participant whose fetch
// ultimately fails is returned with a zero score and the Absent flag set.
// The result preserves the input participant order.
func (s *ScoreService) ParticipantScores(ctx context.Context, round int, participants []league.Participant) ([]ParticipantScore, error) {
	athleteScores, err := s.client.GetLiveScores(ctx, round)
	if err != nil {
		// Without the athlete scores there is nothing to compute for anyone.
		return nil, err
	}

	results := make([]ParticipantScore, len(participants))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < rosterWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				p := participants[i]
				results[i] = s.scoreOne(ctx, round, p, athleteScores)
			}
		}()
	}

	for i := range participants {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results, nil
}

func (s *ScoreService) scoreOne(ctx context.Context, round int, p league.Participant, athleteScores map[int64]float64) ParticipantScore {
	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	roster, err := s.client.GetTeamRoster(fetchCtx, p.ID, round)
	if err != nil {
		log.Warn("Roster fetch failed, recording zero/absent score", "participantID", p.ID, "round", round, "error", err)
		return ParticipantScore{ParticipantID: p.ID, Absent: true}
	}

	var total float64
	for _, athleteID := range roster.AthleteIDs {
		score := athleteScores[athleteID]
		if athleteID == roster.CaptainID {
			score *= 2
		}
		total += score
	}
	return ParticipantScore{ParticipantID: p.ID, Score: total}
}

// ScoreMap indexes participant scores by id. Absent participants are kept at
// zero: the snapshot's Absent flag, not exclusion from the computation, is
// what distinguishes "zero because absent" from "zero because earned".
func ScoreMap(scores []ParticipantScore) map[league.ParticipantID]float64 {
	out := make(map[league.ParticipantID]float64, len(scores))
	for _, s := range scores {
		out[s.ParticipantID] = s.Score
	}
	return out
}
