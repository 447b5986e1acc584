package modules

import (
	"fmt"
	"math"
	"sort"

	"github.com/ligafc/liga-engine/internal/league"
	"github.com/ligafc/liga-engine/internal/schedule"
)

// Outcome classifies a mini-league fixture.
type Outcome string

const (
	OutcomeDraw    Outcome = "draw"
	OutcomeWin     Outcome = "win"
	OutcomeBlowout Outcome = "blowout"
)

// FixtureResult is the decided result of one mini-league fixture.
type FixtureResult struct {
	Home       league.ParticipantID `json:"home"`
	Away       league.ParticipantID `json:"away"`
	HomeScore  float64              `json:"home_score"`
	AwayScore  float64              `json:"away_score"`
	Outcome    Outcome              `json:"outcome"`
	Winner     league.ParticipantID `json:"winner,omitempty"`
	HomePoints int                  `json:"home_points"`
	AwayPoints int                  `json:"away_points"`
}

// Standing is a participant's cumulative mini-league table row.
type Standing struct {
	ParticipantID league.ParticipantID `json:"participant_id"`
	Position      int                  `json:"position"`
	Played        int                  `json:"played"`
	Points        int                  `json:"points"`
	Wins          int                  `json:"wins"`
	Draws         int                  `json:"draws"`
	Losses        int                  `json:"losses"`
	Differential  float64              `json:"differential"`
}

// CalculateMiniLeague resolves each fixture of a round against the raw
// scores. A score difference within the draw tolerance is a draw, at or
// beyond the blowout margin a blowout, anything between a plain win/loss.
// A bye, or a fixture with a missing score, produces no result and no delta.
func CalculateMiniLeague(pairings []schedule.Pairing, scores map[league.ParticipantID]float64, cfg MiniLeagueConfig) ([]FixtureResult, []Delta) {
	if !cfg.Enabled {
		return nil, nil
	}

	var results []FixtureResult
	var deltas []Delta
	for _, p := range pairings {
		homeScore, homeOK := scores[p.Home]
		awayScore, awayOK := scores[p.Away]
		if !homeOK || !awayOK {
			continue
		}

		r := resolveFixture(p, homeScore, awayScore, cfg)
		results = append(results, r)

		homeAmount, awayAmount := fixturePayouts(r, cfg)
		deltas = append(deltas,
			Delta{
				ParticipantID: p.Home,
				Module:        KindMiniLeague,
				Amount:        homeAmount,
				Description:   fmt.Sprintf("Pontos corridos: %s x %s", p.Home, p.Away),
			},
			Delta{
				ParticipantID: p.Away,
				Module:        KindMiniLeague,
				Amount:        awayAmount,
				Description:   fmt.Sprintf("Pontos corridos: %s x %s", p.Home, p.Away),
			},
		)
	}
	return results, deltas
}

func resolveFixture(p schedule.Pairing, homeScore, awayScore float64, cfg MiniLeagueConfig) FixtureResult {
	r := FixtureResult{
		Home:      p.Home,
		Away:      p.Away,
		HomeScore: homeScore,
		AwayScore: awayScore,
	}

	diff := math.Abs(homeScore - awayScore)
	if diff <= cfg.DrawTolerance {
		r.Outcome = OutcomeDraw
		r.HomePoints, r.AwayPoints = 1, 1
		return r
	}

	r.Outcome = OutcomeWin
	if diff >= cfg.BlowoutMargin {
		r.Outcome = OutcomeBlowout
	}
	if homeScore > awayScore {
		r.Winner = p.Home
		r.HomePoints, r.AwayPoints = 3, 0
	} else {
		r.Winner = p.Away
		r.HomePoints, r.AwayPoints = 0, 3
	}
	return r
}

func fixturePayouts(r FixtureResult, cfg MiniLeagueConfig) (home, away float64) {
	switch r.Outcome {
	case OutcomeDraw:
		return cfg.DrawPayout, cfg.DrawPayout
	case OutcomeBlowout:
		if r.Winner == r.Home {
			return cfg.BlowoutPayout, -cfg.BlowoutPayout
		}
		return -cfg.BlowoutPayout, cfg.BlowoutPayout
	default:
		if r.Winner == r.Home {
			return cfg.WinPayout, -cfg.WinPayout
		}
		return -cfg.WinPayout, cfg.WinPayout
	}
}

// AccumulateStandings folds fixture results from every played round into the
// cumulative mini-league table, sorted by points, then score differential,
// then win count. The sort is stable so fully tied rows keep canonical order.
func AccumulateStandings(resultsByRound [][]FixtureResult) []Standing {
	byID := map[league.ParticipantID]*Standing{}
	var order []league.ParticipantID

	get := func(id league.ParticipantID) *Standing {
		if s, ok := byID[id]; ok {
			return s
		}
		s := &Standing{ParticipantID: id}
		byID[id] = s
		order = append(order, id)
		return s
	}

	for _, results := range resultsByRound {
		for _, r := range results {
			home, away := get(r.Home), get(r.Away)
			home.Played++
			away.Played++
			home.Points += r.HomePoints
			away.Points += r.AwayPoints
			home.Differential += r.HomeScore - r.AwayScore
			away.Differential += r.AwayScore - r.HomeScore
			switch {
			case r.Outcome == OutcomeDraw:
				home.Draws++
				away.Draws++
			case r.Winner == r.Home:
				home.Wins++
				away.Losses++
			default:
				away.Wins++
				home.Losses++
			}
		}
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	standings := make([]Standing, 0, len(order))
	for _, id := range order {
		standings = append(standings, *byID[id])
	}
	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Differential != b.Differential {
			return a.Differential > b.Differential
		}
		return a.Wins > b.Wins
	})
	for i := range standings {
		standings[i].Position = i + 1
	}
	return standings
}
