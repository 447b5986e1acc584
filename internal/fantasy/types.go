package fantasy

import (
	"net/http"

	"github.com/ligafc/liga-engine/internal/league"
)

// MarketStatus is the upstream's current round and whether its scores can
// still change.
type MarketStatus struct {
	CurrentRound int  `json:"current_round"`
	Open         bool `json:"open"`
}

// Roster is a participant's lineup for one round.
type Roster struct {
	AthleteIDs []int64 `json:"athlete_ids"`
	CaptainID  int64   `json:"captain_id"`
}

// ParticipantScore is one participant's computed raw score for a round.
// Absent marks a score that defaulted to zero because the upstream fetch
// ultimately failed; it is carried into the snapshot so auditors can tell
// the two kinds of zero apart.
type ParticipantScore struct {
	ParticipantID league.ParticipantID `json:"participant_id"`
	Score         float64              `json:"score"`
	Absent        bool                 `json:"absent,omitempty"`
}

// APIClient is the HTTP client for the upstream fantasy data provider.
type APIClient struct {
	httpClient *http.Client
	BaseURL    string
}

// Wire types for the upstream endpoints.
type marketStatusResponse struct {
	CurrentRound int `json:"rodada_atual"`
	MarketStatus int `json:"status_mercado"`
}

type liveScoresResponse struct {
	Athletes map[string]struct {
		Score float64 `json:"pontuacao"`
	} `json:"atletas"`
}

type rosterResponse struct {
	Athletes []struct {
		AthleteID int64 `json:"atleta_id"`
	} `json:"atletas"`
	CaptainID int64 `json:"capitao_id"`
}

// Upstream market status codes.
const marketStatusOpen = 1
