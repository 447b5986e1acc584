package fantasy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ligafc/liga-engine/internal/league"
	"github.com/sethvargo/go-retry"
)

// NewClient creates a new upstream API client.
func NewClient(baseURL string) Client {
	return &APIClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    baseURL,
	}
}

// Ensure APIClient implements the Client interface.
var _ Client = (*APIClient)(nil)

// GetMarketStatus fetches the current round number and market state.
func (c *APIClient) GetMarketStatus(ctx context.Context) (MarketStatus, error) {
	var resp marketStatusResponse
	if err := c.getJSON(ctx, "/mercado/status", &resp); err != nil {
		return MarketStatus{}, fmt.Errorf("failed to fetch market status: %w", err)
	}
	return MarketStatus{
		CurrentRound: resp.CurrentRound,
		Open:         resp.MarketStatus == marketStatusOpen,
	}, nil
}

// GetLiveScores fetches the per-athlete scores for a round. An athlete with
// no entry has not scored yet.
func (c *APIClient) GetLiveScores(ctx context.Context, round int) (map[int64]float64, error) {
	var resp liveScoresResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/atletas/pontuados/%d", round), &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch live scores for round %d: %w", round, err)
	}

	scores := make(map[int64]float64, len(resp.Athletes))
	for rawID, athlete := range resp.Athletes {
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			log.Warn("Skipping athlete with non-numeric id", "id", rawID)
			continue
		}
		scores[id] = athlete.Score
	}
	return scores, nil
}

// GetTeamRoster fetches a participant's lineup for a round.
func (c *APIClient) GetTeamRoster(ctx context.Context, id league.ParticipantID, round int) (Roster, error) {
	var resp rosterResponse
	path := fmt.Sprintf("/time/id/%s/%d", string(id), round)
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return Roster{}, fmt.Errorf("failed to fetch roster for %s round %d: %w", id, round, err)
	}

	roster := Roster{CaptainID: resp.CaptainID}
	for _, a := range resp.Athletes {
		roster.AthleteIDs = append(roster.AthleteIDs, a.AthleteID)
	}
	return roster, nil
}

// getJSON performs a GET with retries and exponential backoff on transient
// failures. 4xx responses other than 429 are not retried.
func (c *APIClient) getJSON(ctx context.Context, path string, out any) error {
	backoff := retry.WithMaxRetries(3, retry.NewExponential(200*time.Millisecond))
	url := c.BaseURL + path

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "liga-engine/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			log.Debug("Upstream request failed, will retry", "url", url, "error", err)
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			err := fmt.Errorf("received non-OK HTTP status %d: %s", resp.StatusCode, string(body))
			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				log.Debug("Upstream returned retryable status", "url", url, "status", resp.StatusCode)
				return retry.RetryableError(err)
			}
			return err
		}

		return json.NewDecoder(resp.Body).Decode(out)
	})
}
