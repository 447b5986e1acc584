package fantasy_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/ligafc/liga-engine/internal/fantasy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMarketStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mercado/status", r.URL.Path)
		fmt.Fprint(w, `{"rodada_atual": 12, "status_mercado": 1}`)
	}))
	defer server.Close()

	client := fantasy.NewClient(server.URL)
	status, err := client.GetMarketStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, status.CurrentRound)
	assert.True(t, status.Open)
}

func TestGetMarketStatusClosed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"rodada_atual": 13, "status_mercado": 2}`)
	}))
	defer server.Close()

	client := fantasy.NewClient(server.URL)
	status, err := client.GetMarketStatus(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Open)
}

func TestGetLiveScores(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/atletas/pontuados/7", r.URL.Path)
		fmt.Fprint(w, `{"atletas": {"101": {"pontuacao": 8.5}, "102": {"pontuacao": -1.2}}}`)
	}))
	defer server.Close()

	client := fantasy.NewClient(server.URL)
	scores, err := client.GetLiveScores(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 8.5, scores[101])
	assert.Equal(t, -1.2, scores[102])
}

func TestGetTeamRoster(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/time/id/1926323/7", r.URL.Path)
		fmt.Fprint(w, `{"atletas": [{"atleta_id": 101}, {"atleta_id": 102}], "capitao_id": 101}`)
	}))
	defer server.Close()

	client := fantasy.NewClient(server.URL)
	roster, err := client.GetTeamRoster(context.Background(), "1926323", 7)
	require.NoError(t, err)
	assert.Equal(t, []int64{101, 102}, roster.AthleteIDs)
	assert.Equal(t, int64(101), roster.CaptainID)
}

func TestClientRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"rodada_atual": 5, "status_mercado": 2}`)
	}))
	defer server.Close()

	client := fantasy.NewClient(server.URL)
	status, err := client.GetMarketStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, status.CurrentRound)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := fantasy.NewClient(server.URL)
	_, err := client.GetMarketStatus(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
