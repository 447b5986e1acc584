package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ligafc/liga-engine/internal/league"
)

// store handles database operations for cached ledger balances.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore creates a new cache Store.
func NewStore(db *sql.DB) Store {
	return &store{db: db}
}

func (s *store) Get(leagueID string, season int, participantID league.ParticipantID) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry := Entry{LeagueID: leagueID, Season: season, ParticipantID: participantID}
	var payload string
	err := s.db.QueryRow(`
		SELECT rounds_json, updated_at FROM ledger_cache
		WHERE league_id = ? AND season = ? AND participant_id = ?`,
		leagueID, season, string(participantID),
	).Scan(&payload, &entry.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(payload), &entry.Balance); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached balance: %w", err)
	}
	return &entry, nil
}

func (s *store) Put(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(entry.Balance)
	if err != nil {
		return fmt.Errorf("failed to marshal balance: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO ledger_cache (league_id, season, participant_id, balance, last_round, rounds_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(league_id, season, participant_id) DO UPDATE SET
			balance = excluded.balance,
			last_round = excluded.last_round,
			rounds_json = excluded.rounds_json,
			updated_at = excluded.updated_at`,
		entry.LeagueID, entry.Season, string(entry.ParticipantID),
		entry.Balance.Total, entry.Balance.LastRound, string(payload), entry.UpdatedAt,
	)
	return err
}

func (s *store) Delete(leagueID string, season int, participantID league.ParticipantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`DELETE FROM ledger_cache WHERE league_id = ? AND season = ? AND participant_id = ?`,
		leagueID, season, string(participantID),
	)
	return err
}

func (s *store) DeleteLeague(leagueID string, season int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`DELETE FROM ledger_cache WHERE league_id = ? AND season = ?`,
		leagueID, season,
	)
	return err
}
