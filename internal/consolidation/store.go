package consolidation

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// store handles database operations for snapshots.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore creates a new SnapshotStore.
func NewStore(db *sql.DB) SnapshotStore {
	return &store{db: db}
}

func (s *store) InsertIfAbsent(snap *Snapshot) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(snap)
	if err != nil {
		return false, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	// ON CONFLICT DO NOTHING makes the insert a conditional atomic write:
	// the loser of a concurrent consolidation race sees zero rows affected.
	res, err := s.db.Exec(`
		INSERT INTO snapshots (id, league_id, season, round, status, schema_version, consolidated_at, payload_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(league_id, season, round) DO NOTHING`,
		snap.ID, snap.LeagueID, snap.Season, snap.Round, string(snap.Status), snap.SchemaVersion, snap.ConsolidatedAt, string(payload),
	)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *store) Replace(snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		`DELETE FROM snapshots WHERE league_id = ? AND season = ? AND round = ?`,
		snap.LeagueID, snap.Season, snap.Round,
	); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec(`
		INSERT INTO snapshots (id, league_id, season, round, status, schema_version, consolidated_at, payload_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.LeagueID, snap.Season, snap.Round, string(snap.Status), snap.SchemaVersion, snap.ConsolidatedAt, string(payload),
	); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info("Snapshot replaced", "leagueID", snap.LeagueID, "round", snap.Round)
	return nil
}

func (s *store) Get(leagueID string, season int, round int) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload string
	err := s.db.QueryRow(
		`SELECT payload_json FROM snapshots WHERE league_id = ? AND season = ? AND round = ?`,
		leagueID, season, round,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return unmarshalSnapshot(payload)
}

func (s *store) ListUpTo(leagueID string, season int, maxRound int) ([]*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT payload_json FROM snapshots
		WHERE league_id = ? AND season = ? AND round <= ?
		ORDER BY round`,
		leagueID, season, maxRound,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []*Snapshot
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		snap, err := unmarshalSnapshot(payload)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

func (s *store) LatestRound(leagueID string, season int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest sql.NullInt64
	err := s.db.QueryRow(
		`SELECT MAX(round) FROM snapshots WHERE league_id = ? AND season = ?`,
		leagueID, season,
	).Scan(&latest)
	if err != nil {
		return 0, err
	}
	return int(latest.Int64), nil
}

func unmarshalSnapshot(payload string) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}
