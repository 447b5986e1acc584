package ledger

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ligafc/liga-engine/internal/league"
)

// store handles database operations for the adjustment and settlement logs.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore creates a new EventStore.
func NewStore(db *sql.DB) EventStore {
	return &store{db: db}
}

func (s *store) AddAdjustment(adj Adjustment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO adjustments (id, league_id, season, participant_id, label, amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		adj.ID, adj.LeagueID, adj.Season, string(adj.ParticipantID), adj.Label, adj.Amount, adj.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert adjustment: %w", err)
	}
	log.Info("Adjustment recorded", "participantID", adj.ParticipantID, "label", adj.Label, "amount", adj.Amount)
	return nil
}

func (s *store) DeleteAdjustment(leagueID string, season int, id string) error {
	return s.softDelete("adjustments", leagueID, season, id)
}

func (s *store) ListAdjustments(leagueID string, season int) ([]Adjustment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, participant_id, label, amount, created_at
		FROM adjustments
		WHERE league_id = ? AND season = ? AND deleted_at IS NULL
		ORDER BY created_at, id`,
		leagueID, season,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var adjustments []Adjustment
	for rows.Next() {
		adj := Adjustment{LeagueID: leagueID, Season: season}
		var pid string
		if err := rows.Scan(&adj.ID, &pid, &adj.Label, &adj.Amount, &adj.CreatedAt); err != nil {
			return nil, err
		}
		adj.ParticipantID = league.ParticipantID(pid)
		adjustments = append(adjustments, adj)
	}
	return adjustments, rows.Err()
}

func (s *store) AddSettlement(settlement Settlement) error {
	if err := settlement.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO settlements (id, league_id, season, participant_id, type, amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.LeagueID, settlement.Season, string(settlement.ParticipantID),
		string(settlement.Type), settlement.Amount, settlement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	log.Info("Settlement recorded", "participantID", settlement.ParticipantID, "type", settlement.Type, "amount", settlement.Amount)
	return nil
}

func (s *store) DeleteSettlement(leagueID string, season int, id string) error {
	return s.softDelete("settlements", leagueID, season, id)
}

func (s *store) ListSettlements(leagueID string, season int) ([]Settlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, participant_id, type, amount, created_at
		FROM settlements
		WHERE league_id = ? AND season = ? AND deleted_at IS NULL
		ORDER BY created_at, id`,
		leagueID, season,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settlements []Settlement
	for rows.Next() {
		settlement := Settlement{LeagueID: leagueID, Season: season}
		var pid, kind string
		if err := rows.Scan(&settlement.ID, &pid, &kind, &settlement.Amount, &settlement.CreatedAt); err != nil {
			return nil, err
		}
		settlement.ParticipantID = league.ParticipantID(pid)
		settlement.Type = SettlementType(kind)
		settlements = append(settlements, settlement)
	}
	return settlements, rows.Err()
}

func (s *store) softDelete(table, leagueID string, season int, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		// table is one of two compile-time constants, never user input.
		fmt.Sprintf(`UPDATE %s SET deleted_at = ? WHERE league_id = ? AND season = ? AND id = ? AND deleted_at IS NULL`, table),
		time.Now().Unix(), leagueID, season, id,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	log.Info("Ledger record deleted", "table", table, "id", id)
	return nil
}
