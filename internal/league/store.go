package league

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
)

// New creates a new league Store backed by the given database.
func New(db *sql.DB) Store {
	return &store{db: db}
}

// UpsertParticipants inserts or updates league members. The active flag of an
// existing participant is preserved so a re-seed cannot silently reactivate a
// deactivated member.
func (s *store) UpsertParticipants(leagueID string, season int, participants []Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO participants (id, league_id, season, entity_id, name, active)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(league_id, season, id) DO UPDATE SET
			entity_id = excluded.entity_id,
			name = excluded.name;
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, p := range participants {
		active := 0
		if p.Active {
			active = 1
		}
		if _, err := stmt.Exec(string(p.ID), leagueID, season, p.EntityID, p.Name, active); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to upsert participant %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

func (s *store) GetParticipants(leagueID string, season int) ([]Participant, error) {
	return s.queryParticipants(leagueID, season, false)
}

func (s *store) GetActiveParticipants(leagueID string, season int) ([]Participant, error) {
	return s.queryParticipants(leagueID, season, true)
}

func (s *store) queryParticipants(leagueID string, season int, activeOnly bool) ([]Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, entity_id, name, active
		FROM participants
		WHERE league_id = ? AND season = ?`
	if activeOnly {
		query += ` AND active = 1`
	}
	// Stable membership order seeds every deterministic computation downstream.
	query += ` ORDER BY id`

	rows, err := s.db.Query(query, leagueID, season)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []Participant
	for rows.Next() {
		var p Participant
		var id string
		var active int
		if err := rows.Scan(&id, &p.EntityID, &p.Name, &active); err != nil {
			log.Error("Failed to scan participant row", "error", err)
			continue
		}
		p.ID = ParticipantID(id)
		p.Active = active == 1
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (s *store) GetParticipant(leagueID string, season int, id ParticipantID) (*Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p Participant
	var rawID string
	var active int
	err := s.db.QueryRow(`
		SELECT id, entity_id, name, active
		FROM participants
		WHERE league_id = ? AND season = ? AND id = ?`,
		leagueID, season, string(id),
	).Scan(&rawID, &p.EntityID, &p.Name, &active)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.ID = ParticipantID(rawID)
	p.Active = active == 1
	return &p, nil
}

func (s *store) DeactivateParticipant(leagueID string, season int, id ParticipantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		UPDATE participants SET active = 0
		WHERE league_id = ? AND season = ? AND id = ?`,
		leagueID, season, string(id),
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("participant %s not found in league %s", id, leagueID)
	}
	log.Info("Participant deactivated", "leagueID", leagueID, "participantID", id)
	return nil
}

func (s *store) IsKnownParticipant(leagueID string, season int, id ParticipantID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists int
	err := s.db.QueryRow(`
		SELECT 1 FROM participants
		WHERE league_id = ? AND season = ? AND id = ?`,
		leagueID, season, string(id),
	).Scan(&exists)
	return err == nil
}
