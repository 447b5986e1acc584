package schedule

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/ligafc/liga-engine/internal/league"
)

// store handles database operations for the season fixture list.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore creates a new FixtureStore.
func NewStore(db *sql.DB) FixtureStore {
	return &store{db: db}
}

// GenerateOnce persists the fixture list for a season unless fixtures already
// exist. It reports whether this call actually wrote the fixtures.
// A bye is stored as a row with an empty away id.
func (s *store) GenerateOnce(leagueID string, season int, rounds []Round) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}

	var existing int
	if err := tx.QueryRow(
		`SELECT COUNT(*) FROM fixtures WHERE league_id = ? AND season = ?`,
		leagueID, season,
	).Scan(&existing); err != nil {
		tx.Rollback()
		return false, err
	}
	if existing > 0 {
		tx.Rollback()
		log.Info("Fixtures already generated, skipping", "leagueID", leagueID, "season", season)
		return false, nil
	}

	stmt, err := tx.Prepare(`
		INSERT INTO fixtures (league_id, season, round, position, home_id, away_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return false, err
	}
	defer stmt.Close()

	for _, round := range rounds {
		for i, p := range round.Pairings {
			if _, err := stmt.Exec(leagueID, season, round.Number, i, string(p.Home), string(p.Away)); err != nil {
				tx.Rollback()
				return false, fmt.Errorf("failed to insert fixture round %d: %w", round.Number, err)
			}
		}
		if round.Bye != "" {
			if _, err := stmt.Exec(leagueID, season, round.Number, len(round.Pairings), string(round.Bye), ""); err != nil {
				tx.Rollback()
				return false, fmt.Errorf("failed to insert bye round %d: %w", round.Number, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	log.Info("Fixtures generated", "leagueID", leagueID, "season", season, "rounds", len(rounds))
	return true, nil
}

func (s *store) GetRound(leagueID string, season int, round int) (*Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT round, home_id, away_id FROM fixtures
		WHERE league_id = ? AND season = ? AND round = ?
		ORDER BY position`,
		leagueID, season, round,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result, err := scanRounds(rows)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, nil
	}
	return &result[0], nil
}

func (s *store) GetAllRounds(leagueID string, season int) ([]Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT round, home_id, away_id FROM fixtures
		WHERE league_id = ? AND season = ?
		ORDER BY round, position`,
		leagueID, season,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRounds(rows)
}

func (s *store) HasFixtures(leagueID string, season int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM fixtures WHERE league_id = ? AND season = ?`,
		leagueID, season,
	).Scan(&count)
	return count > 0, err
}

func scanRounds(rows *sql.Rows) ([]Round, error) {
	var rounds []Round
	byNumber := map[int]int{}
	for rows.Next() {
		var number int
		var home, away string
		if err := rows.Scan(&number, &home, &away); err != nil {
			return nil, err
		}
		idx, ok := byNumber[number]
		if !ok {
			rounds = append(rounds, Round{Number: number})
			idx = len(rounds) - 1
			byNumber[number] = idx
		}
		if away == "" {
			rounds[idx].Bye = league.ParticipantID(home)
			continue
		}
		rounds[idx].Pairings = append(rounds[idx].Pairings, Pairing{
			Home: league.ParticipantID(home),
			Away: league.ParticipantID(away),
		})
	}
	return rounds, rows.Err()
}
