package league

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// ParticipantID is the canonical participant identifier. The upstream
// provider and the admin surface use a mix of numeric and string ids for the
// same participant; everything inside the engine uses this type, converted
// exactly once at the boundary.
type ParticipantID string

// IDFromEntity converts an upstream numeric team id into the canonical id.
func IDFromEntity(entityID int64) ParticipantID {
	return ParticipantID(strconv.FormatInt(entityID, 10))
}

// ParseID normalizes a raw identifier from an external caller.
func ParseID(raw string) (ParticipantID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("empty participant id")
	}
	return ParticipantID(trimmed), nil
}

// Participant represents a league member. Participants are soft-deactivated,
// never deleted, once they have ledger history.
type Participant struct {
	ID       ParticipantID `json:"id"`
	EntityID int64         `json:"entity_id"`
	Name     string        `json:"name"`
	Active   bool          `json:"active"`
}

// store handles all database operations for league membership.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}
