package cache

import (
	"github.com/ligafc/liga-engine/internal/league"
)

// Store persists derived ledger balances keyed by (league, season,
// participant). Entries are disposable: deleting one is always safe, the
// next read rebuilds it from the sources of truth.
type Store interface {
	Get(leagueID string, season int, participantID league.ParticipantID) (*Entry, error)
	// Put upserts the entry whole. Concurrent redundant recomputes write
	// the same derived value, so last-write-wins is safe.
	Put(entry Entry) error
	Delete(leagueID string, season int, participantID league.ParticipantID) error
	// DeleteLeague removes every entry for the league season.
	DeleteLeague(leagueID string, season int) error
}
