package consolidation

// SnapshotStore persists consolidated round snapshots. Snapshots are
// append-only: InsertIfAbsent is the only regular write path and Replace is
// reserved for forced re-consolidation.
type SnapshotStore interface {
	// InsertIfAbsent atomically persists the snapshot unless one already
	// exists for its (league, season, round). It reports whether this call
	// performed the insert, which serializes concurrent consolidation
	// attempts without a distributed lock.
	InsertIfAbsent(snap *Snapshot) (bool, error)
	// Replace swaps the stored snapshot for (league, season, round) with the
	// given one in a single transaction. No partial field overwrite.
	Replace(snap *Snapshot) error
	Get(leagueID string, season int, round int) (*Snapshot, error)
	// ListUpTo returns all snapshots with round <= maxRound in round order.
	ListUpTo(leagueID string, season int, maxRound int) ([]*Snapshot, error)
	// LatestRound returns the highest consolidated round, 0 when none.
	LatestRound(leagueID string, season int) (int, error)
}
