package consolidation

import (
	"fmt"
	"sync"
)

// MockSnapshotStore is an in-memory SnapshotStore for testing.
type MockSnapshotStore struct {
	mu        sync.Mutex
	snapshots map[string]map[int]*Snapshot

	InsertIfAbsentFunc func(snap *Snapshot) (bool, error)
	ReplaceFunc        func(snap *Snapshot) error
	GetFunc            func(leagueID string, season int, round int) (*Snapshot, error)

	InsertCalls  []int
	ReplaceCalls []int
}

func NewMockSnapshotStore() *MockSnapshotStore {
	return &MockSnapshotStore{snapshots: make(map[string]map[int]*Snapshot)}
}

func key(leagueID string, season int) string {
	return fmt.Sprintf("%s:%d", leagueID, season)
}

func (m *MockSnapshotStore) InsertIfAbsent(snap *Snapshot) (bool, error) {
	m.mu.Lock()
	m.InsertCalls = append(m.InsertCalls, snap.Round)
	fn := m.InsertIfAbsentFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(snap)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(snap.LeagueID, snap.Season)
	if m.snapshots[k] == nil {
		m.snapshots[k] = make(map[int]*Snapshot)
	}
	if _, ok := m.snapshots[k][snap.Round]; ok {
		return false, nil
	}
	m.snapshots[k][snap.Round] = snap
	return true, nil
}

func (m *MockSnapshotStore) Replace(snap *Snapshot) error {
	m.mu.Lock()
	m.ReplaceCalls = append(m.ReplaceCalls, snap.Round)
	fn := m.ReplaceFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(snap)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(snap.LeagueID, snap.Season)
	if m.snapshots[k] == nil {
		m.snapshots[k] = make(map[int]*Snapshot)
	}
	m.snapshots[k][snap.Round] = snap
	return nil
}

func (m *MockSnapshotStore) Get(leagueID string, season int, round int) (*Snapshot, error) {
	m.mu.Lock()
	fn := m.GetFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(leagueID, season, round)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshots[key(leagueID, season)][round], nil
}

func (m *MockSnapshotStore) ListUpTo(leagueID string, season int, maxRound int) ([]*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Snapshot
	for r := 1; r <= maxRound; r++ {
		if snap, ok := m.snapshots[key(leagueID, season)][r]; ok {
			out = append(out, snap)
		}
	}
	return out, nil
}

func (m *MockSnapshotStore) LatestRound(leagueID string, season int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	latest := 0
	for r := range m.snapshots[key(leagueID, season)] {
		if r > latest {
			latest = r
		}
	}
	return latest, nil
}

// Seed stores a snapshot directly, bypassing the call records.
func (m *MockSnapshotStore) Seed(snap *Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(snap.LeagueID, snap.Season)
	if m.snapshots[k] == nil {
		m.snapshots[k] = make(map[int]*Snapshot)
	}
	m.snapshots[k][snap.Round] = snap
}

// MockInvalidator records cache invalidation requests.
type MockInvalidator struct {
	mu    sync.Mutex
	Calls []string

	InvalidateLeagueFunc func(leagueID string, season int) error
}

func (m *MockInvalidator) InvalidateLeague(leagueID string, season int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, leagueID)
	if m.InvalidateLeagueFunc != nil {
		return m.InvalidateLeagueFunc(leagueID, season)
	}
	return nil
}
