package schedule

// FixtureStore persists the season's round-robin fixture list. Fixtures are
// generated once per season and never regenerated; a second generation
// attempt for the same league and season is a no-op.
type FixtureStore interface {
	GenerateOnce(leagueID string, season int, rounds []Round) (bool, error)
	GetRound(leagueID string, season int, round int) (*Round, error)
	GetAllRounds(leagueID string, season int) ([]Round, error)
	HasFixtures(leagueID string, season int) (bool, error)
}
