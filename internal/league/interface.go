package league

// Store defines the interface for interacting with league membership data.
type Store interface {
	UpsertParticipants(leagueID string, season int, participants []Participant) error
	GetParticipants(leagueID string, season int) ([]Participant, error)
	GetActiveParticipants(leagueID string, season int) ([]Participant, error)
	GetParticipant(leagueID string, season int, id ParticipantID) (*Participant, error)
	DeactivateParticipant(leagueID string, season int, id ParticipantID) error
	IsKnownParticipant(leagueID string, season int, id ParticipantID) bool
}
