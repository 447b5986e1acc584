package ledger

// EventStore persists the append-only adjustment and settlement logs.
// Deletes are soft: the row keeps its history and stops counting.
type EventStore interface {
	AddAdjustment(adj Adjustment) error
	DeleteAdjustment(leagueID string, season int, id string) error
	// ListAdjustments returns live adjustments in creation order.
	ListAdjustments(leagueID string, season int) ([]Adjustment, error)

	AddSettlement(s Settlement) error
	DeleteSettlement(leagueID string, season int, id string) error
	// ListSettlements returns live settlements in creation order.
	ListSettlements(leagueID string, season int) ([]Settlement, error)
}
