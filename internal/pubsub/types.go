package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventRoundConsolidated EventType = "round-consolidated"
	EventRoundCorrected    EventType = "round-corrected"
	EventCacheInvalidated  EventType = "ledger-cache-invalidated"
	EventSettlementAdded   EventType = "settlement-added"
)

// RoundConsolidatedPayload is the message body for EventRoundConsolidated
// and EventRoundCorrected.
type RoundConsolidatedPayload struct {
	LeagueID string `msgpack:"league_id"`
	Season   int    `msgpack:"season"`
	Round    int    `msgpack:"round"`
	Forced   bool   `msgpack:"forced"`
}

// CacheInvalidatedPayload is the message body for EventCacheInvalidated.
type CacheInvalidatedPayload struct {
	LeagueID string `msgpack:"league_id"`
	Season   int    `msgpack:"season"`
	// ParticipantID is empty when the whole league's cache was invalidated.
	ParticipantID string `msgpack:"participant_id,omitempty"`
}
