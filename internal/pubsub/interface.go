package pubsub

// PubSubClient publishes engine events for downstream collaborators
// (reporting, audit) and decodes received payloads.
type PubSubClient interface {
	SendMessage(topic EventType, data any) error
	ProcessMessage(data []byte, returnValue any) error
}
