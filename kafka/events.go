package kafka

// DefaultTopic carries every committed store event
const DefaultTopic = "pharma-store-events"

// Header keys set on every message
const (
	HeaderEventType = "event_type"
	HeaderEventID   = "event_id"
)
