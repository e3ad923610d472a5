package types

// Event is a resolution lifecycle notification. Attributes carry
// string key/value pairs (organisation, module, revision, artifact,
// resolver) that trigger filters match against.
type Event struct {
	Type       EventType
	Attributes map[string]string
}

func NewEvent(eventType EventType, attributes map[string]string) Event {
	if attributes == nil {
		attributes = map[string]string{}
	}
	return Event{Type: eventType, Attributes: attributes}
}
