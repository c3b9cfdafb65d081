package publishers

import (
	"encoding/json"
	"time"
)

// Mutation actions carried by events.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Event represents a directory mutation published downstream.
type Event struct {
	Resource   string          `json:"resource"`
	Action     string          `json:"action"`
	RecordID   string          `json:"record_id"`
	Record     json.RawMessage `json:"record,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewEvent constructs an Event for a mutation that just succeeded.
func NewEvent(resource, action, recordID string, record json.RawMessage) Event {
	return Event{
		Resource:   resource,
		Action:     action,
		RecordID:   recordID,
		Record:     record,
		OccurredAt: time.Now().UTC(),
	}
}

// attributes are the routing keys copied onto broker message metadata.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"resource": e.Resource,
		"action":   e.Action,
	}
}
