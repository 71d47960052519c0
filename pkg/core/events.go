package core

import "fmt"

// EventType represents the type of change in the collection.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
	EventReload EventType = "RELOAD"
)

// Event represents a change in the collection.
// ID is empty for events that concern the whole collection.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	if e.ID == "" {
		return string(e.Type)
	}
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}
