// Package core holds the note domain: the Note entity, the Store that owns
// the master collection, and the Repository port it persists through.
package core

import (
	"time"

	"github.com/google/uuid"
)

// Note is a single tracked item.
//
// ID is a surrogate key assigned when the note enters a Store. It is not
// part of the persisted record, so it is stable only for the lifetime of
// the process that loaded the note.
type Note struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Completed bool      `json:"completed"`
}

// NewID returns a fresh surrogate key.
func NewID() string {
	return uuid.NewString()
}

// SeedNotes returns the sample collection used when nothing can be loaded.
// Ages are 30, 25, 20, 15 and 10 days before now; completion alternates
// starting with false.
func SeedNotes(now time.Time) []Note {
	seeds := []struct {
		text      string
		age       int
		completed bool
	}{
		{"lab 1", 30, false},
		{"Completed task", 25, true},
		{"Another note", 20, false},
		{"Done item", 15, true},
		{"Current task", 10, false},
	}

	notes := make([]Note, 0, len(seeds))
	for _, s := range seeds {
		notes = append(notes, Note{
			ID:        NewID(),
			Text:      s.text,
			Timestamp: now.AddDate(0, 0, -s.age),
			Completed: s.completed,
		})
	}
	return notes
}
