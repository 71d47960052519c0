package core

import "context"

// Snapshot is what a Repository yields on load.
type Snapshot struct {
	Notes []Note
	// Skipped counts records that could not be decoded and were left out.
	Skipped int
}

// Repository defines the contract for persisting the full note collection.
// Every save is a complete rewrite; there is no incremental diff.
type Repository interface {
	// Load reads the whole collection. An error satisfying
	// errors.Is(err, fs.ErrNotExist) means nothing has been saved yet.
	Load(ctx context.Context) (Snapshot, error)

	// Save replaces the stored collection with notes, in order.
	Save(ctx context.Context, notes []Note) error

	// Export writes notes with the same encoding to dst, leaving the
	// canonical location untouched.
	Export(ctx context.Context, dst string, notes []Note) error

	// Location describes where the collection lives (a file path for fs).
	Location() string
}

// Watchable is implemented by repositories that can report external changes.
type Watchable interface {
	Watch(ctx context.Context) (<-chan Event, error)
}
