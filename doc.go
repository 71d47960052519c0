// Package timednotes is the composition root for a single-user timed note
// tracker.
//
// A note is a piece of text with the moment it was created or last edited
// and a completion flag. The collection lives in one CSV file and is
// rewritten in full after every change:
//
//	text,timestamp,completed
//	"milk, eggs",2024-03-09 07:05:01,False
//
// The core store (pkg/core) holds the collection in memory and orders it by
// timestamp for display. The record format lives in pkg/codec. The file
// adapter (pkg/adapters/fs) writes the file atomically, commits it to git
// when versioning is on, and watches it for outside changes.
//
// Usage:
//
//	store, res, err := timednotes.Open(ctx, "",
//		timednotes.WithLogger(logger),
//	)
//	if res.Status == core.StatusLoadFailedSeeded {
//		log.Printf("could not read notes: %v", res.Err)
//	}
//
//	note, err := store.Add(ctx, "buy milk")
//	_, err = store.Toggle(ctx, note.ID)
//
// An empty path selects <documents>/TimedNotesApp/notes.csv. Under `go run` and
// `go test` paths outside the temp directory are redirected into a sandbox;
// see WithDevSafety.
package timednotes
