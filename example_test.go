package timednotes_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/timednotes"
)

// Example_basic opens a fresh file, adds a note and lists the visible ones.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "timednotes-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local)
	ctx := context.Background()

	store, res, err := timednotes.Open(ctx, filepath.Join(tmpDir, "notes.csv"),
		timednotes.WithClock(func() time.Time { return now }),
	)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s with %d sample notes\n", res.Status, res.Count)

	if _, err := store.Add(ctx, "buy milk"); err != nil {
		log.Fatal(err)
	}

	for _, n := range store.View(true) {
		fmt.Printf("%s  %s\n", n.Timestamp.Format("2006-01-02"), n.Text)
	}
	// Output:
	// fresh with 5 sample notes
	// 2024-05-16  lab 1
	// 2024-05-26  Another note
	// 2024-06-05  Current task
	// 2024-06-15  buy milk
}

// ExampleStore_ClearCompleted shows that cleared notes are gone from the file.
func ExampleStore_ClearCompleted() {
	tmpDir, err := os.MkdirTemp("", "timednotes-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "notes.csv")
	data := "text,timestamp,completed\n" +
		"ship it,2024-01-01 09:00:00,True\n" +
		"write docs,2024-01-02 09:00:00,False\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	store, _, err := timednotes.Open(ctx, path)
	if err != nil {
		log.Fatal(err)
	}

	removed, err := store.ClearCompleted(ctx)
	if err != nil {
		log.Fatal(err)
	}

	saved, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("removed:", removed)
	fmt.Print(string(saved))
	// Output:
	// removed: 1
	// text,timestamp,completed
	// write docs,2024-01-02 09:00:00,False
}
