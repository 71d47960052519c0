package core_test

import (
	"context"
	"errors"
	"io/fs"
	"sync"
	"time"

	"github.com/aretw0/timednotes/pkg/core"
)

// memRepo is an in-memory core.Repository with failure injection.
type memRepo struct {
	mu       sync.Mutex
	notes    []core.Note
	exists   bool
	loadErr  error
	saveErr  error
	saves    int
	exported map[string][]core.Note
}

func newMemRepo(notes ...core.Note) *memRepo {
	return &memRepo{notes: notes, exists: len(notes) > 0, exported: map[string][]core.Note{}}
}

func (m *memRepo) Load(ctx context.Context) (core.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return core.Snapshot{}, m.loadErr
	}
	if !m.exists {
		return core.Snapshot{}, fs.ErrNotExist
	}
	return core.Snapshot{Notes: append([]core.Note(nil), m.notes...)}, nil
}

func (m *memRepo) Save(ctx context.Context, notes []core.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.exists = true
	m.notes = append([]core.Note(nil), notes...)
	return nil
}

func (m *memRepo) Export(ctx context.Context, dst string, notes []core.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if dst == "" {
		return errors.New("no destination")
	}
	m.exported[dst] = append([]core.Note(nil), notes...)
	return nil
}

func (m *memRepo) Location() string { return "memory" }

func (m *memRepo) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *memRepo) stored() []core.Note {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.Note(nil), m.notes...)
}

// fakeClock returns a fixed instant that tests advance explicitly.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
