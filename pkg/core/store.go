package core

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
)

// LoadStatus describes how the collection was obtained by Load.
type LoadStatus string

const (
	StatusNotLoaded        LoadStatus = "not-loaded"
	StatusLoaded           LoadStatus = "loaded"
	StatusFresh            LoadStatus = "fresh"
	StatusLoadFailedSeeded LoadStatus = "load-failed-seeded"
)

// LoadResult is the outcome of Load.
type LoadResult struct {
	Count   int
	Status  LoadStatus
	Skipped int
	// Err is the cause when Status is StatusLoadFailedSeeded.
	Err error
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock replaces time.Now. Values are converted to local time and
// truncated to whole seconds, matching what a reload yields.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithStoreLogger sets the logger. A nil logger discards output.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store owns the master note collection.
//
// Every mutating operation is followed by a full save through the
// Repository before it returns. Queries never touch storage.
// The zero collection (before Load) is valid and empty.
type Store struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time

	mu         sync.RWMutex
	notes      []*Note
	status     LoadStatus
	lastSaved  *time.Time
	saveFailed bool

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

// NewStore creates a Store persisting through repo.
func NewStore(repo Repository, opts ...StoreOption) *Store {
	s := &Store{
		repo:   repo,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
		status: StatusNotLoaded,
		subs:   make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) clock() time.Time {
	return s.now().Local().Truncate(time.Second)
}

// Location returns where the collection is persisted.
func (s *Store) Location() string {
	return s.repo.Location()
}

// Load replaces the collection with the stored one.
//
// A missing file yields the sample notes with StatusFresh. Any other failure
// yields the sample notes with StatusLoadFailedSeeded. Seeding never writes
// to storage, so a damaged file survives until the next mutation.
func (s *Store) Load(ctx context.Context) LoadResult {
	snap, err := s.repo.Load(ctx)

	var (
		notes []Note
		res   LoadResult
	)
	switch {
	case err == nil:
		notes = snap.Notes
		res = LoadResult{Status: StatusLoaded, Skipped: snap.Skipped}
	case errors.Is(err, fs.ErrNotExist):
		notes = SeedNotes(s.clock())
		res = LoadResult{Status: StatusFresh}
	default:
		notes = SeedNotes(s.clock())
		res = LoadResult{Status: StatusLoadFailedSeeded, Err: err}
	}

	collection := make([]*Note, 0, len(notes))
	for _, n := range notes {
		n.ID = NewID()
		collection = append(collection, &n)
	}

	s.mu.Lock()
	s.notes = collection
	s.status = res.Status
	s.mu.Unlock()

	res.Count = len(collection)

	switch res.Status {
	case StatusLoadFailedSeeded:
		s.logger.Warn("load failed, using sample notes", "path", s.Location(), "error", res.Err)
	default:
		s.logger.Debug("notes loaded", "path", s.Location(), "status", res.Status, "count", res.Count, "skipped", res.Skipped)
	}
	if res.Skipped > 0 {
		s.logger.Warn("skipped malformed records", "path", s.Location(), "skipped", res.Skipped)
	}

	s.emit(Event{Type: EventReload})
	return res
}

// Reload discards the in-memory collection and loads it again from storage.
func (s *Store) Reload(ctx context.Context) LoadResult {
	return s.Load(ctx)
}

// Save writes the full collection. On failure the collection is unchanged
// and the error wraps ErrStorageUnavailable.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

func (s *Store) saveLocked(ctx context.Context) error {
	notes := s.snapshotLocked()
	if err := s.repo.Save(ctx, notes); err != nil {
		s.saveFailed = true
		s.logger.Error("save failed", "path", s.Location(), "error", err)
		if errors.Is(err, ErrStorageUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	saved := s.clock()
	s.lastSaved = &saved
	s.saveFailed = false
	s.logger.Debug("notes saved", "path", s.Location(), "count", len(notes))
	return nil
}

func (s *Store) snapshotLocked() []Note {
	out := make([]Note, len(s.notes))
	for i, n := range s.notes {
		out[i] = *n
	}
	return out
}

func validText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrValidation
	}
	return nil
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.notes, func(n *Note) bool { return n.ID == id })
}

// Add appends a new, not completed note stamped with the current time.
// If the save fails the note is kept in memory and returned together with
// the error.
func (s *Store) Add(ctx context.Context, text string) (Note, error) {
	if err := validText(text); err != nil {
		return Note{}, err
	}

	s.mu.Lock()
	n := &Note{
		ID:        NewID(),
		Text:      text,
		Timestamp: s.clock(),
	}
	s.notes = append(s.notes, n)
	note := *n
	err := s.saveLocked(ctx)
	s.mu.Unlock()

	s.emit(Event{Type: EventCreate, ID: note.ID})
	return note, err
}

// Edit replaces the text of a note and stamps it with the current time,
// which moves it to the end of the view. Completion is left as is.
func (s *Store) Edit(ctx context.Context, id, text string) (Note, error) {
	if err := validText(text); err != nil {
		return Note{}, err
	}

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return Note{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.notes[i].Text = text
	s.notes[i].Timestamp = s.clock()
	note := *s.notes[i]
	err := s.saveLocked(ctx)
	s.mu.Unlock()

	s.emit(Event{Type: EventModify, ID: id})
	return note, err
}

// Delete removes a note.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.notes = slices.Delete(s.notes, i, i+1)
	err := s.saveLocked(ctx)
	s.mu.Unlock()

	s.emit(Event{Type: EventDelete, ID: id})
	return err
}

// Toggle flips the completed flag of a note.
func (s *Store) Toggle(ctx context.Context, id string) (Note, error) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return Note{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.notes[i].Completed = !s.notes[i].Completed
	note := *s.notes[i]
	err := s.saveLocked(ctx)
	s.mu.Unlock()

	s.emit(Event{Type: EventModify, ID: id})
	return note, err
}

// MarkAllVisibleCompleted completes every note in View(hideCompleted) that is
// not completed yet and saves once. It returns how many notes changed; when
// none did, nothing is saved.
func (s *Store) MarkAllVisibleCompleted(ctx context.Context, hideCompleted bool) (int, error) {
	s.mu.Lock()
	var changed []string
	for _, n := range s.viewLocked(hideCompleted) {
		if !n.Completed {
			n.Completed = true
			changed = append(changed, n.ID)
		}
	}
	if len(changed) == 0 {
		s.mu.Unlock()
		return 0, nil
	}
	err := s.saveLocked(ctx)
	s.mu.Unlock()

	for _, id := range changed {
		s.emit(Event{Type: EventModify, ID: id})
	}
	return len(changed), err
}

// ClearCompleted removes every completed note and returns how many were
// removed. When there are none, nothing is saved.
func (s *Store) ClearCompleted(ctx context.Context) (int, error) {
	s.mu.Lock()
	var removed []string
	s.notes = slices.DeleteFunc(s.notes, func(n *Note) bool {
		if n.Completed {
			removed = append(removed, n.ID)
			return true
		}
		return false
	})
	if len(removed) == 0 {
		s.mu.Unlock()
		return 0, nil
	}
	err := s.saveLocked(ctx)
	s.mu.Unlock()

	for _, id := range removed {
		s.emit(Event{Type: EventDelete, ID: id})
	}
	return len(removed), err
}

// CountCompleted returns how many notes ClearCompleted would remove.
func (s *Store) CountCompleted() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.notes {
		if n.Completed {
			count++
		}
	}
	return count
}

// View returns the notes sorted oldest first, leaving out completed notes
// when hideCompleted is set. Notes with equal timestamps keep collection
// order. The result is a fresh copy; changing it does not affect the Store.
func (s *Store) View(hideCompleted bool) []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()

	visible := s.viewLocked(hideCompleted)
	out := make([]Note, len(visible))
	for i, n := range visible {
		out[i] = *n
	}
	return out
}

func (s *Store) viewLocked(hideCompleted bool) []*Note {
	visible := make([]*Note, 0, len(s.notes))
	for _, n := range s.notes {
		if hideCompleted && n.Completed {
			continue
		}
		visible = append(visible, n)
	}
	slices.SortStableFunc(visible, func(a, b *Note) int {
		return cmp.Compare(a.Timestamp.Unix(), b.Timestamp.Unix())
	})
	return visible
}

// Get returns a copy of the note with the given ID.
func (s *Store) Get(id string) (Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(id)
	if i < 0 {
		return Note{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return *s.notes[i], nil
}

// Len returns the size of the collection.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// Export writes the full collection to dst with the same encoding as Save.
// The canonical file is not touched.
func (s *Store) Export(ctx context.Context, dst string) error {
	s.mu.RLock()
	notes := s.snapshotLocked()
	s.mu.RUnlock()

	if err := s.repo.Export(ctx, dst, notes); err != nil {
		if errors.Is(err, ErrStorageUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	s.logger.Info("notes exported", "dst", dst, "count", len(notes))
	return nil
}

// Subscribe registers fn to be called after every change, once the change
// has been saved (or the save has failed). The returned function removes
// the subscription. fn runs on the goroutine that made the change.
func (s *Store) Subscribe(fn func(Event)) (cancel func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) emit(e Event) {
	if e.Timestamp == 0 {
		e.Timestamp = s.clock().Unix()
	}

	s.subMu.Lock()
	subs := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(e)
	}
}
