package core

import (
	"time"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Location    string     `json:"location"`
	Status      LoadStatus `json:"status"`
	Notes       int        `json:"notes"`
	Completed   int        `json:"completed"`
	Subscribers int        `json:"subscribers"`
	LastSaved   *time.Time `json:"last_saved,omitempty"`
	SaveFailed  bool       `json:"save_failed"`
	Repository  string     `json:"repository_type"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	completed := 0
	for _, n := range s.notes {
		if n.Completed {
			completed++
		}
	}

	repoType := "unknown"
	if s.repo != nil {
		repoType = "repository"
		if comp, ok := s.repo.(introspection.Component); ok {
			repoType = comp.ComponentType()
		}
	}

	s.subMu.Lock()
	subscribers := len(s.subs)
	s.subMu.Unlock()

	return StoreState{
		Location:    s.repo.Location(),
		Status:      s.status,
		Notes:       len(s.notes),
		Completed:   completed,
		Subscribers: subscribers,
		LastSaved:   s.lastSaved,
		SaveFailed:  s.saveFailed,
		Repository:  repoType,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
