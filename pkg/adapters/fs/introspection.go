package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path          string     `json:"path"`
	Policy        string     `json:"decode_policy"`
	Versioning    bool       `json:"versioning"`
	WatchPattern  string     `json:"watch_pattern"`
	WatcherActive bool       `json:"watcher_active"`
	LastLoad      *time.Time `json:"last_load,omitempty"`
	LastSave      *time.Time `json:"last_save,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RepositoryState{
		Path:          r.Path,
		Policy:        r.config.Policy.String(),
		Versioning:    r.config.Versioning,
		WatchPattern:  r.config.WatchPattern,
		WatcherActive: r.watcherActive,
		LastLoad:      r.lastLoad,
		LastSave:      r.lastSave,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)

func (r *Repository) setWatcherActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watcherActive = active
}
