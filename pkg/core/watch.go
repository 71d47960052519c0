package core

import (
	"context"
	"errors"
)

// ErrNotWatchable is returned by Watch when the repository cannot observe changes.
var ErrNotWatchable = errors.New("repository does not support watching")

// Watch observes external changes to the stored collection. Every change
// reloads the collection before the event is forwarded, so a consumer can
// call View as soon as it receives one. The channel closes when ctx is done
// or the repository stops watching.
func (s *Store) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, ErrNotWatchable
	}

	upstream, err := w.Watch(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan Event, 16)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-upstream:
				if !ok {
					return
				}
				res := s.Reload(ctx)
				s.logger.Info("collection changed on disk", "event", e.Type, "status", res.Status, "count", res.Count)
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
