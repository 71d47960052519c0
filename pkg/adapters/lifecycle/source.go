package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/timednotes/pkg/core"
)

type noteSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits note events.
// It bridges the typed core.Event channel to the generic lifecycle Event interface.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &noteSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *noteSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start forwards events until ctx is done or the upstream channel closes,
// then closes Events.
func (s *noteSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				// core.Event implements lifecycle.Event (has String())
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}

// FromStore subscribes to store changes and exposes them as a Source.
// The subscription ends when ctx is done.
func FromStore(ctx context.Context, store *core.Store) lifecycle.Source {
	ch := make(chan core.Event, 64)
	cancel := store.Subscribe(func(e core.Event) {
		select {
		case ch <- e:
		default:
			// Slow consumer; drop rather than block the mutating caller.
		}
	})

	go func() {
		<-ctx.Done()
		cancel()
	}()

	return NewSource(ch)
}
