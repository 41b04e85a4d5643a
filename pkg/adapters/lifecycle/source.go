// Package lifecycle bridges store watch events into the generic lifecycle
// event plumbing, so a graph process can react to snapshot changes alongside
// its other managed workers.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/graft/pkg/core"
)

type graftSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits snapshot store events. It
// bridges the typed event channel to the generic lifecycle Event interface.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &graftSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *graftSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *graftSource) Start(ctx context.Context) error {
	// lifecycle.Go tracks the bridge goroutine itself, so shutdown waits
	// for it like any other worker.
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
