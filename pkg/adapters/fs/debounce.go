package fs

import (
	"sync"
	"time"

	"github.com/aretw0/graft/pkg/core"
)

// debouncer coalesces rapid event bursts per snapshot ID. Editors and atomic
// renames produce several filesystem events for one logical change; only the
// last one within the window is delivered.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
	}
}

// add schedules fire for the event after the debounce window, replacing any
// pending timer for the same snapshot ID.
func (d *debouncer) add(e core.Event, fire func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if prev, ok := d.timers[e.ID]; ok && prev.Stop() {
		d.wg.Done()
	}

	d.wg.Add(1)
	d.timers[e.ID] = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		delete(d.timers, e.ID)
		d.mu.Unlock()
		fire(e)
	})
}

// stopAndWait rejects further events and waits for in-flight timers to fire,
// up to timeout. In-flight events are delivered, not discarded.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
	}
}
