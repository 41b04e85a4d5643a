package fs

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/graft/pkg/core"
)

func TestDebouncer_CoalescesBursts(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)

	var fired int32
	e := core.Event{Type: core.EventModify, ID: "a.json"}
	for i := 0; i < 5; i++ {
		d.add(e, func(core.Event) { atomic.AddInt32(&fired, 1) })
	}
	d.stopAndWait(time.Second)

	if got := atomic.LoadInt32(&fired); got != 1 {
		t.Errorf("burst should collapse to one delivery, got %d", got)
	}
}

func TestDebouncer_KeysAreIndependent(t *testing.T) {
	d := newDebouncer(10 * time.Millisecond)

	var fired int32
	d.add(core.Event{ID: "a.json"}, func(core.Event) { atomic.AddInt32(&fired, 1) })
	d.add(core.Event{ID: "b.json"}, func(core.Event) { atomic.AddInt32(&fired, 1) })
	d.stopAndWait(time.Second)

	if got := atomic.LoadInt32(&fired); got != 2 {
		t.Errorf("distinct snapshots should fire separately, got %d", got)
	}
}

func TestDebouncer_RejectsAfterStop(t *testing.T) {
	d := newDebouncer(time.Millisecond)
	d.stopAndWait(time.Second)

	var fired int32
	d.add(core.Event{ID: "a.json"}, func(core.Event) { atomic.AddInt32(&fired, 1) })
	time.Sleep(20 * time.Millisecond)

	if got := atomic.LoadInt32(&fired); got != 0 {
		t.Errorf("stopped debouncer should drop events, got %d", got)
	}
}
