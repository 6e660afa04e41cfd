package core

import (
	"testing"
	"time"
)

func TestNextID_UsesClockMillis(t *testing.T) {
	gen := NewTaskIDGenerator(frozenClock)
	if got, want := gen.NextID(), frozenClock().UnixMilli(); got != want {
		t.Errorf("NextID = %d, want %d", got, want)
	}
}

func TestNextID_SameTickBumps(t *testing.T) {
	gen := NewTaskIDGenerator(frozenClock)
	a := gen.NextID()
	b := gen.NextID()
	if b != a+1 {
		t.Errorf("second id = %d, want %d", b, a+1)
	}
}

func TestNextID_ClockGoingBackwards(t *testing.T) {
	now := frozenClock()
	gen := NewTaskIDGenerator(func() time.Time { return now })
	a := gen.NextID()
	now = now.Add(-time.Minute)
	if b := gen.NextID(); b <= a {
		t.Errorf("id went backwards: %d after %d", b, a)
	}
}

func TestObserve_SkipsPastKnownIDs(t *testing.T) {
	gen := NewTaskIDGenerator(frozenClock)
	known := frozenClock().UnixMilli() + 500
	gen.Observe(3, known, 7)
	if got := gen.NextID(); got != known+1 {
		t.Errorf("NextID = %d, want %d", got, known+1)
	}
}
