package core

import (
	"testing"
	"time"

	"pgregory.net/rapid"
)

// Property: ids are strictly increasing whatever the clock does.
func TestProperty_TaskIDStrictlyIncreasing(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		offsets := rapid.SliceOfN(rapid.IntRange(-1000, 1000), 2, 100).Draw(rt, "offsets")
		base := frozenClock()
		i := 0
		gen := NewTaskIDGenerator(func() time.Time {
			d := time.Duration(offsets[i%len(offsets)]) * time.Millisecond
			i++
			return base.Add(d)
		})

		prev := int64(-1 << 62)
		for range offsets {
			id := gen.NextID()
			if id <= prev {
				rt.Fatalf("id %d not greater than previous %d", id, prev)
			}
			prev = id
		}
	})
}
