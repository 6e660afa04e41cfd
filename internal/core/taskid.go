package core

import (
	"sync"
	"time"
)

// TaskIDGenerator hands out task identifiers that are unique for the life of
// the process.
type TaskIDGenerator interface {
	NextID() int64
	// Observe records ids that already exist so they are never handed out.
	Observe(ids ...int64)
}

// clockTaskIDGenerator derives ids from the wall clock in milliseconds and
// bumps past the last issued id whenever two calls land on the same tick.
type clockTaskIDGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewTaskIDGenerator creates a TaskIDGenerator backed by now. A nil now uses
// time.Now.
func NewTaskIDGenerator(now func() time.Time) TaskIDGenerator {
	if now == nil {
		now = time.Now
	}
	return &clockTaskIDGenerator{now: now}
}

func (g *clockTaskIDGenerator) NextID() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

func (g *clockTaskIDGenerator) Observe(ids ...int64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, id := range ids {
		if id > g.last {
			g.last = id
		}
	}
}
