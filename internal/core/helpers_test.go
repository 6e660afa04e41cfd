package core

import (
	"context"
	"time"

	"github.com/valter-silva-au/taskpad/pkg/models"
)

// fakePersister records every save and serves a fixed collection on load.
type fakePersister struct {
	stored []models.Task
	ok     bool
	saves  [][]models.Task
}

func (f *fakePersister) Load(_ context.Context) ([]models.Task, bool) {
	return f.stored, f.ok
}

func (f *fakePersister) Save(tasks []models.Task) {
	f.saves = append(f.saves, tasks)
}

func (f *fakePersister) last() []models.Task {
	if len(f.saves) == 0 {
		return nil
	}
	return f.saves[len(f.saves)-1]
}

// recordingEvents captures emitted events.
type recordingEvents struct {
	types []string
	tasks []models.Task
}

func (r *recordingEvents) LogTaskEvent(eventType string, task models.Task) error {
	r.types = append(r.types, eventType)
	r.tasks = append(r.tasks, task)
	return nil
}

// frozenClock always reports the same instant so generated ids are
// consecutive and predictable.
func frozenClock() time.Time {
	return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
}

func newTestStore(p *fakePersister) TaskStore {
	s := NewTaskStore(p, NewTaskIDGenerator(frozenClock), nil, nil)
	s.Initialize(context.Background())
	return s
}

func mustAdd(t interface {
	Helper()
	Fatalf(string, ...any)
}, s TaskStore, title string) *models.Task {
	t.Helper()
	task, err := s.Add(title, "", nil, nil)
	if err != nil {
		t.Fatalf("Add(%q) failed: %v", title, err)
	}
	return task
}

func titles(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}
