package core

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/valter-silva-au/taskpad/pkg/models"
)

var (
	// ErrTaskNotFound is returned when no task carries the requested id.
	ErrTaskNotFound = errors.New("task not found")
	// ErrEmptyTitle is returned when a title is blank after trimming.
	ErrEmptyTitle = errors.New("task title must not be empty")
)

// TaskFields carries the user-editable fields of a task.
type TaskFields struct {
	Title       string
	Description string
	Date        *models.Date
	Time        *models.Clock
}

// TaskStore owns the canonical, insertion-ordered task collection. Every
// successful mutation, and every delete attempt, is followed by a save.
type TaskStore interface {
	Initialize(ctx context.Context)
	Add(title, description string, date *models.Date, clock *models.Clock) (*models.Task, error)
	Update(id int64, title string) (*models.Task, error)
	Amend(id int64, fields TaskFields) (*models.Task, error)
	ToggleComplete(id int64) (*models.Task, error)
	Delete(id int64) bool
	Get(id int64) (*models.Task, error)
	All() []models.Task
}

type taskStore struct {
	tasks     []models.Task
	persister TaskPersister
	idGen     TaskIDGenerator
	events    EventLogger
	logger    *slog.Logger
}

// NewTaskStore creates a TaskStore that writes through persister. events and
// logger may be nil.
func NewTaskStore(persister TaskPersister, idGen TaskIDGenerator, events EventLogger, logger *slog.Logger) TaskStore {
	if idGen == nil {
		idGen = NewTaskIDGenerator(nil)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &taskStore{
		persister: persister,
		idGen:     idGen,
		events:    events,
		logger:    logger,
	}
}

// Initialize replaces the collection with whatever the persister holds. A
// missing or unreadable collection leaves the store empty.
func (s *taskStore) Initialize(ctx context.Context) {
	s.tasks = nil
	if s.persister == nil {
		return
	}

	loaded, ok := s.persister.Load(ctx)
	if !ok {
		s.logger.Info("no saved tasks, starting empty")
		return
	}

	seen := make(map[int64]struct{}, len(loaded))
	tasks := make([]models.Task, 0, len(loaded))
	for _, t := range loaded {
		if _, dup := seen[t.ID]; dup {
			s.logger.Warn("dropping task with duplicate id", "id", t.ID, "title", t.Title)
			continue
		}
		seen[t.ID] = struct{}{}
		tasks = append(tasks, t.Clone())
		s.idGen.Observe(t.ID)
	}
	s.tasks = tasks
	s.logger.Info("loaded tasks", "count", len(tasks))
}

func (s *taskStore) Add(title, description string, date *models.Date, clock *models.Clock) (*models.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}

	task := models.Task{
		ID:          s.idGen.NextID(),
		Title:       title,
		Completed:   false,
		Description: description,
		Date:        date,
		Time:        clock,
	}.Clone()
	s.tasks = append(s.tasks, task)
	s.persist()
	s.emit(EventTaskCreated, task)

	out := task.Clone()
	return &out, nil
}

func (s *taskStore) Update(id int64, title string) (*models.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}
	return s.mutate(id, EventTaskUpdated, func(t *models.Task) {
		t.Title = title
	})
}

// Amend replaces every editable field of the task in place.
func (s *taskStore) Amend(id int64, fields TaskFields) (*models.Task, error) {
	if strings.TrimSpace(fields.Title) == "" {
		return nil, ErrEmptyTitle
	}
	amended := models.Task{Date: fields.Date, Time: fields.Time}.Clone()
	return s.mutate(id, EventTaskUpdated, func(t *models.Task) {
		t.Title = fields.Title
		t.Description = fields.Description
		t.Date = amended.Date
		t.Time = amended.Time
	})
}

func (s *taskStore) ToggleComplete(id int64) (*models.Task, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		s.logger.Warn("toggle ignored", "id", id, "error", ErrTaskNotFound)
		return nil, ErrTaskNotFound
	}

	eventType := EventTaskCompleted
	if s.tasks[idx].Completed {
		eventType = EventTaskReopened
	}
	return s.mutate(id, eventType, func(t *models.Task) {
		t.Completed = !t.Completed
	})
}

func (s *taskStore) Delete(id int64) bool {
	removed := false
	if idx := s.indexOf(id); idx >= 0 {
		deleted := s.tasks[idx]
		s.tasks = slices.Delete(s.tasks, idx, idx+1)
		removed = true
		s.emit(EventTaskDeleted, deleted)
	}
	s.persist()
	return removed
}

func (s *taskStore) Get(id int64) (*models.Task, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrTaskNotFound
	}
	out := s.tasks[idx].Clone()
	return &out, nil
}

// All returns a snapshot of the collection in insertion order.
func (s *taskStore) All() []models.Task {
	return cloneTasks(s.tasks)
}

// mutate applies fn to the task with the given id, saves, and emits eventType.
func (s *taskStore) mutate(id int64, eventType string, fn func(t *models.Task)) (*models.Task, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		s.logger.Warn("mutation ignored", "id", id, "event", eventType, "error", ErrTaskNotFound)
		return nil, ErrTaskNotFound
	}

	fn(&s.tasks[idx])
	s.persist()
	s.emit(eventType, s.tasks[idx])

	out := s.tasks[idx].Clone()
	return &out, nil
}

func (s *taskStore) indexOf(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *taskStore) persist() {
	if s.persister == nil {
		return
	}
	s.persister.Save(cloneTasks(s.tasks))
}

func (s *taskStore) emit(eventType string, t models.Task) {
	if s.events == nil {
		return
	}
	if err := s.events.LogTaskEvent(eventType, t); err != nil {
		s.logger.Debug("event log write failed", "event", eventType, "error", err)
	}
}

func cloneTasks(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
