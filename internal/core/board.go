package core

import (
	"log/slog"

	"github.com/valter-silva-au/taskpad/pkg/models"
)

// Board is the application's single state container. Presentation code
// forwards user intents to it and renders its queries; it never touches the
// task store directly. Board is not safe for concurrent use: callers must
// serialise intents.
type Board struct {
	store     TaskStore
	editing   *EditingSession
	selection DetailSelection
	filter    models.FilterMode
	logger    *slog.Logger
}

// BoardOptions configures a Board.
type BoardOptions struct {
	ApplyAllFields bool
	DefaultFilter  models.FilterMode
	Logger         *slog.Logger
}

// NewBoard creates a Board over an initialised store.
func NewBoard(store TaskStore, opts BoardOptions) *Board {
	filter := opts.DefaultFilter
	if filter == "" {
		filter = models.FilterAll
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Board{
		store:   store,
		editing: NewEditingSession(store, opts.ApplyAllFields),
		filter:  filter,
		logger:  logger,
	}
}

// --- Intents ---

// AddOrUpdateTask submits the current draft.
func (b *Board) AddOrUpdateTask() (SubmitResult, error) {
	res, err := b.editing.Submit()
	if err != nil {
		b.logger.Warn("submit failed", "error", err)
	}
	return res, err
}

// EditTask loads task into the draft for editing.
func (b *Board) EditTask(task models.Task) {
	b.editing.BeginEdit(task)
}

// EditTaskByID looks up id and loads it into the draft.
func (b *Board) EditTaskByID(id int64) error {
	task, err := b.store.Get(id)
	if err != nil {
		return err
	}
	b.editing.BeginEdit(*task)
	return nil
}

func (b *Board) ToggleComplete(id int64) (*models.Task, error) {
	return b.store.ToggleComplete(id)
}

func (b *Board) DeleteTask(id int64) bool {
	return b.store.Delete(id)
}

func (b *Board) SetFilter(mode models.FilterMode) {
	b.filter = mode
}

// ViewDetails opens the detail view on task.
func (b *Board) ViewDetails(task models.Task) {
	b.selection.Select(task)
}

// ViewDetailsByID looks up id and opens the detail view on it.
func (b *Board) ViewDetailsByID(id int64) error {
	task, err := b.store.Get(id)
	if err != nil {
		return err
	}
	b.selection.Select(*task)
	return nil
}

func (b *Board) CloseDetails() {
	b.selection.Close()
}

func (b *Board) SetDraftTitle(title string)             { b.editing.SetTitle(title) }
func (b *Board) SetDraftDescription(description string) { b.editing.SetDescription(description) }
func (b *Board) SetDraftDate(date *models.Date)         { b.editing.SetDate(date) }
func (b *Board) SetDraftTime(clock *models.Clock)       { b.editing.SetTime(clock) }

// --- Queries ---

func (b *Board) CurrentDraft() models.Draft {
	return b.editing.Draft()
}

func (b *Board) EditingTask() *models.Task {
	return b.editing.EditingTask()
}

func (b *Board) EditState() EditState {
	return b.editing.State()
}

// VisibleTasks applies the current filter to the live collection.
func (b *Board) VisibleTasks() []models.Task {
	return VisibleTasks(b.filter, b.store.All())
}

// AllTasks returns every task regardless of the filter.
func (b *Board) AllTasks() []models.Task {
	return b.store.All()
}

func (b *Board) CurrentFilter() models.FilterMode {
	return b.filter
}

// SelectedTask returns the task in the detail view, refreshed from the store
// when it still exists. It is nil while the view is closed.
func (b *Board) SelectedTask() *models.Task {
	sel := b.selection.Selected()
	if sel == nil {
		return nil
	}
	if current, err := b.store.Get(sel.ID); err == nil {
		return current
	}
	return sel
}

func (b *Board) IsDetailOpen() bool {
	return b.selection.IsOpen()
}
