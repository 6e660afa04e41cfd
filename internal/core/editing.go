package core

import "github.com/valter-silva-au/taskpad/pkg/models"

// EditState is the state of the editing session.
type EditState int

const (
	// EditIdle means a submit creates a new task.
	EditIdle EditState = iota
	// EditEditing means a submit amends the referenced task.
	EditEditing
)

func (s EditState) String() string {
	if s == EditEditing {
		return "editing"
	}
	return "idle"
}

// SubmitAction reports what a submit did.
type SubmitAction int

const (
	SubmitIgnored SubmitAction = iota
	SubmitCreated
	SubmitUpdated
)

func (a SubmitAction) String() string {
	switch a {
	case SubmitCreated:
		return "created"
	case SubmitUpdated:
		return "updated"
	default:
		return "ignored"
	}
}

// SubmitResult is the outcome of EditingSession.Submit. Task is nil when the
// submit was ignored or its target no longer exists.
type SubmitResult struct {
	Action SubmitAction
	Task   *models.Task
}

// EditingSession stages draft field values and decides whether a submit
// creates a task or amends the one being edited.
type EditingSession struct {
	store          TaskStore
	applyAllFields bool

	draft   models.Draft
	editing *models.Task
}

// NewEditingSession creates an idle session bound to store. When
// applyAllFields is false an edit submit changes only the title; otherwise it
// also writes the draft description, date and time.
func NewEditingSession(store TaskStore, applyAllFields bool) *EditingSession {
	return &EditingSession{store: store, applyAllFields: applyAllFields}
}

// BeginEdit loads task into the draft and targets it for the next submit.
// Calling it while already editing re-targets the session.
func (e *EditingSession) BeginEdit(task models.Task) {
	t := task.Clone()
	e.draft = models.Draft{
		Title:       t.Title,
		Description: t.Description,
		Date:        t.Date,
		Time:        t.Time,
	}
	e.editing = &t
}

func (e *EditingSession) SetTitle(title string)             { e.draft.Title = title }
func (e *EditingSession) SetDescription(description string) { e.draft.Description = description }
func (e *EditingSession) SetDate(date *models.Date)         { e.draft.Date = date }
func (e *EditingSession) SetTime(clock *models.Clock)       { e.draft.Time = clock }

// Draft returns a copy of the staged values.
func (e *EditingSession) Draft() models.Draft {
	d := e.draft
	snap := models.Task{Date: d.Date, Time: d.Time}.Clone()
	d.Date, d.Time = snap.Date, snap.Time
	return d
}

// EditingTask returns the task targeted by the session, or nil when idle.
func (e *EditingSession) EditingTask() *models.Task {
	if e.editing == nil {
		return nil
	}
	t := e.editing.Clone()
	return &t
}

// State reports whether the session is idle or editing.
func (e *EditingSession) State() EditState {
	if e.editing != nil {
		return EditEditing
	}
	return EditIdle
}

// Submit commits the draft. A blank title leaves everything untouched.
// Otherwise the session always returns to idle with a cleared draft, even when
// the edited task has disappeared in the meantime (ErrTaskNotFound).
func (e *EditingSession) Submit() (SubmitResult, error) {
	if e.draft.IsBlank() {
		return SubmitResult{Action: SubmitIgnored}, nil
	}

	draft := e.draft
	target := e.editing
	e.reset()

	if target == nil {
		task, err := e.store.Add(draft.Title, draft.Description, draft.Date, draft.Time)
		if err != nil {
			return SubmitResult{Action: SubmitIgnored}, err
		}
		return SubmitResult{Action: SubmitCreated, Task: task}, nil
	}

	var (
		task *models.Task
		err  error
	)
	if e.applyAllFields {
		task, err = e.store.Amend(target.ID, TaskFields{
			Title:       draft.Title,
			Description: draft.Description,
			Date:        draft.Date,
			Time:        draft.Time,
		})
	} else {
		task, err = e.store.Update(target.ID, draft.Title)
	}
	if err != nil {
		return SubmitResult{Action: SubmitIgnored}, err
	}
	return SubmitResult{Action: SubmitUpdated, Task: task}, nil
}

func (e *EditingSession) reset() {
	e.draft = models.Draft{}
	e.editing = nil
}
