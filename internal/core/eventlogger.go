package core

import "github.com/valter-silva-au/taskpad/pkg/models"

// EventLogger records task mutations. Defining it here avoids importing the
// observability package.
type EventLogger interface {
	LogTaskEvent(eventType string, task models.Task) error
}

// Event types emitted by the task store.
const (
	EventTaskCreated   = models.EventTaskCreated
	EventTaskUpdated   = models.EventTaskUpdated
	EventTaskCompleted = models.EventTaskCompleted
	EventTaskReopened  = models.EventTaskReopened
	EventTaskDeleted   = models.EventTaskDeleted
)
