package models

// Event types recorded for task mutations.
const (
	EventTaskCreated   = "task.created"
	EventTaskUpdated   = "task.updated"
	EventTaskCompleted = "task.completed"
	EventTaskReopened  = "task.reopened"
	EventTaskDeleted   = "task.deleted"
)

// TaskEventTypes lists every task event type.
var TaskEventTypes = []string{
	EventTaskCreated,
	EventTaskUpdated,
	EventTaskCompleted,
	EventTaskReopened,
	EventTaskDeleted,
}
