package core

import (
	"context"

	"github.com/valter-silva-au/taskpad/pkg/models"
)

// TaskPersister is the key-value persistence capability the task store
// writes through. It is defined locally in core to avoid importing storage.
//
// Load reports false when nothing usable is stored; implementations log their
// own failures. Save must return without waiting for the write and must apply
// saves in the order they were issued.
type TaskPersister interface {
	Load(ctx context.Context) ([]models.Task, bool)
	Save(tasks []models.Task)
}
