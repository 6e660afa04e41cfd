package core

import "github.com/valter-silva-au/taskpad/pkg/models"

// DetailSelection tracks the task shown in the read-only detail view. The
// selected task is kept after Close but is not reported while closed.
type DetailSelection struct {
	task *models.Task
	open bool
}

// Select shows task in the detail view.
func (d *DetailSelection) Select(task models.Task) {
	t := task.Clone()
	d.task = &t
	d.open = true
}

// Close hides the detail view.
func (d *DetailSelection) Close() {
	d.open = false
}

// IsOpen reports whether the detail view is shown.
func (d *DetailSelection) IsOpen() bool {
	return d.open
}

// Selected returns the selected task, or nil when the view is closed.
func (d *DetailSelection) Selected() *models.Task {
	if !d.open || d.task == nil {
		return nil
	}
	t := d.task.Clone()
	return &t
}
