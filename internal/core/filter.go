package core

import "github.com/valter-silva-au/taskpad/pkg/models"

// VisibleTasks returns the tasks of collection that mode admits, in their
// original order. Unknown modes behave like FilterAll. collection is not
// modified.
func VisibleTasks(mode models.FilterMode, collection []models.Task) []models.Task {
	out := make([]models.Task, 0, len(collection))
	for _, t := range collection {
		if matchesFilter(mode, t) {
			out = append(out, t.Clone())
		}
	}
	return out
}

func matchesFilter(mode models.FilterMode, t models.Task) bool {
	switch mode {
	case models.FilterCompleted:
		return t.Completed
	case models.FilterPending:
		return !t.Completed
	default:
		return true
	}
}
