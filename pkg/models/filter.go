package models

import "fmt"

// FilterMode selects which tasks are visible in the list.
type FilterMode string

const (
	FilterAll       FilterMode = "all"
	FilterCompleted FilterMode = "completed"
	FilterPending   FilterMode = "pending"
)

// FilterModes lists the modes in cycling order.
var FilterModes = []FilterMode{FilterAll, FilterCompleted, FilterPending}

// ParseFilterMode converts a string into a FilterMode.
func ParseFilterMode(s string) (FilterMode, error) {
	switch FilterMode(s) {
	case FilterAll, FilterCompleted, FilterPending:
		return FilterMode(s), nil
	default:
		return "", fmt.Errorf("invalid filter %q: must be one of all, completed, pending", s)
	}
}

// Next returns the mode that follows m in FilterModes.
func (m FilterMode) Next() FilterMode {
	for i, mode := range FilterModes {
		if mode == m {
			return FilterModes[(i+1)%len(FilterModes)]
		}
	}
	return FilterAll
}
