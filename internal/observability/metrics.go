package observability

import (
	"fmt"
	"strconv"
	"time"

	"github.com/valter-silva-au/taskpad/pkg/models"
)

// Metrics holds counts derived from the event log.
type Metrics struct {
	TasksCreated   int        `json:"tasks_created"`
	TasksUpdated   int        `json:"tasks_updated"`
	TasksCompleted int        `json:"tasks_completed"`
	TasksReopened  int        `json:"tasks_reopened"`
	TasksDeleted   int        `json:"tasks_deleted"`
	Runs           int        `json:"runs"`
	EventCount     int        `json:"event_count"`
	OldestEvent    *time.Time `json:"oldest_event,omitempty"`
	NewestEvent    *time.Time `json:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a new MetricsCalculator that reads from the given EventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate reads all events since the given time and aggregates them.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{EventCount: len(events)}
	runs := make(map[string]struct{})

	for i, event := range events {
		if i == 0 {
			t := event.Time
			m.OldestEvent = &t
		}
		t := event.Time
		m.NewestEvent = &t
		if event.Run != "" {
			runs[event.Run] = struct{}{}
		}

		switch event.Type {
		case models.EventTaskCreated:
			m.TasksCreated++
		case models.EventTaskUpdated:
			m.TasksUpdated++
		case models.EventTaskCompleted:
			m.TasksCompleted++
		case models.EventTaskReopened:
			m.TasksReopened++
		case models.EventTaskDeleted:
			m.TasksDeleted++
		}
	}
	m.Runs = len(runs)

	return m, nil
}

// ParseSince parses a human-friendly window like "7d" or "24h" into the
// corresponding instant before now.
func ParseSince(s string, now time.Time) (time.Time, error) {
	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]
	num, err := strconv.Atoi(numStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if num < 0 {
		return time.Time{}, fmt.Errorf("invalid duration %q: must not be negative", s)
	}

	switch suffix {
	case 'd':
		return now.AddDate(0, 0, -num), nil
	case 'h':
		return now.Add(-time.Duration(num) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported duration suffix %q (use d or h)", string(suffix))
	}
}
