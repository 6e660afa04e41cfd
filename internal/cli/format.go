package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/valter-silva-au/taskpad/pkg/models"
)

func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}

// parseDateArg turns a flag value into a date; "" means no date.
func parseDateArg(s string) (*models.Date, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// parseClockArg turns a flag value into a time of day; "" means no time.
func parseClockArg(s string) (*models.Clock, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	c, err := models.ParseClock(s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func checkbox(t models.Task) string {
	if t.Completed {
		return "[x]"
	}
	return "[ ]"
}

// when renders the optional date and time of a task, or "".
func when(t models.Task) string {
	var parts []string
	if t.Date != nil {
		parts = append(parts, t.Date.String())
	}
	if t.Time != nil {
		parts = append(parts, t.Time.String())
	}
	return strings.Join(parts, " ")
}

func formatTaskLine(t models.Task) string {
	line := fmt.Sprintf("%s %d  %s", checkbox(t), t.ID, t.Title)
	if w := when(t); w != "" {
		line += "  (" + w + ")"
	}
	return line
}

func formatTaskDetail(t models.Task) string {
	var b strings.Builder
	status := "pending"
	if t.Completed {
		status = "completed"
	}
	fmt.Fprintf(&b, "ID:          %d\n", t.ID)
	fmt.Fprintf(&b, "Title:       %s\n", t.Title)
	fmt.Fprintf(&b, "Status:      %s\n", status)
	fmt.Fprintf(&b, "Description: %s\n", orDash(t.Description))
	date, clock := "-", "-"
	if t.Date != nil {
		date = t.Date.String()
	}
	if t.Time != nil {
		clock = t.Time.String()
	}
	fmt.Fprintf(&b, "Date:        %s\n", date)
	fmt.Fprintf(&b, "Time:        %s\n", clock)
	return b.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
