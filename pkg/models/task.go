package models

import (
	"fmt"
	"strings"
	"time"
)

// Task is a single to-do item. It is the only entity that is persisted.
type Task struct {
	ID          int64  `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Completed   bool   `json:"completed" yaml:"completed"`
	Description string `json:"description" yaml:"description"`
	Date        *Date  `json:"date" yaml:"date"`
	Time        *Clock `json:"time" yaml:"time"`
}

// Clone returns a deep copy of the task so callers can hand out snapshots
// without sharing the date and time pointers.
func (t Task) Clone() Task {
	c := t
	if t.Date != nil {
		d := *t.Date
		c.Date = &d
	}
	if t.Time != nil {
		tm := *t.Time
		c.Time = &tm
	}
	return c
}

// Draft holds the staged field values of the task form.
type Draft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        *Date  `json:"date"`
	Time        *Clock `json:"time"`
}

// IsBlank reports whether the draft title is empty after trimming.
func (d Draft) IsBlank() bool {
	return strings.TrimSpace(d.Title) == ""
}

// Date is a calendar date without a time-of-day component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const dateLayout = "2006-01-02"

// NewDate builds a Date from its parts.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate accepts YYYY-MM-DD or a full RFC 3339 timestamp. A timestamp is
// an instant, so its date is taken in the local time zone.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return DateOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return DateOf(t.Local()), nil
	}
	return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML emits the date as a plain YYYY-MM-DD scalar.
func (d Date) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML reads a YYYY-MM-DD or RFC 3339 scalar.
func (d *Date) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// Clock is a time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

// NewClock builds a Clock, rejecting out-of-range values.
func NewClock(hour, minute int) (Clock, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("invalid time %02d:%02d", hour, minute)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// ParseClock accepts HH:MM, HH:MM:SS or a full RFC 3339 timestamp, which is
// read in the local time zone.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t = t.Local()
		return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
	}
	return Clock{}, fmt.Errorf("invalid time %q: expected HH:MM", s)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// MarshalText implements encoding.TextMarshaler.
func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Clock) UnmarshalText(b []byte) error {
	parsed, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML emits the clock as a quoted-safe HH:MM scalar.
func (c Clock) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// UnmarshalYAML reads an HH:MM scalar.
func (c *Clock) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return c.UnmarshalText([]byte(s))
}
