// Package types defines core data structures for the td task list.
package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of Task.DueDate.
const DateLayout = "2006-01-02"

// ErrEmptyText is returned when a task's text is empty or whitespace-only.
var ErrEmptyText = errors.New("task text is required")

// Task is one entry of the task list. Field names and tags match the
// persisted wire format, so a stored list round-trips through encoding/json.
type Task struct {
	Text      string   `json:"text" yaml:"text" toml:"text" msgpack:"text"`
	Completed bool     `json:"completed" yaml:"completed" toml:"completed" msgpack:"completed"`
	Category  Category `json:"category" yaml:"category" toml:"category" msgpack:"category"`
	DueDate   string   `json:"dueDate" yaml:"dueDate" toml:"dueDate" msgpack:"dueDate"`
	Priority  Priority `json:"priority" yaml:"priority" toml:"priority" msgpack:"priority"`
	Notes     string   `json:"notes" yaml:"notes" toml:"notes" msgpack:"notes"`
}

// Validate checks that the task has displayable text and valid enum fields.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Text) == "" {
		return ErrEmptyText
	}
	if !t.Category.IsValid() {
		return fmt.Errorf("invalid category: %q", t.Category)
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("invalid priority: %q", t.Priority)
	}
	if t.DueDate != "" {
		if _, err := time.Parse(DateLayout, t.DueDate); err != nil {
			return fmt.Errorf("invalid due date %q: expected YYYY-MM-DD", t.DueDate)
		}
	}
	return nil
}

// SetDefaults fills in the category and priority when they are unset.
func (t *Task) SetDefaults() {
	if t.Category == "" {
		t.Category = DefaultCategory
	}
	if t.Priority == "" {
		t.Priority = DefaultPriority
	}
}

// Due returns the parsed due date. ok is false when no date is set or the
// stored value is not a calendar date.
func (t *Task) Due() (due time.Time, ok bool) {
	if t.DueDate == "" {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(DateLayout, t.DueDate, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// IsOverdue reports whether an open task's due date is before the day of now.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.Completed {
		return false
	}
	due, ok := t.Due()
	if !ok {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, due.Location())
	return due.Before(today)
}

// Category groups tasks by area of life
type Category string

// Category constants
const (
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryUrgent   Category = "Urgent"
)

// DefaultCategory is assigned to tasks created without an explicit category.
const DefaultCategory = CategoryWork

// Categories lists the valid categories in display order.
var Categories = []Category{CategoryWork, CategoryPersonal, CategoryUrgent}

// IsValid checks if the category value is valid
func (c Category) IsValid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryUrgent:
		return true
	}
	return false
}

// ParseCategory matches s case-insensitively against the valid categories.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid category %q (want Work, Personal or Urgent)", s)
}

// Priority is the importance of a task
type Priority string

// Priority constants
const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// DefaultPriority is assigned to tasks created without an explicit priority.
const DefaultPriority = PriorityMedium

// Priorities lists the valid priorities from most to least important.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// IsValid checks if the priority value is valid
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank orders priorities for sorting: High=1, Medium=2, Low=3.
// Unknown values sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

// ParsePriority matches s case-insensitively against the valid priorities.
func ParsePriority(s string) (Priority, error) {
	for _, p := range Priorities {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid priority %q (want High, Medium or Low)", s)
}

// Draft holds the editable form fields used to build the next task.
type Draft struct {
	Text     string   `json:"text"`
	Category Category `json:"category"`
	DueDate  string   `json:"dueDate"`
	Priority Priority `json:"priority"`
	Notes    string   `json:"notes"`
}

// NewDraft returns a draft with every field at its default.
func NewDraft() Draft {
	return Draft{Category: DefaultCategory, Priority: DefaultPriority}
}

// DraftFromTask copies a task's editable fields into a draft.
func DraftFromTask(t Task) Draft {
	return Draft{
		Text:     t.Text,
		Category: t.Category,
		DueDate:  t.DueDate,
		Priority: t.Priority,
		Notes:    t.Notes,
	}
}

// Task builds an open task from the draft.
func (d Draft) Task() Task {
	t := Task{
		Text:     d.Text,
		Category: d.Category,
		DueDate:  d.DueDate,
		Priority: d.Priority,
		Notes:    d.Notes,
	}
	t.SetDefaults()
	return t
}

// IsZero reports whether the draft equals NewDraft().
func (d Draft) IsZero() bool {
	return d == NewDraft()
}

// Stats summarises a task list
type Stats struct {
	Total      int              `json:"total"`
	Completed  int              `json:"completed"`
	Active     int              `json:"active"`
	Overdue    int              `json:"overdue"`
	ByCategory map[Category]int `json:"by_category"`
	ByPriority map[Priority]int `json:"by_priority"`
}

// ComputeStats counts tasks by completion, category and priority.
func ComputeStats(tasks []Task, now time.Time) Stats {
	s := Stats{
		ByCategory: make(map[Category]int, len(Categories)),
		ByPriority: make(map[Priority]int, len(Priorities)),
	}
	for _, c := range Categories {
		s.ByCategory[c] = 0
	}
	for _, p := range Priorities {
		s.ByPriority[p] = 0
	}
	for i := range tasks {
		t := &tasks[i]
		s.Total++
		if t.Completed {
			s.Completed++
		} else {
			s.Active++
		}
		if t.IsOverdue(now) {
			s.Overdue++
		}
		s.ByCategory[t.Category]++
		s.ByPriority[t.Priority]++
	}
	return s
}
