// Package view derives what the task list displays: a status or category
// filter, then a case-insensitive text search, then an optional stable sort
// by priority. It never modifies its input.
package view

import (
	"fmt"
	"slices"
	"strings"

	"github.com/steveyegge/td/internal/types"
)

// Filter is the single combined status/category selector.
type Filter string

// Filter values
const (
	FilterAll       Filter = "All"
	FilterActive    Filter = "Active"
	FilterCompleted Filter = "Completed"
	FilterWork      Filter = Filter(types.CategoryWork)
	FilterPersonal  Filter = Filter(types.CategoryPersonal)
	FilterUrgent    Filter = Filter(types.CategoryUrgent)
)

// Filters lists every selector in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted, FilterWork, FilterPersonal, FilterUrgent}

// IsValid checks if the filter value is valid
func (f Filter) IsValid() bool {
	return slices.Contains(Filters, f)
}

// ParseFilter matches s case-insensitively. An empty string means All.
func ParseFilter(s string) (Filter, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return FilterAll, nil
	}
	for _, f := range Filters {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid filter %q (want one of All, Active, Completed, Work, Personal, Urgent)", s)
}

// Matches reports whether t passes the filter stage.
func (f Filter) Matches(t types.Task) bool {
	switch f {
	case FilterAll, "":
		return true
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return string(t.Category) == string(f)
	}
}

// Options selects the derived view.
type Options struct {
	Filter         Filter
	Search         string
	SortByPriority bool
}

// Entry is a task in the view together with its position in the task list,
// which is the handle edit, remove and toggle take.
type Entry struct {
	Position int        `json:"position"`
	Task     types.Task `json:"task"`
}

// Apply runs the filter, search and sort stages over tasks.
func Apply(tasks []types.Task, opts Options) []Entry {
	needle := strings.ToLower(opts.Search)
	out := make([]Entry, 0, len(tasks))
	for i, t := range tasks {
		if !opts.Filter.Matches(t) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(t.Text), needle) {
			continue
		}
		out = append(out, Entry{Position: i, Task: t})
	}
	if opts.SortByPriority {
		slices.SortStableFunc(out, func(a, b Entry) int {
			return types.ComparePriority(a.Task, b.Task)
		})
	}
	return out
}

// Tasks strips positions from entries.
func Tasks(entries []Entry) []types.Task {
	out := make([]types.Task, len(entries))
	for i, e := range entries {
		out[i] = e.Task
	}
	return out
}
