package board

import (
	"fmt"

	"taskflow/domain"
	"taskflow/domain/entity"
)

// All selects every value of a category or priority filter
const All = "all"

// Status filters tasks by completion
type Status string

const (
	StatusAll       Status = "all"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Filters narrows the loaded tasks down to the visible ones
type Filters struct {
	Category string `json:"category"`
	Priority string `json:"priority"`
	Status   Status `json:"status"`
	Search   string `json:"search"`
}

// DefaultFilters shows everything
func DefaultFilters() Filters {
	return Filters{Category: All, Priority: All, Status: StatusAll}
}

// Normalize fills empty selectors with All
func (f Filters) Normalize() Filters {
	if f.Category == "" {
		f.Category = All
	}
	if f.Priority == "" {
		f.Priority = All
	}
	if f.Status == "" {
		f.Status = StatusAll
	}
	return f
}

// Validate rejects an unknown status or priority. Empty selectors are valid.
func (f Filters) Validate() error {
	f = f.Normalize()
	switch f.Status {
	case StatusAll, StatusPending, StatusCompleted:
	default:
		return fmt.Errorf("status must be one of all, pending, completed: %w", domain.ErrBadParamInput)
	}
	if f.Priority != All && !entity.Priority(f.Priority).Valid() {
		return fmt.Errorf("priority must be all, High, Medium or Low: %w", domain.ErrBadParamInput)
	}
	return nil
}

// Active reports whether any filter narrows the view
func (f Filters) Active() bool {
	f = f.Normalize()
	return f.Search != "" ||
		f.Category != All ||
		f.Priority != All ||
		f.Status != StatusAll
}

type predicate func(entity.Task) bool

func (f Filters) predicates() []predicate {
	f = f.Normalize()
	var ps []predicate

	if f.Search != "" {
		ps = append(ps, func(t entity.Task) bool { return t.Matches(f.Search) })
	}
	if f.Category != All {
		ps = append(ps, func(t entity.Task) bool { return t.Category == f.Category })
	}
	if f.Priority != All {
		ps = append(ps, func(t entity.Task) bool { return string(t.Priority) == f.Priority })
	}
	switch f.Status {
	case StatusCompleted:
		ps = append(ps, func(t entity.Task) bool { return t.Completed })
	case StatusPending:
		ps = append(ps, func(t entity.Task) bool { return !t.Completed })
	}
	return ps
}

// Apply returns the tasks passing every filter, in their original order.
// The predicates are independent, so the order they run in does not matter.
func Apply(tasks []entity.Task, f Filters) []entity.Task {
	ps := f.predicates()
	out := make([]entity.Task, 0, len(tasks))
next:
	for _, t := range tasks {
		for _, p := range ps {
			if !p(t) {
				continue next
			}
		}
		out = append(out, t)
	}
	return out
}
