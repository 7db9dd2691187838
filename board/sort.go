package board

import (
	"sort"

	"taskflow/domain/entity"
)

// SortForDisplay returns a sorted copy: pending before completed, then by
// priority (High first), then by due date, then by id.
func SortForDisplay(tasks []entity.Task) []entity.Task {
	out := make([]entity.Task, len(tasks))
	copy(out, tasks)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
			return ra < rb
		}
		if !a.DueDate.Equal(b.DueDate.Time) {
			// undated tasks go last
			if a.DueDate.IsZero() || b.DueDate.IsZero() {
				return b.DueDate.IsZero()
			}
			return a.DueDate.Before(b.DueDate)
		}
		return a.ID < b.ID
	})
	return out
}
