package board

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskflow/domain"
	"taskflow/domain/entity"
)

func sampleTasks() []entity.Task {
	d := func(s string) entity.Date { v, _ := entity.ParseDate(s); return v }
	return []entity.Task{
		{ID: 1, Title: "Write report", Description: "quarterly numbers", Category: "Work", Priority: entity.PriorityHigh, DueDate: d("2025-06-03")},
		{ID: 2, Title: "Buy milk", Category: "Personal", Priority: entity.PriorityLow, DueDate: d("2025-06-01"), Completed: true},
		{ID: 3, Title: "Gym", Description: "leg day REPORT", Category: "Health", Priority: entity.PriorityMedium, DueDate: d("2025-06-02")},
		{ID: 4, Title: "Standup", Category: "Work", Priority: entity.PriorityMedium, DueDate: d("2025-06-01"), Completed: true},
		{ID: 5, Title: "Dentist", Category: "Personal", Priority: entity.PriorityHigh, DueDate: d("2025-06-05")},
	}
}

func ids(tasks []entity.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
		want    []int64
	}{
		{name: "defaults show everything", filters: DefaultFilters(), want: []int64{1, 2, 3, 4, 5}},
		{name: "zero value behaves like defaults", filters: Filters{}, want: []int64{1, 2, 3, 4, 5}},
		{name: "search title and description ignoring case", filters: Filters{Search: "report"}, want: []int64{1, 3}},
		{name: "category", filters: Filters{Category: "Work"}, want: []int64{1, 4}},
		{name: "priority", filters: Filters{Priority: "High"}, want: []int64{1, 5}},
		{name: "pending", filters: Filters{Status: StatusPending}, want: []int64{1, 3, 5}},
		{name: "completed", filters: Filters{Status: StatusCompleted}, want: []int64{2, 4}},
		{name: "combined", filters: Filters{Category: "Work", Status: StatusCompleted}, want: []int64{4}},
		{name: "no match", filters: Filters{Category: "Health", Priority: "Low"}, want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(sampleTasks(), tt.filters)))
		})
	}
}

func TestApplyIsOrderIndependent(t *testing.T) {
	full := Filters{Search: "e", Category: "Personal", Priority: "High", Status: StatusPending}
	single := []Filters{
		{Search: full.Search},
		{Category: full.Category},
		{Priority: full.Priority},
		{Status: full.Status},
	}
	want := ids(Apply(sampleTasks(), full))

	var permute func(rest []Filters, chosen []Filters)
	permute = func(rest []Filters, chosen []Filters) {
		if len(rest) == 0 {
			tasks := sampleTasks()
			for _, f := range chosen {
				tasks = Apply(tasks, f)
			}
			assert.Equal(t, want, ids(tasks))
			return
		}
		for i := range rest {
			next := append(append([]Filters{}, rest[:i]...), rest[i+1:]...)
			permute(next, append(append([]Filters{}, chosen...), rest[i]))
		}
	}
	permute(single, nil)
}

func TestFiltersValidate(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
		wantErr bool
	}{
		{name: "zero value", filters: Filters{}},
		{name: "all selectors", filters: DefaultFilters()},
		{name: "pending high", filters: Filters{Status: StatusPending, Priority: "High"}},
		{name: "any category", filters: Filters{Category: "Garden"}},
		{name: "unknown status", filters: Filters{Status: "foo"}, wantErr: true},
		{name: "unknown priority", filters: Filters{Priority: "Urgent"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filters.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrBadParamInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFiltersActive(t *testing.T) {
	assert.False(t, DefaultFilters().Active())
	assert.True(t, Filters{Search: "   "}.Active(), "whitespace is a query")
	assert.True(t, Filters{Search: "x"}.Active())
	assert.True(t, Filters{Status: StatusPending}.Active())
}

func TestSortForDisplay(t *testing.T) {
	sorted := SortForDisplay(sampleTasks())
	// pending by priority then due date, completed last
	assert.Equal(t, []int64{1, 5, 3, 4, 2}, ids(sorted))

	tasks := sampleTasks()
	SortForDisplay(tasks)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(tasks), "input is not reordered")
}
