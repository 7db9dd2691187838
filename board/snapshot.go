package board

import (
	"time"

	"taskflow/domain/entity"
)

// TaskView is a task as the board renders it
type TaskView struct {
	entity.Task
	DueLabel string `json:"due_label"`
	DueToday bool   `json:"due_today"`
	Overdue  bool   `json:"overdue"`
}

// CategoryView is a category with its count derived from the loaded tasks.
// The stored task_count is not shown.
type CategoryView struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	TaskCount int    `json:"task_count"`
}

// Snapshot is an immutable copy of the board state
type Snapshot struct {
	Tasks        []TaskView     `json:"tasks"`
	Categories   []CategoryView `json:"categories"`
	Filters      Filters        `json:"filters"`
	ShowArchived bool           `json:"show_archived"`
	Loading      bool           `json:"loading"`
	ModalOpen    bool           `json:"modal_open"`
	Editing      *entity.Task   `json:"editing,omitempty"`
	Form         *Form          `json:"form,omitempty"`
	HasFilters   bool           `json:"has_filters"`
	TotalTasks   int            `json:"total_tasks"`
	Loaded       int            `json:"loaded"`
}

// Visible returns the ids of the rendered tasks in display order
func (s Snapshot) Visible() []int64 {
	ids := make([]int64, len(s.Tasks))
	for i, t := range s.Tasks {
		ids[i] = t.ID
	}
	return ids
}

// Category returns the view of the named category
func (s Snapshot) Category(name string) (CategoryView, bool) {
	for _, c := range s.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return CategoryView{}, false
}

func viewTask(t entity.Task, now time.Time) TaskView {
	v := TaskView{Task: t}
	if t.DueDate.IsZero() {
		return v
	}

	today := entity.NewDate(now)
	tomorrow := entity.NewDate(now.AddDate(0, 0, 1))
	switch {
	case t.DueDate.Equal(today.Time):
		v.DueLabel = "Today"
		v.DueToday = true
	case t.DueDate.Equal(tomorrow.Time):
		v.DueLabel = "Tomorrow"
	default:
		v.DueLabel = t.DueDate.Format("Jan 02")
	}
	v.Overdue = !t.Completed && t.DueDate.Before(today)
	return v
}

// countByCategory counts tasks per category name
func countByCategory(tasks []entity.Task) map[string]int {
	counts := make(map[string]int)
	for _, t := range tasks {
		counts[t.Category]++
	}
	return counts
}

func viewCategories(categories []entity.Category, tasks []entity.Task) ([]CategoryView, int) {
	counts := countByCategory(tasks)
	out := make([]CategoryView, len(categories))
	total := 0
	for i, c := range categories {
		n := counts[c.Name]
		out[i] = CategoryView{ID: c.ID, Name: c.Name, Color: c.Color, TaskCount: n}
		total += n
	}
	return out, total
}
