package entity

// Category groups tasks by area (Work, Personal, ...)
type Category struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	TaskCount int    `json:"task_count"`
}

// CategoryDraft holds the fields of a category that does not exist yet
type CategoryDraft struct {
	Name  string
	Color string
}

// CategoryPatch is a partial category update. Nil fields are left untouched.
type CategoryPatch struct {
	Name      *string
	Color     *string
	TaskCount *int
}

// Apply merges p into a copy of c and returns it
func (c Category) Apply(p CategoryPatch) Category {
	out := c
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Color != nil {
		out.Color = *p.Color
	}
	if p.TaskCount != nil {
		out.TaskCount = *p.TaskCount
	}
	return out
}
