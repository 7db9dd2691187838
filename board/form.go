package board

import (
	"errors"
	"strings"
	"time"

	"taskflow/domain"
	"taskflow/domain/entity"
)

// Form is the task editor's input
type Form struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
}

const (
	defaultCategory = "Work"
	defaultPriority = entity.PriorityMedium
)

// NewForm returns the defaults of the create dialog
func NewForm(now time.Time) Form {
	return Form{
		Category: defaultCategory,
		Priority: string(defaultPriority),
		DueDate:  entity.NewDate(now).String(),
	}
}

// FormFromTask pre-fills the editor with t
func FormFromTask(t entity.Task) Form {
	return Form{
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		Priority:    string(t.Priority),
		DueDate:     t.DueDate.String(),
	}
}

// Validate checks the form and converts it to a draft.
// Failures come back as *domain.ValidationError keyed by field.
func (f Form) Validate() (entity.TaskDraft, error) {
	errs := make(map[string]string)

	title := strings.TrimSpace(f.Title)
	if title == "" {
		errs["title"] = "Title is required"
	}

	category := strings.TrimSpace(f.Category)
	if category == "" {
		errs["category"] = "Category is required"
	}

	var priority entity.Priority
	switch p := strings.TrimSpace(f.Priority); {
	case p == "":
		errs["priority"] = "Priority is required"
	default:
		parsed, err := entity.ParsePriority(p)
		if err != nil {
			errs["priority"] = "Priority must be one of High, Medium, Low"
		}
		priority = parsed
	}

	var due entity.Date
	switch d := strings.TrimSpace(f.DueDate); {
	case d == "":
		errs["due_date"] = "Due date is required"
	default:
		parsed, err := entity.ParseDate(d)
		if err != nil {
			errs["due_date"] = "Due date must be a valid date (YYYY-MM-DD)"
		}
		due = parsed
	}

	if len(errs) > 0 {
		return entity.TaskDraft{}, &domain.ValidationError{Fields: errs}
	}

	return entity.TaskDraft{
		Title:       title,
		Description: f.Description,
		Category:    category,
		Priority:    priority,
		DueDate:     due,
	}, nil
}

// ValidateFor runs Validate and also requires the category to be one of
// categories. An empty list accepts any non-empty name.
func (f Form) ValidateFor(categories []entity.Category) (entity.TaskDraft, error) {
	d, err := f.Validate()
	if len(categories) == 0 {
		return d, err
	}

	errs := make(map[string]string)
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		errs = verr.Fields
	} else if err != nil {
		return d, err
	}

	if name := strings.TrimSpace(f.Category); name != "" && !hasCategory(categories, name) {
		errs["category"] = "Category must be one of the existing categories"
	}
	if len(errs) > 0 {
		return entity.TaskDraft{}, &domain.ValidationError{Fields: errs}
	}
	return d, nil
}

func hasCategory(categories []entity.Category, name string) bool {
	for _, c := range categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

// patch turns a validated draft into a full update
func patch(d entity.TaskDraft) entity.TaskPatch {
	return entity.TaskPatch{
		Title:       &d.Title,
		Description: &d.Description,
		Category:    &d.Category,
		Priority:    &d.Priority,
		DueDate:     &d.DueDate,
	}
}
