package entity

import (
	"strings"
	"time"
)

// Task is a single to-do item
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Priority    Priority   `json:"priority"`
	DueDate     Date       `json:"due_date"`
	Completed   bool       `json:"completed"`
	Archived    bool       `json:"archived"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// TaskDraft holds the user-supplied fields of a task that does not exist yet
type TaskDraft struct {
	Title       string
	Description string
	Category    string
	Priority    Priority
	DueDate     Date
}

// TaskPatch is a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Category    *string
	Priority    *Priority
	DueDate     *Date
	Completed   *bool
	Archived    *bool
	CompletedAt *time.Time
}

// NewTask builds the record a draft becomes on creation
func NewTask(d TaskDraft, now time.Time) Task {
	return Task{
		Title:       strings.TrimSpace(d.Title),
		Description: d.Description,
		Category:    d.Category,
		Priority:    d.Priority,
		DueDate:     d.DueDate,
		Completed:   false,
		Archived:    false,
		CreatedAt:   now,
		CompletedAt: nil,
	}
}

// Matches reports whether query is a case-insensitive substring of the title or description.
// An empty query matches everything.
func (t *Task) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q)
}

// Apply merges p into a copy of t and returns it.
//
// Completing a task that was not completed stamps CompletedAt with now unless
// the patch carries its own CompletedAt. Explicitly setting Completed to false
// clears CompletedAt. A patch that does not mention Completed leaves both alone.
func (t Task) Apply(p TaskPatch, now time.Time) Task {
	out := t
	if p.Title != nil {
		out.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	if p.DueDate != nil {
		out.DueDate = *p.DueDate
	}
	if p.Archived != nil {
		out.Archived = *p.Archived
	}

	if p.Completed != nil {
		switch {
		case *p.Completed && p.CompletedAt != nil:
			out.Completed = true
			at := *p.CompletedAt
			out.CompletedAt = &at
		case *p.Completed && !t.Completed:
			out.Completed = true
			at := now
			out.CompletedAt = &at
		case *p.Completed:
			// already completed: keep the original timestamp
			if out.CompletedAt == nil {
				at := now
				out.CompletedAt = &at
			}
		default:
			out.Completed = false
			out.CompletedAt = nil
		}
	}

	return out
}

// Bool returns a pointer to b, for building patches
func Bool(b bool) *bool { return &b }

// String returns a pointer to s, for building patches
func String(s string) *string { return &s }
