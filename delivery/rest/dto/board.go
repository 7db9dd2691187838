package dto

import (
	"taskflow/board"
	"taskflow/domain/entity"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// FiltersRequest replaces the board filters
type FiltersRequest struct {
	Category string `json:"category"`
	Priority string `json:"priority"`
	Status   string `json:"status"`
	Search   string `json:"search"`
}

// ToFilters converts the request; empty selectors mean "all"
func (r FiltersRequest) ToFilters() board.Filters {
	return board.Filters{
		Category: r.Category,
		Priority: r.Priority,
		Status:   board.Status(r.Status),
		Search:   r.Search,
	}.Normalize()
}

// ArchivedRequest switches between the active and archived views
type ArchivedRequest struct {
	Show *bool `json:"show" binding:"required"`
}

// ToggleRequest sets a task's completion
type ToggleRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// TaskResponse wraps a task returned by a board mutation
type TaskResponse struct {
	Task entity.Task `json:"task"`
}

// SyncResponse reports how many category counts were written
type SyncResponse struct {
	Updated int `json:"updated"`
}

// Validate validates the request and returns an error if invalid
func (r FiltersRequest) Validate() error {
	return r.ToFilters().Validate()
}
