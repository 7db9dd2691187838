package dto

import (
	"fmt"
	"strings"

	"taskflow/domain"
	"taskflow/domain/entity"
)

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

// Validate validates the request and returns an error if invalid
func (r *CreateCategoryRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name must not be blank: %w", domain.ErrBadParamInput)
	}
	return nil
}

// ToDraft converts the request to a draft
func (r *CreateCategoryRequest) ToDraft() entity.CategoryDraft {
	return entity.CategoryDraft{Name: strings.TrimSpace(r.Name), Color: r.Color}
}

// UpdateCategoryRequest is a partial category update
type UpdateCategoryRequest struct {
	Name      *string `json:"name"`
	Color     *string `json:"color"`
	TaskCount *int    `json:"task_count"`
}

// Validate validates the request and returns an error if invalid
func (r *UpdateCategoryRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return fmt.Errorf("name must not be blank: %w", domain.ErrBadParamInput)
	}
	if r.TaskCount != nil && *r.TaskCount < 0 {
		return fmt.Errorf("task_count must not be negative: %w", domain.ErrBadParamInput)
	}
	return nil
}

// ToPatch converts the request to a patch
func (r *UpdateCategoryRequest) ToPatch() entity.CategoryPatch {
	p := entity.CategoryPatch{Color: r.Color, TaskCount: r.TaskCount}
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		p.Name = &name
	}
	return p
}
