package rest

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskflow/delivery/rest/dto"
	"taskflow/delivery/rest/response"
)

// ListCategories handles GET /api/v1/categories
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.categories.GetAll(c.Request.Context())
	if err != nil {
		response.Error(c, h.log, "Failed to load categories", err)
		return
	}
	response.Success(c, categories)
}

// GetCategory handles GET /api/v1/categories/:id
func (h *Handler) GetCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, h.log, err.Error(), err)
		return
	}

	category, err := h.categories.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, h.log, "Category not found", err)
		return
	}
	response.Success(c, category)
}

// CreateCategory handles POST /api/v1/categories
func (h *Handler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMessage(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, h.log, err.Error(), err)
		return
	}

	category, err := h.categories.Create(c.Request.Context(), req.ToDraft())
	if err != nil {
		response.Error(c, h.log, "Failed to create category", err)
		return
	}
	h.refreshBoard(c.Request.Context())
	response.Created(c, category)
}

// UpdateCategory handles PUT /api/v1/categories/:id
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, h.log, err.Error(), err)
		return
	}
	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMessage(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, h.log, err.Error(), err)
		return
	}

	category, err := h.categories.Update(c.Request.Context(), id, req.ToPatch())
	if err != nil {
		response.Error(c, h.log, "Failed to update category", err)
		return
	}
	h.refreshBoard(c.Request.Context())
	response.Success(c, category)
}

// DeleteCategory handles DELETE /api/v1/categories/:id
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, h.log, err.Error(), err)
		return
	}

	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, h.log, "Failed to delete category", err)
		return
	}
	h.refreshBoard(c.Request.Context())
	response.NoContent(c)
}

// SyncCategoryCounts handles POST /api/v1/categories/sync
func (h *Handler) SyncCategoryCounts(c *gin.Context) {
	updated, err := h.board.SyncCategoryCounts(c.Request.Context())
	if err != nil {
		response.Error(c, h.log, "Failed to sync category counts", err)
		return
	}
	response.Success(c, dto.SyncResponse{Updated: updated})
}

// refreshBoard reloads the board so its sidebar picks up category changes.
// A failed reload has already been reported by the board itself.
func (h *Handler) refreshBoard(ctx context.Context) {
	if err := h.board.Load(ctx); err != nil {
		h.log.Warn("Board reload after category change failed", zap.Error(err))
	}
}
