// Package rest exposes the board, the categories and the record gateway over
// HTTP with gin.
package rest

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskflow/board"
	"taskflow/domain"
	"taskflow/domain/entity"
	"taskflow/domain/gateway"
)

// CategoryService is the category store behind /api/v1/categories
type CategoryService interface {
	GetAll(ctx context.Context) ([]entity.Category, error)
	GetByID(ctx context.Context, id int64) (entity.Category, error)
	Create(ctx context.Context, d entity.CategoryDraft) (entity.Category, error)
	Update(ctx context.Context, id int64, p entity.CategoryPatch) (entity.Category, error)
	Delete(ctx context.Context, id int64) error
}

// Handler handles HTTP requests
type Handler struct {
	board      *board.Controller
	categories CategoryService
	records    gateway.Gateway
	log        *zap.Logger
}

// NewHandler creates a new HTTP handler. records may be nil, in which case
// the record routes are not registered.
func NewHandler(b *board.Controller, categories CategoryService, records gateway.Gateway, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		board:      b,
		categories: categories,
		records:    records,
		log:        log,
	}
}

// Register mounts every route under /api/v1. credentials guards the record routes.
func (h *Handler) Register(v1 *gin.RouterGroup, credentials gin.HandlerFunc) {
	b := v1.Group("/board")
	{
		b.GET("", h.GetBoard)
		b.PUT("/filters", h.SetFilters)
		b.PUT("/archived", h.SetArchived)
		b.POST("/reload", h.Reload)
		b.POST("/modal", h.OpenModal)
		b.DELETE("/modal", h.CloseModal)
		b.POST("/submit", h.Submit)
		b.POST("/tasks/:id/edit", h.OpenEdit)
		b.POST("/tasks/:id/toggle", h.ToggleTask)
		b.POST("/tasks/:id/archive", h.ArchiveTask)
		b.DELETE("/tasks/:id", h.DeleteTask)
	}

	c := v1.Group("/categories")
	{
		c.GET("", h.ListCategories)
		c.POST("", h.CreateCategory)
		c.POST("/sync", h.SyncCategoryCounts)
		c.GET("/:id", h.GetCategory)
		c.PUT("/:id", h.UpdateCategory)
		c.DELETE("/:id", h.DeleteCategory)
	}

	if h.records == nil {
		return
	}
	r := v1.Group("/records/:collection")
	if credentials != nil {
		r.Use(credentials)
	}
	{
		r.POST("/query", h.QueryRecords)
		r.GET("/:id", h.GetRecord)
		r.POST("", h.CreateRecords)
		r.PUT("", h.UpdateRecords)
		r.DELETE("", h.DeleteRecords)
	}
}

func parseID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: %w", raw, domain.ErrBadParamInput)
	}
	return id, nil
}
