package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskflow/board"
	"taskflow/delivery/rest/dto"
	"taskflow/delivery/rest/response"
)

// GetBoard handles GET /api/v1/board
func (h *Handler) GetBoard(c *gin.Context) {
	response.Success(c, h.board.Snapshot())
}

// SetFilters handles PUT /api/v1/board/filters
func (h *Handler) SetFilters(c *gin.Context) {
	var req dto.FiltersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMessage(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, h.log, err.Error(), err)
		return
	}

	if err := h.board.SetFilters(req.ToFilters()); err != nil {
		response.Error(c, h.log, err.Error(), err)
		return
	}
	response.Success(c, h.board.Snapshot())
}

// SetArchived handles PUT /api/v1/board/archived
func (h *Handler) SetArchived(c *gin.Context) {
	var req dto.ArchivedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.board.SetShowArchived(c.Request.Context(), *req.Show); err != nil {
		response.Error(c, h.log, board.MsgLoadFailed, err)
		return
	}
	response.Success(c, h.board.Snapshot())
}

// Reload handles POST /api/v1/board/reload
func (h *Handler) Reload(c *gin.Context) {
	if err := h.board.Load(c.Request.Context()); err != nil {
		response.Error(c, h.log, board.MsgLoadFailed, err)
		return
	}
	response.Success(c, h.board.Snapshot())
}

// OpenModal handles POST /api/v1/board/modal
func (h *Handler) OpenModal(c *gin.Context) {
	h.board.OpenCreate()
	response.Success(c, h.board.Snapshot())
}

// CloseModal handles DELETE /api/v1/board/modal
func (h *Handler) CloseModal(c *gin.Context) {
	h.board.CloseModal()
	response.Success(c, h.board.Snapshot())
}

// OpenEdit handles POST /api/v1/board/tasks/:id/edit
func (h *Handler) OpenEdit(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, h.log, err.Error(), err)
		return
	}
	if err := h.board.OpenEdit(id); err != nil {
		response.Error(c, h.log, "Task not found", err)
		return
	}
	response.Success(c, h.board.Snapshot())
}

// Submit handles POST /api/v1/board/submit
func (h *Handler) Submit(c *gin.Context) {
	var form board.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		response.ErrorWithMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	editing := h.board.Snapshot().Editing != nil
	task, err := h.board.Submit(c.Request.Context(), form)
	if err != nil {
		msg := board.MsgCreateFailed
		if editing {
			msg = board.MsgUpdateFailed
		}
		response.Error(c, h.log, msg, err)
		return
	}

	if editing {
		response.Success(c, dto.TaskResponse{Task: task})
		return
	}
	response.Created(c, dto.TaskResponse{Task: task})
}

// ToggleTask handles POST /api/v1/board/tasks/:id/toggle
func (h *Handler) ToggleTask(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, h.log, err.Error(), err)
		return
	}
	var req dto.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.board.ToggleComplete(c.Request.Context(), id, *req.Completed)
	if err != nil {
		response.Error(c, h.log, board.MsgUpdateFailed, err)
		return
	}
	response.Success(c, dto.TaskResponse{Task: task})
}

// ArchiveTask handles POST /api/v1/board/tasks/:id/archive
func (h *Handler) ArchiveTask(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, h.log, err.Error(), err)
		return
	}

	task, err := h.board.Archive(c.Request.Context(), id)
	if err != nil {
		response.Error(c, h.log, board.MsgArchiveFailed, err)
		return
	}
	response.Success(c, dto.TaskResponse{Task: task})
}

// DeleteTask handles DELETE /api/v1/board/tasks/:id
func (h *Handler) DeleteTask(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, h.log, err.Error(), err)
		return
	}

	if err := h.board.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, h.log, board.MsgDeleteFailed, err)
		return
	}
	response.NoContent(c)
}
