package rest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskflow/delivery/rest/response"
	"taskflow/domain/gateway"
)

// The record routes serve the gateway envelopes as-is: a rejected call is a
// 200 with success=false, and only transport-level problems map to error codes.

// QueryRecords handles POST /api/v1/records/:collection/query
func (h *Handler) QueryRecords(c *gin.Context) {
	var params gateway.QueryParams
	if err := c.ShouldBindJSON(&params); err != nil {
		response.ErrorWithMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.records.FetchRecords(c.Request.Context(), c.Param("collection"), params)
	if err != nil {
		h.recordFailure(c, "fetch", err)
		return
	}
	response.Success(c, resp)
}

// GetRecord handles GET /api/v1/records/:collection/:id
func (h *Handler) GetRecord(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, h.log, err.Error(), err)
		return
	}

	var params gateway.QueryParams
	if fields := c.Query("fields"); fields != "" {
		params.Fields = strings.Split(fields, ",")
	}

	resp, err := h.records.GetRecordByID(c.Request.Context(), c.Param("collection"), id, params)
	if err != nil {
		h.recordFailure(c, "get", err)
		return
	}
	response.Success(c, resp)
}

// CreateRecords handles POST /api/v1/records/:collection
func (h *Handler) CreateRecords(c *gin.Context) {
	var req gateway.WriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.records.CreateRecord(c.Request.Context(), c.Param("collection"), req)
	if err != nil {
		h.recordFailure(c, "create", err)
		return
	}
	response.Success(c, resp)
}

// UpdateRecords handles PUT /api/v1/records/:collection
func (h *Handler) UpdateRecords(c *gin.Context) {
	var req gateway.WriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.records.UpdateRecord(c.Request.Context(), c.Param("collection"), req)
	if err != nil {
		h.recordFailure(c, "update", err)
		return
	}
	response.Success(c, resp)
}

// DeleteRecords handles DELETE /api/v1/records/:collection
func (h *Handler) DeleteRecords(c *gin.Context) {
	var req gateway.DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.records.DeleteRecord(c.Request.Context(), c.Param("collection"), req)
	if err != nil {
		h.recordFailure(c, "delete", err)
		return
	}
	response.Success(c, resp)
}

func (h *Handler) recordFailure(c *gin.Context, op string, err error) {
	h.log.Error("Record gateway call failed",
		zap.String("op", op),
		zap.String("collection", c.Param("collection")),
		zap.Error(err))
	response.ErrorWithMessage(c, http.StatusBadGateway, "Record store unavailable")
}
