package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskflow/delivery/rest/dto"
	"taskflow/domain"
)

// Error codes carried in ErrorResponse.Error
const (
	CodeBadRequest   = "bad_request"
	CodeNotFound     = "not_found"
	CodeValidation   = "validation_error"
	CodeGateway      = "gateway_error"
	CodeUnauthorized = "unauthorized"
	CodeInternal     = "internal_error"
)

// StatusCode maps domain errors to HTTP status codes
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrBadParamInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrGateway):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func code(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeBadRequest
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusUnprocessableEntity:
		return CodeValidation
	case http.StatusBadGateway:
		return CodeGateway
	case http.StatusUnauthorized:
		return CodeUnauthorized
	default:
		return CodeInternal
	}
}

// Success sends a successful JSON response with status 200
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 Created response
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent sends a 204 No Content response
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response based on the error type. The user sees a
// plain message; detail goes to the log.
func Error(c *gin.Context, log *zap.Logger, message string, err error) {
	status := StatusCode(err)
	body := dto.ErrorResponse{Error: code(status), Message: message}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		body.Message = "Please fix the highlighted fields"
		body.Fields = verr.Fields
	}

	if status >= http.StatusInternalServerError {
		log.Error(message, zap.String("path", c.Request.URL.Path), zap.Int("status", status), zap.Error(err))
	} else {
		log.Debug(message, zap.String("path", c.Request.URL.Path), zap.Int("status", status), zap.Error(err))
	}

	c.AbortWithStatusJSON(status, body)
}

// ErrorWithMessage sends an error response with a custom message
func ErrorWithMessage(c *gin.Context, httpStatus int, message string) {
	c.AbortWithStatusJSON(httpStatus, dto.ErrorResponse{
		Error:   code(httpStatus),
		Message: message,
	})
}
