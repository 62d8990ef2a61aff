// Package handler holds the HTTP handlers for the storefront API.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/integration"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, page, pageSize, count int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, page, pageSize, count))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// BindJSON binds the request body, answering 400 with field details on failure
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if details := middleware.ValidationDetails(err); details != nil {
			c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
				"Request validation failed",
				middleware.GetRequestID(c),
				details,
			))
			return false
		}
		h.BadRequest(c, "Invalid request body")
		return false
	}
	return true
}

// ParamUUID parses a uuid path parameter, answering 400 when malformed
func (h *BaseHandler) ParamUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// HandleError maps an error to a response. Domain errors carry their own
// code; supplier transport failures become 502; anything else is a 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, dto.GetHTTPStatus(domainErr.Code), domainErr.Code, domainErr.Message)
		return
	}

	log := logger.L(c.Request.Context())
	switch {
	case errors.Is(err, integration.ErrSupplierUnavailable),
		errors.Is(err, integration.ErrSupplierRequestFailed),
		errors.Is(err, integration.ErrSupplierInvalidResponse),
		errors.Is(err, integration.ErrRemoteTimeout):
		log.Warn("Supplier call failed", zap.Error(err))
		h.Error(c, http.StatusBadGateway, dto.ErrCodeUnavailable, "Supplier is unavailable, try again later")
	default:
		log.Error("Unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
	}
}

// pageFilter fills paging defaults so the response meta matches the query
func pageFilter(page, pageSize int) shared.Filter {
	f := shared.Filter{Page: page, PageSize: pageSize}
	if f.Page < 1 {
		f.Page = 1
	}
	f.PageSize = f.Limit()
	return f
}
