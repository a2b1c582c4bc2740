// Package handler implements the storefront and admin HTTP endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/logger"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/interfaces/http/dto"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	return c.GetString(logger.GinRequestIDKey)
}

// getUserID returns the authenticated customer. Admin tokens carry no customer.
func getUserID(c *gin.Context) (uuid.UUID, bool) {
	return middleware.GetJWTUserID(c)
}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with an explicit status
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 INVALID_INPUT response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, message)
}

// Unauthorized sends a 401 response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// BindError reports a failed JSON or form bind
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, middleware.FormatValidationErrors(err, getRequestID(c)))
}

// RequireUser resolves the calling customer or writes a 401
func (h *BaseHandler) RequireUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := getUserID(c)
	if !ok {
		h.Unauthorized(c, "Not authorized. Login again")
	}
	return id, ok
}

// HandleError maps domain errors through the code table. Anything else,
// and any code that maps to 5xx, is logged and answered without its text.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	code := dto.ErrCodeInternal
	message := "An unexpected error occurred"
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code = domainErr.Code
		message = domainErr.Message
	}
	status := dto.GetHTTPStatus(code)

	log := logger.FromContext(c.Request.Context())
	switch {
	case domainErr == nil:
		log.Error("Unhandled error", zap.Error(err), zap.String("route", c.FullPath()))
	case status >= http.StatusInternalServerError:
		log.Error("Request failed", zap.String("code", code), zap.Error(err))
		if status == http.StatusInternalServerError {
			message = "An unexpected error occurred"
		}
	}

	c.JSON(status, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}
