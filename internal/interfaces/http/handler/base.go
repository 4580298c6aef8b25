package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appinv "github.com/dokanify/backend/internal/application/inventory"
	"github.com/dokanify/backend/internal/domain/courier"
	"github.com/dokanify/backend/internal/domain/shared"
	"github.com/dokanify/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse("BAD_REQUEST", message))
}

// Error maps an error from the application layer onto an HTTP response
func (h *BaseHandler) Error(c *gin.Context, err error) {
	var insufficient *appinv.InsufficientStockError
	if errors.As(err, &insufficient) {
		c.JSON(http.StatusConflict, dto.NewErrorResponse("INSUFFICIENT_STOCK", insufficient.Error()))
		return
	}

	var courierErr *courier.Error
	if errors.As(err, &courierErr) {
		status := http.StatusBadGateway
		if courierErr.Kind == courier.KindNotImplemented {
			status = http.StatusNotImplemented
		}
		c.JSON(status, dto.NewErrorResponse(string(courierErr.Kind), courierErr.Message))
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(domainErrorStatus(domainErr.Code), dto.NewErrorResponse(domainErr.Code, domainErr.Message))
		return
	}

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("INTERNAL_ERROR", "An unexpected error occurred"))
}

// domainErrorStatus maps the domain error taxonomy onto HTTP status codes
func domainErrorStatus(code string) int {
	switch code {
	case "NOT_FOUND", "PRODUCT_NOT_FOUND", "NO_TRACKING_INFO":
		return http.StatusNotFound
	case "INSUFFICIENT_STOCK", "ALREADY_RESERVED", "INVALID_STATE",
		"CONCURRENCY_CONFLICT", "ALREADY_EXISTS":
		return http.StatusConflict
	default:
		// Validation failures: invalid input, unknown courier, missing area
		return http.StatusBadRequest
	}
}

// parseIDParam parses the :id path parameter as a UUID
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
