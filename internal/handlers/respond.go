package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"homeclean-backend/internal/middleware"
	"homeclean-backend/internal/models"
	"homeclean-backend/internal/services"
)

// currentUserID reads the authenticated user. It writes the 401 itself.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return uuid.Nil, false
	}
	s, _ := raw.(string)
	userID, err := uuid.Parse(s)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid user id"})
		return uuid.Nil, false
	}
	return userID, true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return false
	}
	return true
}

// statusFor maps service errors onto HTTP statuses.
func statusFor(err error) (int, string) {
	switch {
	case services.IsValidation(err):
		return http.StatusBadRequest, "validation failed"
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, services.ErrAlreadyAssigned):
		return http.StatusConflict, "task already accepted"
	case errors.Is(err, services.ErrInvalidTransition):
		return http.StatusConflict, "invalid status transition"
	case errors.Is(err, services.ErrUnsupported):
		return http.StatusNotImplemented, "not implemented"
	case errors.Is(err, services.ErrNotConfigured):
		return http.StatusServiceUnavailable, "service not configured"
	case errors.Is(err, services.ErrUpstream):
		return http.StatusBadGateway, "upstream provider error"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func respondError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	resp := models.ErrorResponse{Error: msg}
	if status < http.StatusInternalServerError || status == http.StatusBadGateway {
		resp.Message = err.Error()
	}
	c.JSON(status, resp)
}
