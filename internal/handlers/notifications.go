package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"homeclean-backend/internal/models"
	"homeclean-backend/internal/services"
)

type NotificationsHandler struct {
	notifications *services.NotificationService
}

func NewNotificationsHandler(notifications *services.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications}
}

// SendNotification godoc
// @Summary     Send a notification
// @Description Only the email channel is delivered. sms and push answer 501.
// @Tags        notifications
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.NotificationRequest true "Notification"
// @Success     200 {object} models.NotificationResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     501 {object} models.NotificationResponse
// @Failure     503 {object} models.ErrorResponse
// @Router      /notifications [post]
func (h *NotificationsHandler) SendNotification(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}
	var req models.NotificationRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.notifications.Dispatch(c.Request.Context(), &req)
	if errors.Is(err, services.ErrUnsupported) && resp != nil {
		c.JSON(http.StatusNotImplemented, resp)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
