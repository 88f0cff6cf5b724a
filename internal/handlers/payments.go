package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"homeclean-backend/internal/models"
	"homeclean-backend/internal/services"
)

type PaymentsHandler struct {
	payments *services.PaymentService
}

func NewPaymentsHandler(payments *services.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{payments: payments}
}

// CreatePaymentIntent godoc
// @Summary     Create a Stripe PaymentIntent
// @Description action must be create_payment_intent. amount is in major units (dollars). A 200 always carries a clientSecret.
// @Tags        payments
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.PaymentIntentRequest true "Intent"
// @Success     200 {object} models.PaymentIntentResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /payments/intent [post]
func (h *PaymentsHandler) CreatePaymentIntent(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.PaymentIntentRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.payments.CreateIntent(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
