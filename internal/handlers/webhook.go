package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v82"
	"homeclean-backend/internal/models"
	"homeclean-backend/internal/services"
)

const maxWebhookBody = 65536

// EventVerifier checks a webhook signature. payments.Client implements it.
type EventVerifier interface {
	ConstructWebhookEvent(payload []byte, sigHeader string) (stripe.Event, error)
}

type WebhookHandler struct {
	verifier EventVerifier
	payments *services.PaymentService
}

func NewWebhookHandler(verifier EventVerifier, payments *services.PaymentService) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, payments: payments}
}

// HandleStripeWebhook godoc
// @Summary     Stripe webhook endpoint
// @Description Verifies the Stripe-Signature header. charge.succeeded marks the task paid and payment_intent.payment_failed marks it failed. Other events are acknowledged.
// @Tags        webhooks
// @Accept      json
// @Produce     json
// @Param       Stripe-Signature header string true "Stripe signature"
// @Success     200 {object} map[string]string "status"
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /webhooks/stripe [post]
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to read request body",
			Message: err.Error(),
		})
		return
	}

	event, err := h.verifier.ConstructWebhookEvent(body, c.GetHeader("Stripe-Signature"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid signature",
			Message: err.Error(),
		})
		return
	}

	if err := h.payments.HandleEvent(c.Request.Context(), event); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to process event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
