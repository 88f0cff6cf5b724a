package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"
	"homeclean-backend/internal/models"
	"homeclean-backend/internal/payments"
)

const metadataTaskID = "task_id"

type PaymentGateway interface {
	Configured() bool
	CreatePaymentIntent(ctx context.Context, p payments.IntentParams) (*payments.Intent, error)
}

type PaymentService struct {
	gateway         PaymentGateway
	store           PaymentStore
	defaultCurrency string
	logger          *zap.Logger
}

func NewPaymentService(gateway PaymentGateway, store PaymentStore, defaultCurrency string, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultCurrency == "" {
		defaultCurrency = "aud"
	}
	return &PaymentService{
		gateway:         gateway,
		store:           store,
		defaultCurrency: strings.ToLower(defaultCurrency),
		logger:          logger,
	}
}

// CreateIntent creates a PaymentIntent for a major-unit amount. A returned
// response always carries a client secret.
func (s *PaymentService) CreateIntent(ctx context.Context, userID uuid.UUID, req *models.PaymentIntentRequest) (*models.PaymentIntentResponse, error) {
	if req.Action != models.ActionCreatePaymentIntent {
		return nil, invalid("action", "unsupported action %q", req.Action)
	}
	if !req.Amount.IsPositive() {
		return nil, invalid("amount", "must be greater than zero")
	}
	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.defaultCurrency
	}
	minor, err := payments.ToMinorUnits(req.Amount, currency)
	if err != nil {
		return nil, invalid("amount", "%v", err)
	}
	if s.gateway == nil || !s.gateway.Configured() {
		return nil, fmt.Errorf("payments: %w", ErrNotConfigured)
	}

	metadata := make(map[string]string, len(req.Metadata)+1)
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	metadata["user_id"] = userID.String()

	var taskID *uuid.UUID
	if raw, ok := metadata[metadataTaskID]; ok {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, invalid("metadata.task_id", "is not a valid id")
		}
		task, err := s.store.GetTask(ctx, id)
		if err != nil {
			return nil, err
		}
		if !task.IsOwner(userID) {
			return nil, forbidden("only the task owner can pay for it")
		}
		taskID = &id
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, payments.IntentParams{
		Amount:      minor,
		Currency:    currency,
		Description: req.Description,
		Metadata:    metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if intent.ClientSecret == "" {
		return nil, fmt.Errorf("%w: payment intent %s has no client secret", ErrUpstream, intent.ID)
	}

	if taskID != nil {
		if err := s.store.SetTaskPaymentStatus(ctx, *taskID, models.PaymentStatusProcessing, intent.ID); err != nil {
			s.logger.Error("failed to mark task payment processing",
				zap.String("task_id", taskID.String()),
				zap.String("payment_intent_id", intent.ID),
				zap.Error(err),
			)
		}
	}

	return &models.PaymentIntentResponse{
		ClientSecret:    intent.ClientSecret,
		NextAction:      intent.NextAction,
		PaymentIntentID: intent.ID,
	}, nil
}

// HandleEvent applies a verified webhook event. A returned error means the
// delivery should be retried by the provider.
func (s *PaymentService) HandleEvent(ctx context.Context, event stripe.Event) error {
	switch event.Type {
	case "charge.succeeded":
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return fmt.Errorf("failed to decode charge: %w", err)
		}
		return s.chargeSucceeded(ctx, &charge)
	case "payment_intent.payment_failed":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return fmt.Errorf("failed to decode payment intent: %w", err)
		}
		return s.paymentFailed(ctx, &intent)
	default:
		s.logger.Debug("ignoring webhook event", zap.String("type", string(event.Type)), zap.String("event_id", event.ID))
		return nil
	}
}

// chargeSucceeded marks the task paid. An amount that differs from the
// budget is logged at error level and the task is still marked paid.
func (s *PaymentService) chargeSucceeded(ctx context.Context, charge *stripe.Charge) error {
	taskID, ok := s.taskFromMetadata(charge.Metadata, "charge", charge.ID)
	if !ok {
		return nil
	}

	task, err := s.store.GetTask(ctx, taskID)
	if errors.Is(err, ErrNotFound) {
		s.logger.Warn("charge references unknown task", zap.String("charge_id", charge.ID), zap.String("task_id", taskID.String()))
		return nil
	}
	if err != nil {
		return err
	}

	expected, err := payments.ToMinorUnits(task.Budget, string(charge.Currency))
	if err != nil || expected != charge.Amount {
		s.logger.Error("charge amount does not match task budget",
			zap.String("task_id", taskID.String()),
			zap.String("charge_id", charge.ID),
			zap.Int64("charged", charge.Amount),
			zap.Int64("expected", expected),
			zap.String("currency", string(charge.Currency)),
		)
	}

	intentID := ""
	if charge.PaymentIntent != nil {
		intentID = charge.PaymentIntent.ID
	}
	if err := s.store.SetTaskPaymentStatus(ctx, taskID, models.PaymentStatusPaid, intentID); err != nil {
		return fmt.Errorf("failed to mark task paid: %w", err)
	}
	s.logger.Info("task paid", zap.String("task_id", taskID.String()), zap.String("charge_id", charge.ID))
	return nil
}

func (s *PaymentService) paymentFailed(ctx context.Context, intent *stripe.PaymentIntent) error {
	taskID, ok := s.taskFromMetadata(intent.Metadata, "payment_intent", intent.ID)
	if !ok {
		return nil
	}

	reason := ""
	if intent.LastPaymentError != nil {
		reason = intent.LastPaymentError.Msg
	}
	err := s.store.SetTaskPaymentStatus(ctx, taskID, models.PaymentStatusFailed, intent.ID)
	if errors.Is(err, ErrNotFound) {
		s.logger.Warn("payment intent references unknown task", zap.String("payment_intent_id", intent.ID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to mark task payment failed: %w", err)
	}
	s.logger.Warn("task payment failed",
		zap.String("task_id", taskID.String()),
		zap.String("payment_intent_id", intent.ID),
		zap.String("reason", reason),
	)
	return nil
}

func (s *PaymentService) taskFromMetadata(metadata map[string]string, kind, objectID string) (uuid.UUID, bool) {
	raw := metadata[metadataTaskID]
	if raw == "" {
		s.logger.Info("webhook object has no task_id", zap.String("object", kind), zap.String("id", objectID))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		s.logger.Warn("webhook object has malformed task_id", zap.String("object", kind), zap.String("id", objectID), zap.String("task_id", raw))
		return uuid.Nil, false
	}
	return id, true
}
