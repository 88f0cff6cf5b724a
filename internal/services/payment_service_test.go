package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripe "github.com/stripe/stripe-go/v82"
	"homeclean-backend/internal/models"
	"homeclean-backend/internal/payments"
	"homeclean-backend/internal/services"
	"homeclean-backend/internal/testutil"
)

func intentRequest(amount string) *models.PaymentIntentRequest {
	return &models.PaymentIntentRequest{
		Action: models.ActionCreatePaymentIntent,
		Amount: decimal.RequireFromString(amount),
	}
}

func TestCreateIntent_ConvertsToMinorUnits(t *testing.T) {
	gateway := &testutil.Gateway{Intent: &payments.Intent{ID: "pi_1", ClientSecret: "pi_1_secret"}}
	svc := services.NewPaymentService(gateway, testutil.NewMemStore(), "AUD", nil)
	user := uuid.New()

	resp, err := svc.CreateIntent(context.Background(), user, intentRequest("149.95"))
	require.NoError(t, err)
	assert.Equal(t, "pi_1_secret", resp.ClientSecret)
	assert.Equal(t, "pi_1", resp.PaymentIntentID)

	require.Len(t, gateway.Params, 1)
	assert.Equal(t, int64(14995), gateway.Params[0].Amount)
	assert.Equal(t, "aud", gateway.Params[0].Currency)
	assert.Equal(t, user.String(), gateway.Params[0].Metadata["user_id"])
}

func TestCreateIntent_EmptySecretIsUpstreamError(t *testing.T) {
	gateway := &testutil.Gateway{Intent: &payments.Intent{ID: "pi_2"}}
	svc := services.NewPaymentService(gateway, testutil.NewMemStore(), "aud", nil)

	resp, err := svc.CreateIntent(context.Background(), uuid.New(), intentRequest("10"))
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, services.ErrUpstream)
}

func TestCreateIntent_Rejections(t *testing.T) {
	svc := services.NewPaymentService(&testutil.Gateway{}, testutil.NewMemStore(), "aud", nil)

	req := intentRequest("10")
	req.Action = "refund"
	_, err := svc.CreateIntent(context.Background(), uuid.New(), req)
	assert.True(t, services.IsValidation(err))

	_, err = svc.CreateIntent(context.Background(), uuid.New(), intentRequest("0"))
	assert.True(t, services.IsValidation(err))

	_, err = svc.CreateIntent(context.Background(), uuid.New(), intentRequest("1.005"))
	assert.True(t, services.IsValidation(err), "sub-cent amounts")

	failing := &testutil.Gateway{Err: errors.New("card_declined")}
	_, err = services.NewPaymentService(failing, testutil.NewMemStore(), "aud", nil).CreateIntent(context.Background(), uuid.New(), intentRequest("10"))
	assert.ErrorIs(t, err, services.ErrUpstream)
}

func TestCreateIntent_MarksTaskProcessing(t *testing.T) {
	store := testutil.NewMemStore()
	owner := uuid.New()
	task := store.AddTask(openTask(owner))
	gateway := &testutil.Gateway{Intent: &payments.Intent{ID: "pi_3", ClientSecret: "s"}}
	svc := services.NewPaymentService(gateway, store, "aud", nil)

	req := intentRequest("120")
	req.Metadata = map[string]string{"task_id": task.ID.String()}

	_, err := svc.CreateIntent(context.Background(), uuid.New(), req)
	assert.ErrorIs(t, err, services.ErrForbidden, "only the owner pays")

	_, err = svc.CreateIntent(context.Background(), owner, req)
	require.NoError(t, err)
	stored := store.Task(task.ID)
	assert.Equal(t, models.PaymentStatusProcessing, stored.PaymentStatus)
	require.NotNil(t, stored.PaymentIntentID)
	assert.Equal(t, "pi_3", *stored.PaymentIntentID)
}

func event(t *testing.T, eventType string, object interface{}) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(object)
	require.NoError(t, err)
	return stripe.Event{ID: "evt_1", Type: stripe.EventType(eventType), Data: &stripe.EventData{Raw: raw}}
}

func chargeObject(taskID uuid.UUID, amount int64) map[string]interface{} {
	return map[string]interface{}{
		"id":             "ch_1",
		"object":         "charge",
		"amount":         amount,
		"currency":       "aud",
		"payment_intent": "pi_9",
		"metadata":       map[string]string{"task_id": taskID.String()},
	}
}

func TestHandleEvent_ChargeSucceeded(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
	}{
		{"matching amount", 12000},
		{"mismatched amount still marks paid", 9900},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewMemStore()
			task := store.AddTask(openTask(uuid.New()))
			svc := services.NewPaymentService(nil, store, "aud", nil)

			err := svc.HandleEvent(context.Background(), event(t, "charge.succeeded", chargeObject(task.ID, tt.amount)))
			require.NoError(t, err)

			stored := store.Task(task.ID)
			assert.Equal(t, models.PaymentStatusPaid, stored.PaymentStatus)
			require.Len(t, store.PaymentUpdates, 1)
			assert.Equal(t, "pi_9", store.PaymentUpdates[0].IntentID)
		})
	}
}

func TestHandleEvent_PaymentFailed(t *testing.T) {
	store := testutil.NewMemStore()
	task := store.AddTask(openTask(uuid.New()))
	svc := services.NewPaymentService(nil, store, "aud", nil)

	err := svc.HandleEvent(context.Background(), event(t, "payment_intent.payment_failed", map[string]interface{}{
		"id":                 "pi_4",
		"object":             "payment_intent",
		"metadata":           map[string]string{"task_id": task.ID.String()},
		"last_payment_error": map[string]string{"message": "Your card was declined."},
	}))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, store.Task(task.ID).PaymentStatus)
}

func TestHandleEvent_IgnoredAndUnmatched(t *testing.T) {
	store := testutil.NewMemStore()
	svc := services.NewPaymentService(nil, store, "aud", nil)

	assert.NoError(t, svc.HandleEvent(context.Background(), event(t, "customer.created", map[string]string{"id": "cus_1"})))
	assert.NoError(t, svc.HandleEvent(context.Background(), event(t, "charge.succeeded", chargeObject(uuid.New(), 100))), "unknown task is acknowledged")
	assert.NoError(t, svc.HandleEvent(context.Background(), event(t, "charge.succeeded", map[string]interface{}{"id": "ch_2", "amount": 100})), "no task_id")
	assert.Empty(t, store.PaymentUpdates)
}
