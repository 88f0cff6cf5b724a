package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"homeclean-backend/internal/models"
	"homeclean-backend/internal/services"
	"homeclean-backend/internal/testutil"
)

func TestDispatch_Email(t *testing.T) {
	sender := &testutil.Sender{Enabled: true}
	svc := services.NewNotificationService(sender, testutil.NewMemStore(), nil)

	resp, err := svc.Dispatch(context.Background(), &models.NotificationRequest{
		Channel:   "email",
		Recipient: "owner@example.com",
		Type:      "task_accepted",
		Payload:   map[string]interface{}{"name": "Jo", "task_id": "abc"},
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "msg-1", resp.MessageID)
	assert.Equal(t, []string{"owner@example.com"}, sender.Sent)
	assert.NotEmpty(t, sender.Msgs[0].Subject)
}

func TestDispatch_UnsupportedChannels(t *testing.T) {
	svc := services.NewNotificationService(&testutil.Sender{Enabled: true}, testutil.NewMemStore(), nil)

	for _, channel := range []string{"sms", "push"} {
		resp, err := svc.Dispatch(context.Background(), &models.NotificationRequest{Channel: channel, Recipient: "x", Type: "welcome"})
		assert.ErrorIs(t, err, services.ErrUnsupported)
		require.NotNil(t, resp)
		assert.False(t, resp.Success)
		assert.Equal(t, channel+" notifications not supported yet", resp.Message)
	}
}

func TestDispatch_Rejections(t *testing.T) {
	svc := services.NewNotificationService(&testutil.Sender{Enabled: true}, testutil.NewMemStore(), nil)

	_, err := svc.Dispatch(context.Background(), &models.NotificationRequest{Channel: "pigeon", Recipient: "a@b.c", Type: "welcome"})
	assert.True(t, services.IsValidation(err))

	_, err = svc.Dispatch(context.Background(), &models.NotificationRequest{Channel: "email", Recipient: "a@b.c", Type: "birthday"})
	assert.True(t, services.IsValidation(err))

	_, err = svc.Dispatch(context.Background(), &models.NotificationRequest{Channel: "email", Recipient: "nobody", Type: "welcome"})
	assert.True(t, services.IsValidation(err))
}

func TestDispatch_NotConfiguredAndProviderFailure(t *testing.T) {
	req := &models.NotificationRequest{Channel: "email", Recipient: "a@b.c", Type: "welcome"}

	_, err := services.NewNotificationService(&testutil.Sender{}, testutil.NewMemStore(), nil).Dispatch(context.Background(), req)
	assert.ErrorIs(t, err, services.ErrNotConfigured)

	failing := &testutil.Sender{Enabled: true, Err: errors.New("422 inactive recipient")}
	_, err = services.NewNotificationService(failing, testutil.NewMemStore(), nil).Dispatch(context.Background(), req)
	assert.ErrorIs(t, err, services.ErrUpstream)
}

func TestNotifyUser_UsesProfileEmail(t *testing.T) {
	store := testutil.NewMemStore()
	user := uuid.New()
	store.AddProfile(user, models.RoleHouseOwner, "owner@example.com")
	sender := &testutil.Sender{Enabled: true}
	svc := services.NewNotificationService(sender, store, nil)

	require.NoError(t, svc.NotifyUser(context.Background(), user, "task_completed", map[string]interface{}{"task_id": "t1"}))
	assert.Equal(t, []string{"owner@example.com"}, sender.Sent)

	assert.Error(t, svc.NotifyUser(context.Background(), uuid.New(), "task_completed", nil), "unknown profile")
}

func TestNotifyUser_SkipsWhenEmailDisabled(t *testing.T) {
	svc := services.NewNotificationService(&testutil.Sender{}, testutil.NewMemStore(), nil)
	assert.NoError(t, svc.NotifyUser(context.Background(), uuid.New(), "task_completed", nil))
}
