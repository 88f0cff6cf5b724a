package email_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"homeclean-backend/internal/email"
)

func TestRender_TaskAccepted(t *testing.T) {
	msg, err := email.Render("task_accepted", map[string]interface{}{
		"cleaner_name":   "Sam",
		"address":        "12 Beach Rd, Bondi NSW 2026",
		"scheduled_date": "2026-11-02",
	})
	require.NoError(t, err)

	assert.Equal(t, "Sam accepted your task", msg.Subject)
	assert.Contains(t, msg.Text, "12 Beach Rd, Bondi NSW 2026")
	assert.Contains(t, msg.HTML, "<strong>12 Beach Rd, Bondi NSW 2026</strong>")
	assert.Equal(t, "task_accepted", msg.Tag)
}

func TestRender_MissingFieldsUseDefaults(t *testing.T) {
	msg, err := email.Render("welcome", nil)
	require.NoError(t, err)

	assert.Equal(t, "Welcome to HomeClean", msg.Subject)
	assert.Contains(t, msg.Text, "Hi there")
	assert.NotContains(t, msg.Text, "<no value>")
}

func TestRender_EscapesHTML(t *testing.T) {
	msg, err := email.Render("task_cancelled", map[string]interface{}{
		"address": "1 Main St",
		"reason":  "<script>alert(1)</script>",
	})
	require.NoError(t, err)

	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.Text, "Reason: <script>alert(1)</script>")
}

func TestRender_UnknownType(t *testing.T) {
	_, err := email.Render("birthday", nil)
	assert.Error(t, err)
	assert.False(t, email.KnownType("birthday"))
	assert.True(t, email.KnownType("payment_received"))
	assert.Contains(t, email.Types(), "task_completed")
}

func TestClient_Send(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "server-token", r.Header.Get("X-Postmark-Server-Token"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "no-reply@homeclean.app", body["From"])
		assert.Equal(t, "owner@example.com", body["To"])
		assert.Equal(t, "Payment received", body["Subject"])

		w.Write([]byte(`{"MessageID":"msg-1","ErrorCode":0,"Message":"OK"}`))
	}))
	defer server.Close()

	client := email.NewClient("server-token", "no-reply@homeclean.app", email.WithEndpoint(server.URL))
	msg, err := email.Render("payment_received", map[string]interface{}{"amount": "120.00", "currency": "AUD"})
	require.NoError(t, err)

	id, err := client.Send(context.Background(), "owner@example.com", msg)
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
}

func TestClient_SendProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"ErrorCode":300,"Message":"Invalid 'To' address"}`))
	}))
	defer server.Close()

	client := email.NewClient("server-token", "no-reply@homeclean.app", email.WithEndpoint(server.URL))
	_, err := client.Send(context.Background(), "nope", &email.Message{Subject: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid 'To' address")
}

func TestClient_NotConfigured(t *testing.T) {
	client := email.NewClient("", "no-reply@homeclean.app")
	assert.False(t, client.Configured())

	_, err := client.Send(context.Background(), "a@b.c", &email.Message{})
	assert.ErrorIs(t, err, email.ErrNotConfigured)
}
