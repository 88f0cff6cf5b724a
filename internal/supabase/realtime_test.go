package supabase_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"homeclean-backend/internal/models"
	"homeclean-backend/internal/supabase"
)

type broadcastBody struct {
	Messages []struct {
		Topic   string                 `json:"topic"`
		Event   string                 `json:"event"`
		Payload map[string]interface{} `json:"payload"`
	} `json:"messages"`
}

func TestRealtimeClient_PublishTaskEvent(t *testing.T) {
	var topics []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/realtime/v1/api/broadcast", r.URL.Path)
		assert.Equal(t, "service-key", r.Header.Get("apikey"))

		var body broadcastBody
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) || !assert.Len(t, body.Messages, 1) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, "task_accepted", body.Messages[0].Event)
		assert.Equal(t, "Pending", body.Messages[0].Payload["status"])
		topics = append(topics, body.Messages[0].Topic)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	cleaner := uuid.New()
	task := &models.Task{
		ID:            uuid.New(),
		OwnerID:       uuid.New(),
		CleanerID:     &cleaner,
		Status:        models.TaskStatusPending,
		PaymentStatus: models.PaymentStatusUnpaid,
	}

	client := supabase.NewRealtimeClient(server.URL+"/", "service-key")
	require.NoError(t, client.PublishTaskEvent(context.Background(), task, "task_accepted"))

	assert.Equal(t, []string{
		"task:" + task.ID.String(),
		"user:" + task.OwnerID.String(),
		"user:" + cleaner.String(),
	}, topics)
}

func TestRealtimeClient_RejectedBroadcast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := supabase.NewRealtimeClient(server.URL, "wrong")
	err := client.PublishEvent(context.Background(), "task:1", "task_created", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}
