package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"homeclean-backend/internal/models"
)

// RealtimeClient publishes broadcast messages through the Supabase Realtime
// REST endpoint. Subscribed apps receive them on the named topic.
type RealtimeClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewRealtimeClient(supabaseURL, apiKey string) *RealtimeClient {
	return &RealtimeClient{
		endpoint: strings.TrimSuffix(supabaseURL, "/") + "/realtime/v1/api/broadcast",
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type broadcastMessage struct {
	Topic   string                 `json:"topic"`
	Event   string                 `json:"event"`
	Payload map[string]interface{} `json:"payload"`
}

func (r *RealtimeClient) PublishEvent(ctx context.Context, topic, event string, payload map[string]interface{}) error {
	body, err := json.Marshal(map[string][]broadcastMessage{
		"messages": {{Topic: topic, Event: event, Payload: payload}},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal broadcast: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", r.apiKey)
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("broadcast rejected: status %d, body: %s", resp.StatusCode, string(msg))
	}
	return nil
}

// PublishTaskEvent sends the event on the task topic and on the topic of
// every party to the task.
func (r *RealtimeClient) PublishTaskEvent(ctx context.Context, task *models.Task, event string) error {
	payload := TaskEventPayload(task)
	if err := r.PublishEvent(ctx, fmt.Sprintf("task:%s", task.ID), event, payload); err != nil {
		return err
	}
	if err := r.PublishUserEvent(ctx, task.OwnerID, event, payload); err != nil {
		return err
	}
	if task.CleanerID != nil {
		return r.PublishUserEvent(ctx, *task.CleanerID, event, payload)
	}
	return nil
}

func (r *RealtimeClient) PublishUserEvent(ctx context.Context, userID uuid.UUID, event string, payload map[string]interface{}) error {
	return r.PublishEvent(ctx, fmt.Sprintf("user:%s", userID), event, payload)
}

func TaskEventPayload(task *models.Task) map[string]interface{} {
	payload := map[string]interface{}{
		"task_id":        task.ID.String(),
		"status":         string(task.Status),
		"payment_status": string(task.PaymentStatus),
	}
	if task.CleanerID != nil {
		payload["cleaner_id"] = task.CleanerID.String()
	}
	return payload
}
