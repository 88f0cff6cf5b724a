package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"homeclean-backend/internal/models"
)

// TaskStore is the slice of supabase.DatabaseClient the task service needs.
type TaskStore interface {
	CreateTask(ctx context.Context, task *models.Task) (*models.Task, error)
	GetTask(ctx context.Context, taskID uuid.UUID) (*models.Task, error)
	ListTasksByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Task, error)
	ListTasksByCleaner(ctx context.Context, cleanerID uuid.UUID) ([]models.Task, error)
	ListAvailableTasks(ctx context.Context, from time.Time) ([]models.Task, error)
	UpdateTask(ctx context.Context, taskID uuid.UUID, patch models.TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, taskID uuid.UUID) error
	AcceptTask(ctx context.Context, taskID, cleanerID uuid.UUID, at time.Time) (*models.Task, error)
	ConfirmTask(ctx context.Context, taskID uuid.UUID, at time.Time) (*models.Task, error)
	CheckInTask(ctx context.Context, taskID uuid.UUID, at time.Time) (*models.Task, error)
	CompleteTask(ctx context.Context, taskID uuid.UUID, at time.Time) (*models.Task, error)
	CancelTask(ctx context.Context, taskID uuid.UUID, reason string) (*models.Task, error)
	GetProperty(ctx context.Context, propertyID uuid.UUID) (*models.Property, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	GetWorkPreference(ctx context.Context, userID uuid.UUID) (*models.WorkPreference, error)
}

type PropertyStore interface {
	CreateProperty(ctx context.Context, p *models.Property) (*models.Property, error)
	GetProperty(ctx context.Context, propertyID uuid.UUID) (*models.Property, error)
	ListProperties(ctx context.Context, ownerID uuid.UUID) ([]models.Property, error)
	UpdateProperty(ctx context.Context, p *models.Property) (*models.Property, error)
	DeleteProperty(ctx context.Context, propertyID uuid.UUID) error
}

type AccountStore interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpsertProfile(ctx context.Context, p *models.Profile) (*models.Profile, error)
	AcceptTerms(ctx context.Context, userID uuid.UUID, at time.Time) (*models.Profile, error)
	GetWorkPreference(ctx context.Context, userID uuid.UUID) (*models.WorkPreference, error)
	UpsertWorkPreference(ctx context.Context, w *models.WorkPreference) (*models.WorkPreference, error)
	GetBankAccount(ctx context.Context, userID uuid.UUID) (*models.BankAccount, error)
	UpsertBankAccount(ctx context.Context, b *models.BankAccount) error
}

type PhotoStore interface {
	GetTask(ctx context.Context, taskID uuid.UUID) (*models.Task, error)
	CreateRoomPhoto(ctx context.Context, photo *models.RoomPhoto) error
	ListRoomPhotos(ctx context.Context, taskID uuid.UUID, photoType models.PhotoType) ([]models.RoomPhoto, error)
}

type PaymentStore interface {
	GetTask(ctx context.Context, taskID uuid.UUID) (*models.Task, error)
	SetTaskPaymentStatus(ctx context.Context, taskID uuid.UUID, status models.PaymentStatus, paymentIntentID string) error
}

// FileStore is the bucket side of photo uploads, backed by supabase.StorageClient.
type FileStore interface {
	Upload(path, contentType string, data []byte) (string, error)
	DeleteTaskPhotos(taskID uuid.UUID) error
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (*models.GeocodeResponse, error)
}

type EventPublisher interface {
	PublishTaskEvent(ctx context.Context, task *models.Task, event string) error
}

// UserNotifier emails a user by id. NotificationService implements it.
type UserNotifier interface {
	NotifyUser(ctx context.Context, userID uuid.UUID, notificationType string, payload map[string]interface{}) error
}
