// Package testutil holds in-memory fakes of the store and provider clients.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"homeclean-backend/internal/email"
	"homeclean-backend/internal/models"
	"homeclean-backend/internal/payments"
	"homeclean-backend/internal/services"
	"homeclean-backend/internal/supabase"
)

// MemStore is an in-memory stand-in for supabase.DatabaseClient.
type MemStore struct {
	mu         sync.Mutex
	Tasks      map[uuid.UUID]*models.Task
	Properties map[uuid.UUID]*models.Property
	Profiles   map[uuid.UUID]*models.Profile
	Prefs      map[uuid.UUID]*models.WorkPreference
	Banks      map[uuid.UUID]*models.BankAccount
	Photos     []models.RoomPhoto

	TaskCreates     int
	TaskUpdates     int
	TaskDeletes     int
	PropertyCreates int
	PropertyUpdates int
	PropertyDeletes int
	BankUpserts     int
	PaymentUpdates  []PaymentUpdate

	FailPhotoRecord bool
}

type PaymentUpdate struct {
	TaskID   uuid.UUID
	Status   models.PaymentStatus
	IntentID string
}

func NewMemStore() *MemStore {
	return &MemStore{
		Tasks:      make(map[uuid.UUID]*models.Task),
		Properties: make(map[uuid.UUID]*models.Property),
		Profiles:   make(map[uuid.UUID]*models.Profile),
		Prefs:      make(map[uuid.UUID]*models.WorkPreference),
		Banks:      make(map[uuid.UUID]*models.BankAccount),
	}
}

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, supabase.ErrNotFound)
}

func (f *MemStore) AddTask(t models.Task) *models.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	f.Tasks[t.ID] = &t
	cp := t
	return &cp
}

func (f *MemStore) AddProfile(userID uuid.UUID, role models.Role, emailAddr string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Profiles[userID] = &models.Profile{ID: uuid.New(), UserID: userID, Role: role, Email: emailAddr, FirstName: "Sam"}
}

func (f *MemStore) AddProperty(p models.Property) *models.Property {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.Properties[p.ID] = &p
	cp := p
	return &cp
}

func (f *MemStore) Task(id uuid.UUID) models.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.Tasks[id]
}

func (f *MemStore) CreateTask(_ context.Context, task *models.Task) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.TaskCreates++
	cp := *task
	f.Tasks[task.ID] = &cp
	out := cp
	return &out, nil
}

func (f *MemStore) GetTask(_ context.Context, id uuid.UUID) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.Tasks[id]
	if !ok {
		return nil, notFound("task")
	}
	cp := *t
	return &cp, nil
}

func (f *MemStore) list(match func(*models.Task) bool) []models.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Task, 0)
	for _, t := range f.Tasks {
		if match(t) {
			out = append(out, *t)
		}
	}
	return out
}

func (f *MemStore) ListTasksByOwner(_ context.Context, ownerID uuid.UUID) ([]models.Task, error) {
	return f.list(func(t *models.Task) bool { return t.OwnerID == ownerID }), nil
}

func (f *MemStore) ListTasksByCleaner(_ context.Context, cleanerID uuid.UUID) ([]models.Task, error) {
	return f.list(func(t *models.Task) bool { return t.IsAssignedTo(cleanerID) }), nil
}

func (f *MemStore) ListAvailableTasks(_ context.Context, from time.Time) ([]models.Task, error) {
	return f.list(func(t *models.Task) bool {
		return t.Status == models.TaskStatusNew && t.CleanerID == nil && !t.ScheduledDate.Before(from)
	}), nil
}

func (f *MemStore) UpdateTask(_ context.Context, id uuid.UUID, patch models.TaskPatch) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.Tasks[id]
	if !ok {
		return nil, notFound("task")
	}
	f.TaskUpdates++
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.Budget != nil {
		t.Budget = *patch.Budget
	}
	if patch.TimeSlot != nil {
		t.TimeSlot = *patch.TimeSlot
	}
	if patch.TaskType != nil {
		t.TaskType = *patch.TaskType
	}
	if patch.ScheduledDate != nil {
		t.ScheduledDate = patch.ScheduledDate.Time
	}
	if patch.EstimatedHours != nil {
		t.EstimatedHours = *patch.EstimatedHours
	}
	if patch.HourlyRate != nil {
		t.HourlyRate = decimal.NewNullDecimal(*patch.HourlyRate)
	}
	if patch.SpecialRequirements != nil {
		t.SpecialRequirements = *patch.SpecialRequirements
	}
	t.UpdatedAt = time.Now()
	cp := *t
	return &cp, nil
}

func (f *MemStore) DeleteTask(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.TaskDeletes++
	delete(f.Tasks, id)
	return nil
}

func (f *MemStore) AcceptTask(_ context.Context, id, cleanerID uuid.UUID, at time.Time) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.Tasks[id]
	if !ok || t.CleanerID != nil || t.Status != models.TaskStatusNew {
		return nil, notFound("open task")
	}
	c := cleanerID
	t.CleanerID = &c
	t.IsAccepted = true
	t.AcceptedAt = &at
	t.Status = models.TaskStatusPending
	cp := *t
	return &cp, nil
}

func (f *MemStore) transition(id uuid.UUID, to models.TaskStatus, from []models.TaskStatus, apply func(*models.Task)) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.Tasks[id]
	if !ok {
		return nil, notFound("task")
	}
	for _, s := range from {
		if t.Status == s {
			t.Status = to
			apply(t)
			cp := *t
			return &cp, nil
		}
	}
	return nil, notFound("task in expected state")
}

func (f *MemStore) ConfirmTask(_ context.Context, id uuid.UUID, at time.Time) (*models.Task, error) {
	return f.transition(id, models.TaskStatusBooked, []models.TaskStatus{models.TaskStatusPending}, func(t *models.Task) {
		t.IsConfirmed = true
		t.ConfirmedAt = &at
	})
}

func (f *MemStore) CheckInTask(_ context.Context, id uuid.UUID, at time.Time) (*models.Task, error) {
	return f.transition(id, models.TaskStatusInProgress, []models.TaskStatus{models.TaskStatusBooked}, func(t *models.Task) {
		t.IsCheckedIn = true
		t.CheckInTime = &at
	})
}

func (f *MemStore) CompleteTask(_ context.Context, id uuid.UUID, at time.Time) (*models.Task, error) {
	return f.transition(id, models.TaskStatusCompleted, []models.TaskStatus{models.TaskStatusInProgress}, func(t *models.Task) {
		t.CompletedAt = &at
	})
}

func (f *MemStore) CancelTask(_ context.Context, id uuid.UUID, _ string) (*models.Task, error) {
	return f.transition(id, models.TaskStatusCancelled, []models.TaskStatus{
		models.TaskStatusNew, models.TaskStatusPending, models.TaskStatusBooked, models.TaskStatusInProgress,
	}, func(*models.Task) {})
}

func (f *MemStore) SetTaskPaymentStatus(_ context.Context, id uuid.UUID, status models.PaymentStatus, intentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.Tasks[id]
	if !ok {
		return notFound("task")
	}
	t.PaymentStatus = status
	if intentID != "" {
		t.PaymentIntentID = &intentID
	}
	f.PaymentUpdates = append(f.PaymentUpdates, PaymentUpdate{TaskID: id, Status: status, IntentID: intentID})
	return nil
}

func (f *MemStore) CreateProperty(_ context.Context, p *models.Property) (*models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PropertyCreates++
	cp := *p
	f.Properties[p.ID] = &cp
	out := cp
	return &out, nil
}

func (f *MemStore) GetProperty(_ context.Context, id uuid.UUID) (*models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.Properties[id]
	if !ok {
		return nil, notFound("property")
	}
	cp := *p
	return &cp, nil
}

func (f *MemStore) ListProperties(_ context.Context, ownerID uuid.UUID) ([]models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Property, 0)
	for _, p := range f.Properties {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *MemStore) UpdateProperty(_ context.Context, p *models.Property) (*models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PropertyUpdates++
	cp := *p
	f.Properties[p.ID] = &cp
	out := cp
	return &out, nil
}

func (f *MemStore) DeleteProperty(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PropertyDeletes++
	delete(f.Properties, id)
	return nil
}

func (f *MemStore) GetProfile(_ context.Context, userID uuid.UUID) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.Profiles[userID]
	if !ok {
		return nil, notFound("profile")
	}
	cp := *p
	return &cp, nil
}

func (f *MemStore) UpsertProfile(_ context.Context, p *models.Profile) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.Profiles[p.UserID] = &cp
	out := cp
	return &out, nil
}

func (f *MemStore) AcceptTerms(_ context.Context, userID uuid.UUID, at time.Time) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.Profiles[userID]
	if !ok {
		return nil, notFound("profile")
	}
	p.TermsAccepted = true
	p.TermsAcceptedAt = &at
	cp := *p
	return &cp, nil
}

func (f *MemStore) GetWorkPreference(_ context.Context, userID uuid.UUID) (*models.WorkPreference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.Prefs[userID]
	if !ok {
		return nil, notFound("work preference")
	}
	cp := *w
	return &cp, nil
}

func (f *MemStore) UpsertWorkPreference(_ context.Context, w *models.WorkPreference) (*models.WorkPreference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *w
	f.Prefs[w.UserID] = &cp
	out := cp
	return &out, nil
}

func (f *MemStore) GetBankAccount(_ context.Context, userID uuid.UUID) (*models.BankAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.Banks[userID]
	if !ok {
		return nil, notFound("bank account")
	}
	cp := *b
	return &cp, nil
}

func (f *MemStore) UpsertBankAccount(_ context.Context, b *models.BankAccount) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.BankUpserts++
	cp := *b
	f.Banks[b.UserID] = &cp
	return nil
}

func (f *MemStore) CreateRoomPhoto(_ context.Context, photo *models.RoomPhoto) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailPhotoRecord {
		return errors.New("insert failed")
	}
	f.Photos = append(f.Photos, *photo)
	return nil
}

func (f *MemStore) ListRoomPhotos(_ context.Context, taskID uuid.UUID, photoType models.PhotoType) ([]models.RoomPhoto, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.RoomPhoto, 0)
	for _, p := range f.Photos {
		if p.TaskID == taskID && (photoType == "" || p.PhotoType == photoType) {
			out = append(out, p)
		}
	}
	return out, nil
}

type Geocoder struct {
	Result *models.GeocodeResponse
	Err    error
	Calls  int
}

func (g *Geocoder) Geocode(_ context.Context, _ string) (*models.GeocodeResponse, error) {
	g.Calls++
	return g.Result, g.Err
}

// ValidGeocoder resolves every address to lat, lng.
func ValidGeocoder(lat, lng float64) *Geocoder {
	return &Geocoder{Result: &models.GeocodeResponse{Valid: true, Coordinates: &models.Coordinates{Lat: lat, Lng: lng}}}
}

type PublishedEvent struct {
	TaskID uuid.UUID
	Event  string
}

type Publisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
	Err    error
}

func (p *Publisher) PublishTaskEvent(_ context.Context, task *models.Task, event string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, PublishedEvent{TaskID: task.ID, Event: event})
	return p.Err
}

type SentNotification struct {
	UserID uuid.UUID
	Type   string
}

type Notifier struct {
	mu   sync.Mutex
	Sent []SentNotification
	Err  error
}

func (n *Notifier) NotifyUser(_ context.Context, userID uuid.UUID, notificationType string, _ map[string]interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Sent = append(n.Sent, SentNotification{UserID: userID, Type: notificationType})
	return n.Err
}

// Files stands in for the storage bucket. FailFirst fails the next upload.
type Files struct {
	mu        sync.Mutex
	Uploaded  []string
	FailFirst bool
	Deleted   []uuid.UUID
}

func (f *Files) Upload(path, _ string, _ []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailFirst {
		f.FailFirst = false
		return "", errors.New("bucket unavailable")
	}
	f.Uploaded = append(f.Uploaded, path)
	return "https://storage.test/" + path, nil
}

func (f *Files) DeleteTaskPhotos(taskID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, taskID)
	return nil
}

type Sender struct {
	Enabled bool
	Sent    []string
	Msgs    []*email.Message
	Err     error
}

func (s *Sender) Configured() bool { return s.Enabled }

func (s *Sender) Send(_ context.Context, to string, msg *email.Message) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	s.Sent = append(s.Sent, to)
	s.Msgs = append(s.Msgs, msg)
	return "msg-1", nil
}

type Gateway struct {
	Intent *payments.Intent
	Err    error
	Params []payments.IntentParams
}

func (g *Gateway) Configured() bool { return true }

func (g *Gateway) CreatePaymentIntent(_ context.Context, p payments.IntentParams) (*payments.Intent, error) {
	g.Params = append(g.Params, p)
	return g.Intent, g.Err
}

var (
	_ services.TaskStore      = (*MemStore)(nil)
	_ services.PropertyStore  = (*MemStore)(nil)
	_ services.AccountStore   = (*MemStore)(nil)
	_ services.PhotoStore     = (*MemStore)(nil)
	_ services.PaymentStore   = (*MemStore)(nil)
	_ services.FileStore      = (*Files)(nil)
	_ services.Geocoder       = (*Geocoder)(nil)
	_ services.EventPublisher = (*Publisher)(nil)
	_ services.UserNotifier   = (*Notifier)(nil)
	_ services.EmailSender    = (*Sender)(nil)
	_ services.PaymentGateway = (*Gateway)(nil)
)
