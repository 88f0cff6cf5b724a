package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"homeclean-backend/internal/models"
)

const (
	EventTaskCreated   = "task_created"
	EventTaskUpdated   = "task_updated"
	EventTaskAccepted  = "task_accepted"
	EventTaskConfirmed = "task_confirmed"
	EventTaskCheckedIn = "task_checked_in"
	EventTaskCompleted = "task_completed"
	EventTaskCancelled = "task_cancelled"
)

type TaskService struct {
	store     TaskStore
	geocoder  Geocoder
	publisher EventPublisher
	notifier  UserNotifier
	files     FileStore
	logger    *zap.Logger
	now       func() time.Time
}

// NewTaskService wires the task lifecycle. geocoder, publisher, notifier and
// files may be nil; the matching side effect is then skipped.
func NewTaskService(
	store TaskStore,
	geocoder Geocoder,
	publisher EventPublisher,
	notifier UserNotifier,
	files FileStore,
	logger *zap.Logger,
) *TaskService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskService{
		store:     store,
		geocoder:  geocoder,
		publisher: publisher,
		notifier:  notifier,
		files:     files,
		logger:    logger,
		now:       time.Now,
	}
}

// Create inserts a New task from the wizard payload. Identical submissions
// produce separate tasks.
func (s *TaskService) Create(ctx context.Context, ownerID uuid.UUID, req *models.CreateTaskRequest) (*models.Task, error) {
	if err := ValidateCreateTask(req); err != nil {
		return nil, err
	}
	scheduled, _ := req.ParsedDate()

	task := &models.Task{
		ID:                  uuid.New(),
		OwnerID:             ownerID,
		PropertyID:          req.PropertyID,
		Status:              models.TaskStatusNew,
		TaskType:            req.TaskType,
		ScheduledDate:       scheduled,
		TimeSlot:            req.TimeSlot,
		EstimatedHours:      req.EstimatedHours,
		Budget:              req.Budget,
		Address:             strings.TrimSpace(req.Address),
		Suburb:              strings.TrimSpace(req.Suburb),
		State:               strings.ToUpper(strings.TrimSpace(req.State)),
		Postcode:            strings.TrimSpace(req.Postcode),
		SpecialRequirements: req.SpecialRequirements,
		PaymentStatus:       models.PaymentStatusUnpaid,
	}
	if req.HourlyRate != nil {
		task.HourlyRate = decimal.NewNullDecimal(*req.HourlyRate)
	}

	if req.PropertyID != nil {
		property, err := s.store.GetProperty(ctx, *req.PropertyID)
		if err != nil {
			return nil, fmt.Errorf("failed to load property: %w", err)
		}
		if property.OwnerID != ownerID {
			return nil, forbidden("property belongs to another owner")
		}
		task.Address = property.Street
		task.Suburb = property.Suburb
		task.State = property.State
		task.Postcode = property.Postcode
		task.Latitude = property.Latitude
		task.Longitude = property.Longitude
		if task.SpecialRequirements.BedCount == 0 {
			task.SpecialRequirements.BedCount = property.Bedrooms
		}
		if task.SpecialRequirements.BathroomCount == 0 {
			task.SpecialRequirements.BathroomCount = property.Bathrooms
		}
		if property.HasPets {
			task.SpecialRequirements.Pets = true
		}
	}

	if task.Latitude == nil {
		s.geocodeTask(ctx, task)
	}

	created, err := s.store.CreateTask(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.announce(ctx, created, EventTaskCreated, &created.OwnerID)
	return created, nil
}

func (s *TaskService) geocodeTask(ctx context.Context, task *models.Task) {
	if s.geocoder == nil {
		return
	}
	address := models.FormatAddress(task.Address, task.Suburb, task.State, task.Postcode)
	result, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		s.logger.Warn("geocoding task address failed", zap.String("task_id", task.ID.String()), zap.Error(err))
		return
	}
	if !result.Valid || result.Coordinates == nil {
		s.logger.Info("task address not geocoded", zap.String("task_id", task.ID.String()), zap.String("reason", result.Error))
		return
	}
	lat, lng := result.Coordinates.Lat, result.Coordinates.Lng
	task.Latitude = &lat
	task.Longitude = &lng
}

// Get returns a task visible to the caller: its owner, its cleaner, or any
// cleaner while the task is still open.
func (s *TaskService) Get(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.IsOwner(userID) || task.IsAssignedTo(userID) || (task.Status == models.TaskStatusNew && task.CleanerID == nil) {
		return task, nil
	}
	return nil, forbidden("task is not visible to this user")
}

func (s *TaskService) ListOwned(ctx context.Context, ownerID uuid.UUID) ([]models.Task, error) {
	return s.store.ListTasksByOwner(ctx, ownerID)
}

func (s *TaskService) ListAssigned(ctx context.Context, cleanerID uuid.UUID) ([]models.Task, error) {
	return s.store.ListTasksByCleaner(ctx, cleanerID)
}

// ListAvailable returns open tasks scheduled from today. With matchAvailability
// set, tasks outside the cleaner's saved availability grid are dropped.
func (s *TaskService) ListAvailable(ctx context.Context, cleanerID uuid.UUID, matchAvailability bool) ([]models.Task, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	tasks, err := s.store.ListAvailableTasks(ctx, today)
	if err != nil {
		return nil, err
	}

	visible := tasks[:0]
	for _, t := range tasks {
		if t.OwnerID != cleanerID {
			visible = append(visible, t)
		}
	}
	if !matchAvailability {
		return visible, nil
	}

	prefs, err := s.store.GetWorkPreference(ctx, cleanerID)
	if errors.Is(err, ErrNotFound) {
		return visible, nil
	}
	if err != nil {
		return nil, err
	}

	matched := make([]models.Task, 0, len(visible))
	for _, t := range visible {
		if prefs.Availability.Covers(t.ScheduledDate.Weekday(), t.TimeSlot) {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

// Update applies an owner edit. There is no transition table for edits.
func (s *TaskService) Update(ctx context.Context, userID, taskID uuid.UUID, patch models.TaskPatch) (*models.Task, error) {
	if err := ValidateTaskPatch(&patch); err != nil {
		return nil, err
	}
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.IsOwner(userID) {
		return nil, forbidden("only the owner can edit a task")
	}

	updated, err := s.store.UpdateTask(ctx, taskID, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	s.publish(ctx, updated, EventTaskUpdated)
	return updated, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	if !task.IsOwner(userID) {
		return forbidden("only the owner can delete a task")
	}

	if err := s.store.DeleteTask(ctx, taskID); err != nil {
		return err
	}

	if s.files != nil {
		if err := s.files.DeleteTaskPhotos(taskID); err != nil {
			s.logger.Warn("failed to remove task photos", zap.String("task_id", taskID.String()), zap.Error(err))
		}
	}
	return nil
}

// Accept assigns a cleaner to a New task. When two cleaners race, the
// conditional update lets exactly one through and the other gets
// ErrAlreadyAssigned.
func (s *TaskService) Accept(ctx context.Context, cleanerID, taskID uuid.UUID) (*models.Task, error) {
	profile, err := s.store.GetProfile(ctx, cleanerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, forbidden("a cleaner profile is required to accept tasks")
		}
		return nil, err
	}
	if profile.Role != models.RoleCleaner {
		return nil, forbidden("only cleaners can accept tasks")
	}

	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.IsOwner(cleanerID) {
		return nil, forbidden("owners cannot accept their own task")
	}
	if task.CleanerID != nil || task.Status != models.TaskStatusNew {
		return nil, ErrAlreadyAssigned
	}

	accepted, err := s.store.AcceptTask(ctx, taskID, cleanerID, s.now().UTC())
	if errors.Is(err, ErrNotFound) {
		return nil, ErrAlreadyAssigned
	}
	if err != nil {
		return nil, fmt.Errorf("failed to accept task: %w", err)
	}

	s.announce(ctx, accepted, EventTaskAccepted, &accepted.OwnerID)
	return accepted, nil
}

func (s *TaskService) Confirm(ctx context.Context, ownerID, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.IsOwner(ownerID) {
		return nil, forbidden("only the owner can confirm a cleaner")
	}
	if task.Status != models.TaskStatusPending {
		return nil, transitionError(task.Status, models.TaskStatusBooked)
	}

	confirmed, err := s.store.ConfirmTask(ctx, taskID, s.now().UTC())
	if err != nil {
		return nil, raced(err, task.Status, models.TaskStatusBooked)
	}

	s.announce(ctx, confirmed, EventTaskConfirmed, confirmed.CleanerID)
	return confirmed, nil
}

func (s *TaskService) CheckIn(ctx context.Context, cleanerID, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.IsAssignedTo(cleanerID) {
		return nil, forbidden("only the assigned cleaner can check in")
	}
	if task.Status != models.TaskStatusBooked {
		return nil, transitionError(task.Status, models.TaskStatusInProgress)
	}

	checkedIn, err := s.store.CheckInTask(ctx, taskID, s.now().UTC())
	if err != nil {
		return nil, raced(err, task.Status, models.TaskStatusInProgress)
	}

	s.announce(ctx, checkedIn, EventTaskCheckedIn, &checkedIn.OwnerID)
	return checkedIn, nil
}

func (s *TaskService) Complete(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.IsOwner(userID) && !task.IsAssignedTo(userID) {
		return nil, forbidden("only the owner or assigned cleaner can complete a task")
	}
	if task.Status != models.TaskStatusInProgress {
		return nil, transitionError(task.Status, models.TaskStatusCompleted)
	}

	completed, err := s.store.CompleteTask(ctx, taskID, s.now().UTC())
	if err != nil {
		return nil, raced(err, task.Status, models.TaskStatusCompleted)
	}

	s.announce(ctx, completed, EventTaskCompleted, counterParty(completed, userID))
	return completed, nil
}

// Cancel is open to the owner until the task finishes, and to the assigned
// cleaner until they check in.
func (s *TaskService) Cancel(ctx context.Context, userID, taskID uuid.UUID, reason string) (*models.Task, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	switch {
	case task.IsOwner(userID):
	case task.IsAssignedTo(userID):
		if task.IsCheckedIn || task.Status == models.TaskStatusInProgress {
			return nil, forbidden("cleaners cannot cancel after checking in")
		}
	default:
		return nil, forbidden("only the owner or assigned cleaner can cancel a task")
	}
	if task.Status.Terminal() {
		return nil, transitionError(task.Status, models.TaskStatusCancelled)
	}

	cancelled, err := s.store.CancelTask(ctx, taskID, strings.TrimSpace(reason))
	if err != nil {
		return nil, raced(err, task.Status, models.TaskStatusCancelled)
	}

	s.announce(ctx, cancelled, EventTaskCancelled, counterParty(cancelled, userID))
	return cancelled, nil
}

func transitionError(from, to models.TaskStatus) error {
	return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, to)
}

// raced maps a guarded update that matched nothing to an invalid transition;
// another request moved the task between the read and the write.
func raced(err error, from, to models.TaskStatus) error {
	if errors.Is(err, ErrNotFound) {
		return transitionError(from, to)
	}
	return fmt.Errorf("failed to move task to %s: %w", to, err)
}

func counterParty(task *models.Task, actor uuid.UUID) *uuid.UUID {
	if task.IsOwner(actor) {
		return task.CleanerID
	}
	return &task.OwnerID
}

// announce publishes the realtime event and emails recipient. Both are best
// effort and only logged on failure.
func (s *TaskService) announce(ctx context.Context, task *models.Task, event string, recipient *uuid.UUID) {
	s.publish(ctx, task, event)

	if s.notifier == nil || recipient == nil {
		return
	}
	payload := map[string]interface{}{
		"task_id":        task.ID.String(),
		"task_type":      string(task.TaskType),
		"status":         string(task.Status),
		"scheduled_date": task.ScheduledDate.Format(time.DateOnly),
		"time_slot":      string(task.TimeSlot),
		"address":        models.FormatAddress(task.Address, task.Suburb, task.State, task.Postcode),
		"budget":         task.Budget.StringFixed(2),
	}
	if err := s.notifier.NotifyUser(ctx, *recipient, event, payload); err != nil {
		s.logger.Warn("task notification failed",
			zap.String("task_id", task.ID.String()),
			zap.String("event", event),
			zap.Error(err),
		)
	}
}

func (s *TaskService) publish(ctx context.Context, task *models.Task, event string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTaskEvent(ctx, task, event); err != nil {
		s.logger.Warn("realtime publish failed",
			zap.String("task_id", task.ID.String()),
			zap.String("event", event),
			zap.Error(err),
		)
	}
}
