package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"homeclean-backend/internal/models"
	"homeclean-backend/internal/services"
	"homeclean-backend/internal/testutil"
)

type taskFixture struct {
	store     *testutil.MemStore
	geocoder  *testutil.Geocoder
	publisher *testutil.Publisher
	notifier  *testutil.Notifier
	files     *testutil.Files
	svc       *services.TaskService
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	f := &taskFixture{
		store:     testutil.NewMemStore(),
		geocoder:  testutil.ValidGeocoder(-33.8688, 151.2093),
		publisher: &testutil.Publisher{},
		notifier:  &testutil.Notifier{},
		files:     &testutil.Files{},
	}
	f.svc = services.NewTaskService(f.store, f.geocoder, f.publisher, f.notifier, f.files, nil)
	return f
}

func createRequest() *models.CreateTaskRequest {
	return &models.CreateTaskRequest{
		TaskType:       models.TaskTypeRegular,
		ScheduledDate:  time.Now().AddDate(0, 0, 7).Format(time.DateOnly),
		TimeSlot:       models.TimeSlotMorning,
		EstimatedHours: decimal.NewFromInt(3),
		Budget:         decimal.RequireFromString("150.00"),
		Address:        "1 George St",
		Suburb:         "Sydney",
		State:          "nsw",
		Postcode:       "2000",
	}
}

func openTask(owner uuid.UUID) models.Task {
	return models.Task{
		OwnerID:       owner,
		Status:        models.TaskStatusNew,
		TaskType:      models.TaskTypeRegular,
		ScheduledDate: time.Now().AddDate(0, 0, 3).UTC().Truncate(24 * time.Hour),
		TimeSlot:      models.TimeSlotMorning,
		Budget:        decimal.NewFromInt(120),
		PaymentStatus: models.PaymentStatusUnpaid,
	}
}

func TestCreateTask_DoubleSubmitCreatesTwoTasks(t *testing.T) {
	f := newTaskFixture(t)
	owner := uuid.New()
	req := createRequest()

	first, err := f.svc.Create(context.Background(), owner, req)
	require.NoError(t, err)
	second, err := f.svc.Create(context.Background(), owner, req)
	require.NoError(t, err)

	assert.Equal(t, 2, f.store.TaskCreates)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, models.TaskStatusNew, first.Status)
	assert.Equal(t, "NSW", first.State)
	require.NotNil(t, first.Latitude)
	assert.InDelta(t, -33.8688, *first.Latitude, 1e-9)
}

func TestCreateTask_CopiesAddressFromProperty(t *testing.T) {
	f := newTaskFixture(t)
	owner := uuid.New()
	lat, lng := -37.81, 144.96
	property := f.store.AddProperty(models.Property{
		OwnerID: owner, Street: "5 Collins St", Suburb: "Melbourne", State: "VIC", Postcode: "3000",
		Bedrooms: 3, Bathrooms: 2, HasPets: true, Latitude: &lat, Longitude: &lng,
	})

	req := createRequest()
	req.PropertyID = &property.ID
	task, err := f.svc.Create(context.Background(), owner, req)
	require.NoError(t, err)

	assert.Equal(t, "5 Collins St", task.Address)
	assert.Equal(t, "VIC", task.State)
	assert.Equal(t, 3, task.SpecialRequirements.BedCount)
	assert.True(t, task.SpecialRequirements.Pets)
	assert.Equal(t, 0, f.geocoder.Calls, "property coordinates are reused")
}

func TestCreateTask_ForeignPropertyForbidden(t *testing.T) {
	f := newTaskFixture(t)
	property := f.store.AddProperty(models.Property{OwnerID: uuid.New(), Street: "x", Suburb: "y", State: "NSW", Postcode: "2000"})

	req := createRequest()
	req.PropertyID = &property.ID
	_, err := f.svc.Create(context.Background(), uuid.New(), req)

	assert.ErrorIs(t, err, services.ErrForbidden)
	assert.Equal(t, 0, f.store.TaskCreates)
}

func TestCreateTask_GeocodeFailureStillCreates(t *testing.T) {
	f := newTaskFixture(t)
	f.geocoder.Result = nil
	f.geocoder.Err = errors.New("provider down")

	task, err := f.svc.Create(context.Background(), uuid.New(), createRequest())
	require.NoError(t, err)
	assert.Nil(t, task.Latitude)
	assert.Equal(t, 1, f.store.TaskCreates)
}

func TestCreateTask_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.CreateTaskRequest)
	}{
		{"unknown type", func(r *models.CreateTaskRequest) { r.TaskType = "spring" }},
		{"bad date", func(r *models.CreateTaskRequest) { r.ScheduledDate = "next tuesday" }},
		{"bad slot", func(r *models.CreateTaskRequest) { r.TimeSlot = "night" }},
		{"zero hours", func(r *models.CreateTaskRequest) { r.EstimatedHours = decimal.Zero }},
		{"zero budget", func(r *models.CreateTaskRequest) { r.Budget = decimal.Zero }},
		{"no address", func(r *models.CreateTaskRequest) { r.Address = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTaskFixture(t)
			req := createRequest()
			tt.mutate(req)

			_, err := f.svc.Create(context.Background(), uuid.New(), req)
			assert.True(t, services.IsValidation(err), "got %v", err)
			assert.Equal(t, 0, f.store.TaskCreates)
		})
	}
}

func TestUpdateTask_NonOwnerForbidden(t *testing.T) {
	f := newTaskFixture(t)
	task := f.store.AddTask(openTask(uuid.New()))
	budget := decimal.NewFromInt(200)

	_, err := f.svc.Update(context.Background(), uuid.New(), task.ID, models.TaskPatch{Budget: &budget})

	assert.ErrorIs(t, err, services.ErrForbidden)
	assert.Equal(t, 0, f.store.TaskUpdates)
}

func TestUpdateTask_OwnerAnyStatus(t *testing.T) {
	f := newTaskFixture(t)
	owner := uuid.New()
	task := f.store.AddTask(openTask(owner))
	status := models.TaskStatusCompleted

	updated, err := f.svc.Update(context.Background(), owner, task.ID, models.TaskPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, updated.Status)
	assert.Equal(t, 1, f.store.TaskUpdates)
}

func TestUpdateTask_Validation(t *testing.T) {
	negative := decimal.NewFromInt(-50)
	tooLong := decimal.NewFromInt(25)
	zero := decimal.Zero
	badCounts := models.SpecialRequirements{BedCount: -1}

	cases := []struct {
		name  string
		patch models.TaskPatch
	}{
		{"empty", models.TaskPatch{}},
		{"negative hourly rate", models.TaskPatch{HourlyRate: &negative}},
		{"hours above a day", models.TaskPatch{EstimatedHours: &tooLong}},
		{"zero budget", models.TaskPatch{Budget: &zero}},
		{"negative bed count", models.TaskPatch{SpecialRequirements: &badCounts}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newTaskFixture(t)
			owner := uuid.New()
			task := f.store.AddTask(openTask(owner))

			_, err := f.svc.Update(context.Background(), owner, task.ID, tc.patch)
			assert.True(t, services.IsValidation(err), "got %v", err)
			assert.Equal(t, 0, f.store.TaskUpdates)
		})
	}
}

func TestUpdateTask_AppliesDateAndRate(t *testing.T) {
	f := newTaskFixture(t)
	owner := uuid.New()
	task := f.store.AddTask(openTask(owner))
	date := models.NewDate(time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC))
	rate := decimal.NewFromInt(45)

	updated, err := f.svc.Update(context.Background(), owner, task.ID, models.TaskPatch{ScheduledDate: &date, HourlyRate: &rate})
	require.NoError(t, err)
	assert.Equal(t, "2026-11-02", updated.ScheduledDate.Format(time.DateOnly))
	require.True(t, updated.HourlyRate.Valid)
	assert.True(t, rate.Equal(updated.HourlyRate.Decimal))
}

func TestDeleteTask_NonOwnerForbidden(t *testing.T) {
	f := newTaskFixture(t)
	task := f.store.AddTask(openTask(uuid.New()))

	err := f.svc.Delete(context.Background(), uuid.New(), task.ID)

	assert.ErrorIs(t, err, services.ErrForbidden)
	assert.Equal(t, 0, f.store.TaskDeletes)
	assert.Empty(t, f.files.Deleted)
}

func TestDeleteTask_RemovesPhotos(t *testing.T) {
	f := newTaskFixture(t)
	owner := uuid.New()
	task := f.store.AddTask(openTask(owner))

	require.NoError(t, f.svc.Delete(context.Background(), owner, task.ID))
	assert.Equal(t, 1, f.store.TaskDeletes)
	assert.Equal(t, []uuid.UUID{task.ID}, f.files.Deleted)
}

func TestAcceptTask_ConcurrentCleanersOneWins(t *testing.T) {
	f := newTaskFixture(t)
	task := f.store.AddTask(openTask(uuid.New()))

	cleaners := make([]uuid.UUID, 8)
	for i := range cleaners {
		cleaners[i] = uuid.New()
		f.store.AddProfile(cleaners[i], models.RoleCleaner, "")
	}

	var wg sync.WaitGroup
	errs := make([]error, len(cleaners))
	for i, c := range cleaners {
		wg.Add(1)
		go func(i int, c uuid.UUID) {
			defer wg.Done()
			_, errs[i] = f.svc.Accept(context.Background(), c, task.ID)
		}(i, c)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, services.ErrAlreadyAssigned)
	}
	assert.Equal(t, 1, wins)

	stored := f.store.Task(task.ID)
	assert.Equal(t, models.TaskStatusPending, stored.Status)
	assert.True(t, stored.IsAccepted)
	require.NotNil(t, stored.CleanerID)
}

func TestAcceptTask_RequiresCleanerRole(t *testing.T) {
	f := newTaskFixture(t)
	task := f.store.AddTask(openTask(uuid.New()))
	owner := uuid.New()
	f.store.AddProfile(owner, models.RoleHouseOwner, "")

	_, err := f.svc.Accept(context.Background(), owner, task.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = f.svc.Accept(context.Background(), uuid.New(), task.ID)
	assert.ErrorIs(t, err, services.ErrForbidden, "no profile at all")
}

func TestTaskLifecycle_HappyPath(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	owner, cleaner := uuid.New(), uuid.New()
	f.store.AddProfile(cleaner, models.RoleCleaner, "c@example.com")
	task := f.store.AddTask(openTask(owner))

	accepted, err := f.svc.Accept(ctx, cleaner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusPending, accepted.Status)

	_, err = f.svc.CheckIn(ctx, cleaner, task.ID)
	assert.ErrorIs(t, err, services.ErrInvalidTransition, "must be confirmed first")

	confirmed, err := f.svc.Confirm(ctx, owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusBooked, confirmed.Status)
	assert.True(t, confirmed.IsConfirmed)

	checkedIn, err := f.svc.CheckIn(ctx, cleaner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusInProgress, checkedIn.Status)
	assert.True(t, checkedIn.IsCheckedIn)

	completed, err := f.svc.Complete(ctx, cleaner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	events := make([]string, 0, len(f.publisher.Events))
	for _, e := range f.publisher.Events {
		events = append(events, e.Event)
	}
	assert.Equal(t, []string{
		services.EventTaskAccepted, services.EventTaskConfirmed,
		services.EventTaskCheckedIn, services.EventTaskCompleted,
	}, events)

	assert.Equal(t, []testutil.SentNotification{
		{UserID: owner, Type: services.EventTaskAccepted},
		{UserID: cleaner, Type: services.EventTaskConfirmed},
		{UserID: owner, Type: services.EventTaskCheckedIn},
		{UserID: owner, Type: services.EventTaskCompleted},
	}, f.notifier.Sent)
}

func TestTaskLifecycle_SideChannelFailuresDoNotFail(t *testing.T) {
	f := newTaskFixture(t)
	f.publisher.Err = errors.New("realtime down")
	f.notifier.Err = errors.New("postmark down")
	cleaner := uuid.New()
	f.store.AddProfile(cleaner, models.RoleCleaner, "")
	task := f.store.AddTask(openTask(uuid.New()))

	_, err := f.svc.Accept(context.Background(), cleaner, task.ID)
	assert.NoError(t, err)
}

func TestConfirmTask_OnlyOwner(t *testing.T) {
	f := newTaskFixture(t)
	cleaner := uuid.New()
	task := openTask(uuid.New())
	task.Status = models.TaskStatusPending
	task.CleanerID = &cleaner
	stored := f.store.AddTask(task)

	_, err := f.svc.Confirm(context.Background(), cleaner, stored.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)
	assert.Equal(t, models.TaskStatusPending, f.store.Task(stored.ID).Status)
}

func TestCancelTask(t *testing.T) {
	owner, cleaner := uuid.New(), uuid.New()

	tests := []struct {
		name    string
		status  models.TaskStatus
		actor   uuid.UUID
		wantErr error
	}{
		{"owner cancels new", models.TaskStatusNew, owner, nil},
		{"owner cancels in progress", models.TaskStatusInProgress, owner, nil},
		{"cleaner cancels booked", models.TaskStatusBooked, cleaner, nil},
		{"cleaner after check-in", models.TaskStatusInProgress, cleaner, services.ErrForbidden},
		{"stranger", models.TaskStatusNew, uuid.New(), services.ErrForbidden},
		{"already completed", models.TaskStatusCompleted, owner, services.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTaskFixture(t)
			task := openTask(owner)
			task.Status = tt.status
			if tt.status != models.TaskStatusNew {
				c := cleaner
				task.CleanerID = &c
				task.IsCheckedIn = tt.status == models.TaskStatusInProgress
			}
			stored := f.store.AddTask(task)

			cancelled, err := f.svc.Cancel(context.Background(), tt.actor, stored.ID, " changed plans ")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.status, f.store.Task(stored.ID).Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.TaskStatusCancelled, cancelled.Status)
		})
	}
}

func TestListAvailable_MatchesAvailability(t *testing.T) {
	f := newTaskFixture(t)
	cleaner := uuid.New()

	morning := openTask(uuid.New())
	evening := openTask(uuid.New())
	evening.TimeSlot = models.TimeSlotEvening
	own := openTask(cleaner)
	f.store.AddTask(morning)
	f.store.AddTask(evening)
	f.store.AddTask(own)

	all, err := f.svc.ListAvailable(context.Background(), cleaner, false)
	require.NoError(t, err)
	assert.Len(t, all, 2, "a user's own tasks are not offered to them")

	day := models.Weekdays[(int(morning.ScheduledDate.Weekday())+6)%7]
	f.store.Prefs[cleaner] = &models.WorkPreference{
		UserID:       cleaner,
		Availability: models.Availability{day: {Morning: true}},
	}

	matched, err := f.svc.ListAvailable(context.Background(), cleaner, true)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, models.TimeSlotMorning, matched[0].TimeSlot)
}

func TestGetTask_Visibility(t *testing.T) {
	f := newTaskFixture(t)
	owner, cleaner := uuid.New(), uuid.New()
	open := f.store.AddTask(openTask(owner))

	booked := openTask(owner)
	booked.Status = models.TaskStatusBooked
	booked.CleanerID = &cleaner
	bookedTask := f.store.AddTask(booked)

	_, err := f.svc.Get(context.Background(), uuid.New(), open.ID)
	assert.NoError(t, err, "open tasks are visible to any cleaner")

	_, err = f.svc.Get(context.Background(), uuid.New(), bookedTask.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = f.svc.Get(context.Background(), cleaner, bookedTask.ID)
	assert.NoError(t, err)

	_, err = f.svc.Get(context.Background(), owner, uuid.New())
	assert.ErrorIs(t, err, services.ErrNotFound)
}
