package supabase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"homeclean-backend/internal/models"
)

// ErrNotFound is returned when a lookup or guarded update matches no row.
var ErrNotFound = errors.New("not found")

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &DatabaseClient{db: db}, nil
}

func (d *DatabaseClient) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

// Tasks

const taskColumns = `id, owner_id, property_id, cleaner_id, status, task_type, scheduled_date, time_slot,
	estimated_hours, budget, hourly_rate, address, suburb, state, postcode, latitude, longitude,
	special_requirements, is_accepted, accepted_at, is_confirmed, confirmed_at, is_checked_in,
	check_in_time, completed_at, payment_status, payment_intent_id, created_at, updated_at`

func scanTask(row rowScanner) (*models.Task, error) {
	var t models.Task
	var propertyID, cleanerID uuid.NullUUID
	var lat, lng sql.NullFloat64
	var acceptedAt, confirmedAt, checkInTime, completedAt sql.NullTime
	var intentID sql.NullString

	err := row.Scan(
		&t.ID, &t.OwnerID, &propertyID, &cleanerID, &t.Status, &t.TaskType, &t.ScheduledDate, &t.TimeSlot,
		&t.EstimatedHours, &t.Budget, &t.HourlyRate, &t.Address, &t.Suburb, &t.State, &t.Postcode, &lat, &lng,
		&t.SpecialRequirements, &t.IsAccepted, &acceptedAt, &t.IsConfirmed, &confirmedAt, &t.IsCheckedIn,
		&checkInTime, &completedAt, &t.PaymentStatus, &intentID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if propertyID.Valid {
		t.PropertyID = &propertyID.UUID
	}
	if cleanerID.Valid {
		t.CleanerID = &cleanerID.UUID
	}
	if lat.Valid && lng.Valid {
		t.Latitude, t.Longitude = &lat.Float64, &lng.Float64
	}
	t.AcceptedAt = timePtr(acceptedAt)
	t.ConfirmedAt = timePtr(confirmedAt)
	t.CheckInTime = timePtr(checkInTime)
	t.CompletedAt = timePtr(completedAt)
	if intentID.Valid {
		t.PaymentIntentID = &intentID.String
	}
	return &t, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}

func (d *DatabaseClient) queryTasks(ctx context.Context, query string, args ...interface{}) ([]models.Task, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (d *DatabaseClient) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	row := d.db.QueryRowContext(ctx, `
		INSERT INTO tasks (owner_id, property_id, status, task_type, scheduled_date, time_slot,
			estimated_hours, budget, hourly_rate, address, suburb, state, postcode, latitude, longitude,
			special_requirements, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING `+taskColumns,
		task.OwnerID, nullUUID(task.PropertyID), task.Status, task.TaskType, task.ScheduledDate, task.TimeSlot,
		task.EstimatedHours, task.Budget, task.HourlyRate, task.Address, task.Suburb, task.State, task.Postcode,
		task.Latitude, task.Longitude, task.SpecialRequirements, models.PaymentStatusUnpaid,
	)
	created, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return created, nil
}

func (d *DatabaseClient) GetTask(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	row := d.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, taskID)
	task, err := scanTask(row)
	if err != nil {
		return nil, notFound(err, "task")
	}
	return task, nil
}

func (d *DatabaseClient) ListTasksByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Task, error) {
	return d.queryTasks(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE owner_id = $1
		ORDER BY scheduled_date DESC, created_at DESC
	`, ownerID)
}

func (d *DatabaseClient) ListTasksByCleaner(ctx context.Context, cleanerID uuid.UUID) ([]models.Task, error) {
	return d.queryTasks(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE cleaner_id = $1
		ORDER BY scheduled_date ASC, created_at DESC
	`, cleanerID)
}

// ListAvailableTasks returns unassigned New tasks scheduled on or after from.
func (d *DatabaseClient) ListAvailableTasks(ctx context.Context, from time.Time) ([]models.Task, error) {
	return d.queryTasks(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE status = $1 AND cleaner_id IS NULL AND scheduled_date >= $2
		ORDER BY scheduled_date ASC, created_at ASC
	`, models.TaskStatusNew, from)
}

// UpdateTask applies the non-nil fields of patch as a single-row update.
func (d *DatabaseClient) UpdateTask(ctx context.Context, taskID uuid.UUID, patch models.TaskPatch) (*models.Task, error) {
	sets := make([]string, 0, 8)
	args := make([]interface{}, 0, 9)
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.TaskType != nil {
		add("task_type", *patch.TaskType)
	}
	if patch.ScheduledDate != nil {
		add("scheduled_date", patch.ScheduledDate.Time)
	}
	if patch.TimeSlot != nil {
		add("time_slot", *patch.TimeSlot)
	}
	if patch.EstimatedHours != nil {
		add("estimated_hours", *patch.EstimatedHours)
	}
	if patch.Budget != nil {
		add("budget", *patch.Budget)
	}
	if patch.HourlyRate != nil {
		add("hourly_rate", *patch.HourlyRate)
	}
	if patch.SpecialRequirements != nil {
		add("special_requirements", *patch.SpecialRequirements)
	}
	if len(sets) == 0 {
		return d.GetTask(ctx, taskID)
	}

	args = append(args, taskID)
	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), taskColumns)

	task, err := scanTask(d.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, notFound(err, "task")
	}
	return task, nil
}

func (d *DatabaseClient) DeleteTask(ctx context.Context, taskID uuid.UUID) error {
	_, err := d.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// AcceptTask assigns the cleaner only while the task is still New and
// unassigned. A lost race surfaces as ErrNotFound.
func (d *DatabaseClient) AcceptTask(ctx context.Context, taskID, cleanerID uuid.UUID, at time.Time) (*models.Task, error) {
	row := d.db.QueryRowContext(ctx, `
		UPDATE tasks
		SET cleaner_id = $1, is_accepted = TRUE, accepted_at = $2, status = $3
		WHERE id = $4 AND cleaner_id IS NULL AND status = $5
		RETURNING `+taskColumns,
		cleanerID, at, models.TaskStatusPending, taskID, models.TaskStatusNew,
	)
	task, err := scanTask(row)
	if err != nil {
		return nil, notFound(err, "open task")
	}
	return task, nil
}

func (d *DatabaseClient) ConfirmTask(ctx context.Context, taskID uuid.UUID, at time.Time) (*models.Task, error) {
	return d.transition(ctx, taskID, models.TaskStatusBooked,
		[]models.TaskStatus{models.TaskStatusPending},
		"is_confirmed = TRUE, confirmed_at = $1", at)
}

func (d *DatabaseClient) CheckInTask(ctx context.Context, taskID uuid.UUID, at time.Time) (*models.Task, error) {
	return d.transition(ctx, taskID, models.TaskStatusInProgress,
		[]models.TaskStatus{models.TaskStatusBooked},
		"is_checked_in = TRUE, check_in_time = $1", at)
}

func (d *DatabaseClient) CompleteTask(ctx context.Context, taskID uuid.UUID, at time.Time) (*models.Task, error) {
	return d.transition(ctx, taskID, models.TaskStatusCompleted,
		[]models.TaskStatus{models.TaskStatusInProgress},
		"completed_at = $1", at)
}

func (d *DatabaseClient) CancelTask(ctx context.Context, taskID uuid.UUID, reason string) (*models.Task, error) {
	return d.transition(ctx, taskID, models.TaskStatusCancelled,
		[]models.TaskStatus{models.TaskStatusNew, models.TaskStatusPending, models.TaskStatusBooked, models.TaskStatusInProgress},
		"cancel_reason = NULLIF($1, '')", reason)
}

// transition moves a task to status "to" if it is currently in one of
// "from". extra is a SET fragment whose only placeholder is $1.
func (d *DatabaseClient) transition(ctx context.Context, taskID uuid.UUID, to models.TaskStatus, from []models.TaskStatus, extra string, value interface{}) (*models.Task, error) {
	statuses := make([]string, len(from))
	for i, s := range from {
		statuses[i] = string(s)
	}

	row := d.db.QueryRowContext(ctx, `
		UPDATE tasks
		SET `+extra+`, status = $2
		WHERE id = $3 AND status = ANY($4)
		RETURNING `+taskColumns,
		value, to, taskID, pq.Array(statuses),
	)
	task, err := scanTask(row)
	if err != nil {
		return nil, notFound(err, "task in expected state")
	}
	return task, nil
}

func (d *DatabaseClient) SetTaskPaymentStatus(ctx context.Context, taskID uuid.UUID, status models.PaymentStatus, paymentIntentID string) error {
	res, err := d.db.ExecContext(ctx, `
		UPDATE tasks
		SET payment_status = $1, payment_intent_id = COALESCE(NULLIF($2, ''), payment_intent_id)
		WHERE id = $3
	`, status, paymentIntentID, taskID)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	return nil
}

// ExpireStaleTasks cancels New tasks whose scheduled date is before cutoff.
func (d *DatabaseClient) ExpireStaleTasks(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := d.db.ExecContext(ctx, `
		UPDATE tasks
		SET status = $1, cancel_reason = 'expired before a cleaner accepted'
		WHERE status = $2 AND cleaner_id IS NULL AND scheduled_date < $3
	`, models.TaskStatusCancelled, models.TaskStatusNew, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire tasks: %w", err)
	}
	return res.RowsAffected()
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

// Properties

const propertyColumns = `id, owner_id, name, street, suburb, state, postcode, bedrooms, bathrooms,
	has_pets, has_pool, has_garden, is_furnished, entry_method, latitude, longitude, created_at, updated_at`

func scanProperty(row rowScanner) (*models.Property, error) {
	var p models.Property
	var lat, lng sql.NullFloat64
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Street, &p.Suburb, &p.State, &p.Postcode, &p.Bedrooms, &p.Bathrooms,
		&p.HasPets, &p.HasPool, &p.HasGarden, &p.IsFurnished, &p.EntryMethod, &lat, &lng, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lat.Valid && lng.Valid {
		p.Latitude, p.Longitude = &lat.Float64, &lng.Float64
	}
	return &p, nil
}

func (d *DatabaseClient) CreateProperty(ctx context.Context, p *models.Property) (*models.Property, error) {
	row := d.db.QueryRowContext(ctx, `
		INSERT INTO properties (owner_id, name, street, suburb, state, postcode, bedrooms, bathrooms,
			has_pets, has_pool, has_garden, is_furnished, entry_method, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING `+propertyColumns,
		p.OwnerID, p.Name, p.Street, p.Suburb, p.State, p.Postcode, p.Bedrooms, p.Bathrooms,
		p.HasPets, p.HasPool, p.HasGarden, p.IsFurnished, p.EntryMethod, p.Latitude, p.Longitude,
	)
	created, err := scanProperty(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}
	return created, nil
}

func (d *DatabaseClient) GetProperty(ctx context.Context, propertyID uuid.UUID) (*models.Property, error) {
	row := d.db.QueryRowContext(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = $1`, propertyID)
	p, err := scanProperty(row)
	if err != nil {
		return nil, notFound(err, "property")
	}
	return p, nil
}

func (d *DatabaseClient) ListProperties(ctx context.Context, ownerID uuid.UUID) ([]models.Property, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT `+propertyColumns+`
		FROM properties
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	properties := make([]models.Property, 0)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, *p)
	}
	return properties, rows.Err()
}

func (d *DatabaseClient) UpdateProperty(ctx context.Context, p *models.Property) (*models.Property, error) {
	row := d.db.QueryRowContext(ctx, `
		UPDATE properties
		SET name = $1, street = $2, suburb = $3, state = $4, postcode = $5, bedrooms = $6, bathrooms = $7,
			has_pets = $8, has_pool = $9, has_garden = $10, is_furnished = $11, entry_method = $12,
			latitude = $13, longitude = $14
		WHERE id = $15
		RETURNING `+propertyColumns,
		p.Name, p.Street, p.Suburb, p.State, p.Postcode, p.Bedrooms, p.Bathrooms,
		p.HasPets, p.HasPool, p.HasGarden, p.IsFurnished, p.EntryMethod, p.Latitude, p.Longitude, p.ID,
	)
	updated, err := scanProperty(row)
	if err != nil {
		return nil, notFound(err, "property")
	}
	return updated, nil
}

func (d *DatabaseClient) DeleteProperty(ctx context.Context, propertyID uuid.UUID) error {
	_, err := d.db.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, propertyID)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	return nil
}

// Profiles

const profileColumns = `id, user_id, first_name, last_name, email, phone, role, avatar_url,
	terms_accepted, terms_accepted_at, hourly_rate, created_at, updated_at`

func scanProfile(row rowScanner) (*models.Profile, error) {
	var p models.Profile
	var avatar sql.NullString
	var termsAt sql.NullTime
	err := row.Scan(
		&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.Role, &avatar,
		&p.TermsAccepted, &termsAt, &p.HourlyRate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if avatar.Valid {
		p.AvatarURL = &avatar.String
	}
	p.TermsAcceptedAt = timePtr(termsAt)
	return &p, nil
}

func (d *DatabaseClient) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	row := d.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)
	p, err := scanProfile(row)
	if err != nil {
		return nil, notFound(err, "profile")
	}
	return p, nil
}

func (d *DatabaseClient) UpsertProfile(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	row := d.db.QueryRowContext(ctx, `
		INSERT INTO profiles (user_id, first_name, last_name, email, phone, role, avatar_url, hourly_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE
		SET first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name, email = EXCLUDED.email,
			phone = EXCLUDED.phone, role = EXCLUDED.role, avatar_url = EXCLUDED.avatar_url,
			hourly_rate = EXCLUDED.hourly_rate
		RETURNING `+profileColumns,
		p.UserID, p.FirstName, p.LastName, p.Email, p.Phone, p.Role, p.AvatarURL, p.HourlyRate,
	)
	saved, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return saved, nil
}

func (d *DatabaseClient) AcceptTerms(ctx context.Context, userID uuid.UUID, at time.Time) (*models.Profile, error) {
	row := d.db.QueryRowContext(ctx, `
		UPDATE profiles
		SET terms_accepted = TRUE, terms_accepted_at = $1
		WHERE user_id = $2
		RETURNING `+profileColumns,
		at, userID,
	)
	p, err := scanProfile(row)
	if err != nil {
		return nil, notFound(err, "profile")
	}
	return p, nil
}

// Work preferences

func (d *DatabaseClient) GetWorkPreference(ctx context.Context, userID uuid.UUID) (*models.WorkPreference, error) {
	var w models.WorkPreference
	err := d.db.QueryRowContext(ctx, `
		SELECT id, user_id, working_distance_km, availability, experience, hourly_rate, minimum_hours, created_at, updated_at
		FROM work_preferences
		WHERE user_id = $1
	`, userID).Scan(
		&w.ID, &w.UserID, &w.WorkingDistanceKM, &w.Availability, &w.Experience,
		&w.HourlyRate, &w.MinimumHours, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err, "work preference")
	}
	return &w, nil
}

func (d *DatabaseClient) UpsertWorkPreference(ctx context.Context, w *models.WorkPreference) (*models.WorkPreference, error) {
	var saved models.WorkPreference
	err := d.db.QueryRowContext(ctx, `
		INSERT INTO work_preferences (user_id, working_distance_km, availability, experience, hourly_rate, minimum_hours)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET working_distance_km = EXCLUDED.working_distance_km, availability = EXCLUDED.availability,
			experience = EXCLUDED.experience, hourly_rate = EXCLUDED.hourly_rate,
			minimum_hours = EXCLUDED.minimum_hours, updated_at = NOW()
		RETURNING id, user_id, working_distance_km, availability, experience, hourly_rate, minimum_hours, created_at, updated_at
	`, w.UserID, w.WorkingDistanceKM, w.Availability, w.Experience, w.HourlyRate, w.MinimumHours).Scan(
		&saved.ID, &saved.UserID, &saved.WorkingDistanceKM, &saved.Availability, &saved.Experience,
		&saved.HourlyRate, &saved.MinimumHours, &saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save work preference: %w", err)
	}
	return &saved, nil
}

// Bank accounts

func (d *DatabaseClient) GetBankAccount(ctx context.Context, userID uuid.UUID) (*models.BankAccount, error) {
	var b models.BankAccount
	err := d.db.QueryRowContext(ctx, `
		SELECT user_id, account_name, bsb, account_number, updated_at
		FROM bank_accounts
		WHERE user_id = $1
	`, userID).Scan(&b.UserID, &b.AccountName, &b.BSB, &b.AccountNumber, &b.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "bank account")
	}
	return &b, nil
}

func (d *DatabaseClient) UpsertBankAccount(ctx context.Context, b *models.BankAccount) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO bank_accounts (user_id, account_name, bsb, account_number)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET account_name = EXCLUDED.account_name, bsb = EXCLUDED.bsb,
			account_number = EXCLUDED.account_number, updated_at = NOW()
	`, b.UserID, b.AccountName, b.BSB, b.AccountNumber)
	if err != nil {
		return fmt.Errorf("failed to save bank account: %w", err)
	}
	return nil
}

// Room photos

func (d *DatabaseClient) CreateRoomPhoto(ctx context.Context, photo *models.RoomPhoto) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO room_photos (id, task_id, room_type, photo_type, storage_path, url, uploaded_by, file_size, mime_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, photo.ID, photo.TaskID, photo.RoomType, photo.PhotoType, photo.StoragePath, photo.URL,
		photo.UploadedBy, photo.FileSize, photo.MimeType, photo.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create room photo: %w", err)
	}
	return nil
}

// ListRoomPhotos returns a task's photos, optionally filtered to one photo type.
func (d *DatabaseClient) ListRoomPhotos(ctx context.Context, taskID uuid.UUID, photoType models.PhotoType) ([]models.RoomPhoto, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, task_id, room_type, photo_type, storage_path, url, uploaded_by, file_size, mime_type, created_at
		FROM room_photos
		WHERE task_id = $1 AND ($2 = '' OR photo_type = $2)
		ORDER BY created_at ASC
	`, taskID, string(photoType))
	if err != nil {
		return nil, fmt.Errorf("failed to get room photos: %w", err)
	}
	defer rows.Close()

	photos := make([]models.RoomPhoto, 0)
	for rows.Next() {
		var p models.RoomPhoto
		if err := rows.Scan(
			&p.ID, &p.TaskID, &p.RoomType, &p.PhotoType, &p.StoragePath, &p.URL,
			&p.UploadedBy, &p.FileSize, &p.MimeType, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan room photo: %w", err)
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}
