package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TaskStatus string

const (
	TaskStatusNew        TaskStatus = "New"
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusBooked     TaskStatus = "Booked"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
	TaskStatusCancelled  TaskStatus = "Cancelled"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusNew, TaskStatusPending, TaskStatusBooked,
		TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further lifecycle step applies.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusCancelled
}

type TaskType string

const (
	TaskTypeRegular        TaskType = "regular"
	TaskTypeDeep           TaskType = "deep"
	TaskTypeEndOfLease     TaskType = "end_of_lease"
	TaskTypeAirbnbTurnover TaskType = "airbnb_turnover"
)

func (t TaskType) Valid() bool {
	switch t {
	case TaskTypeRegular, TaskTypeDeep, TaskTypeEndOfLease, TaskTypeAirbnbTurnover:
		return true
	}
	return false
}

type TimeSlot string

const (
	TimeSlotMorning   TimeSlot = "morning"
	TimeSlotAfternoon TimeSlot = "afternoon"
	TimeSlotEvening   TimeSlot = "evening"
)

func (t TimeSlot) Valid() bool {
	return t == TimeSlotMorning || t == TimeSlotAfternoon || t == TimeSlotEvening
}

type PaymentStatus string

const (
	PaymentStatusUnpaid     PaymentStatus = "unpaid"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusPaid       PaymentStatus = "paid"
	PaymentStatusFailed     PaymentStatus = "failed"
)

// SpecialRequirements is stored as jsonb on the task row.
type SpecialRequirements struct {
	Pets          bool   `json:"pets"`
	InsideOven    bool   `json:"inside_oven"`
	InsideFridge  bool   `json:"inside_fridge"`
	Windows       bool   `json:"windows"`
	Laundry       bool   `json:"laundry"`
	BedCount      int    `json:"bed_count"`
	BathroomCount int    `json:"bathroom_count"`
	Notes         string `json:"notes,omitempty"`
}

func (r SpecialRequirements) Value() (driver.Value, error) {
	return json.Marshal(r)
}

func (r *SpecialRequirements) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*r = SpecialRequirements{}
		return nil
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return fmt.Errorf("cannot scan %T into SpecialRequirements", src)
	}
}

type Task struct {
	ID                  uuid.UUID           `json:"id"`
	OwnerID             uuid.UUID           `json:"owner_id"`
	PropertyID          *uuid.UUID          `json:"property_id,omitempty"`
	CleanerID           *uuid.UUID          `json:"cleaner_id,omitempty"`
	Status              TaskStatus          `json:"status"`
	TaskType            TaskType            `json:"task_type"`
	ScheduledDate       time.Time           `json:"scheduled_date"`
	TimeSlot            TimeSlot            `json:"time_slot"`
	EstimatedHours      decimal.Decimal     `json:"estimated_hours"`
	Budget              decimal.Decimal     `json:"budget"`
	HourlyRate          decimal.NullDecimal `json:"hourly_rate"`
	Address             string              `json:"address"`
	Suburb              string              `json:"suburb"`
	State               string              `json:"state"`
	Postcode            string              `json:"postcode"`
	Latitude            *float64            `json:"latitude,omitempty"`
	Longitude           *float64            `json:"longitude,omitempty"`
	SpecialRequirements SpecialRequirements `json:"special_requirements"`
	IsAccepted          bool                `json:"is_accepted"`
	AcceptedAt          *time.Time          `json:"accepted_at,omitempty"`
	IsConfirmed         bool                `json:"is_confirmed"`
	ConfirmedAt         *time.Time          `json:"confirmed_at,omitempty"`
	IsCheckedIn         bool                `json:"is_checked_in"`
	CheckInTime         *time.Time          `json:"check_in_time,omitempty"`
	CompletedAt         *time.Time          `json:"completed_at,omitempty"`
	PaymentStatus       PaymentStatus       `json:"payment_status"`
	PaymentIntentID     *string             `json:"payment_intent_id,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// IsOwner reports whether userID posted the task.
func (t *Task) IsOwner(userID uuid.UUID) bool {
	return t.OwnerID == userID
}

// IsAssignedTo reports whether userID is the task's cleaner.
func (t *Task) IsAssignedTo(userID uuid.UUID) bool {
	return t.CleanerID != nil && *t.CleanerID == userID
}

// TaskPatch carries the owner-editable fields of a task. Nil fields are left unchanged.
type TaskPatch struct {
	Status              *TaskStatus          `json:"status,omitempty"`
	TaskType            *TaskType            `json:"task_type,omitempty"`
	ScheduledDate       *Date                `json:"scheduled_date,omitempty"`
	TimeSlot            *TimeSlot            `json:"time_slot,omitempty"`
	EstimatedHours      *decimal.Decimal     `json:"estimated_hours,omitempty"`
	Budget              *decimal.Decimal     `json:"budget,omitempty"`
	HourlyRate          *decimal.Decimal     `json:"hourly_rate,omitempty"`
	SpecialRequirements *SpecialRequirements `json:"special_requirements,omitempty"`
}

func (p TaskPatch) Empty() bool {
	return p.Status == nil && p.TaskType == nil && p.ScheduledDate == nil &&
		p.TimeSlot == nil && p.EstimatedHours == nil && p.Budget == nil &&
		p.HourlyRate == nil && p.SpecialRequirements == nil
}

// Date is a calendar day in UTC that travels as YYYY-MM-DD, the same format
// the task wizard submits. RFC3339 timestamps are accepted and cut to their day.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a YYYY-MM-DD string")
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		*d = NewDate(t)
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("date %q must be YYYY-MM-DD", s)
	}
	*d = NewDate(t)
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(time.DateOnly))
}
