package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTaskRequest is the payload submitted at the end of the task wizard.
type CreateTaskRequest struct {
	PropertyID          *uuid.UUID          `json:"property_id,omitempty"`
	TaskType            TaskType            `json:"task_type"`
	ScheduledDate       string              `json:"scheduled_date" example:"2026-11-02"`
	TimeSlot            TimeSlot            `json:"time_slot"`
	EstimatedHours      decimal.Decimal     `json:"estimated_hours"`
	Budget              decimal.Decimal     `json:"budget"`
	HourlyRate          *decimal.Decimal    `json:"hourly_rate,omitempty"`
	Address             string              `json:"address,omitempty"`
	Suburb              string              `json:"suburb,omitempty"`
	State               string              `json:"state,omitempty"`
	Postcode            string              `json:"postcode,omitempty"`
	SpecialRequirements SpecialRequirements `json:"special_requirements"`
}

// ParsedDate returns ScheduledDate as a UTC date.
func (r *CreateTaskRequest) ParsedDate() (time.Time, error) {
	return time.Parse(time.DateOnly, r.ScheduledDate)
}

type PropertyRequest struct {
	Name        string `json:"name"`
	Street      string `json:"street"`
	Suburb      string `json:"suburb"`
	State       string `json:"state"`
	Postcode    string `json:"postcode"`
	Bedrooms    int    `json:"bedrooms"`
	Bathrooms   int    `json:"bathrooms"`
	HasPets     bool   `json:"has_pets"`
	HasPool     bool   `json:"has_pool"`
	HasGarden   bool   `json:"has_garden"`
	IsFurnished bool   `json:"is_furnished"`
	EntryMethod string `json:"entry_method"`
}

type ProfileRequest struct {
	FirstName  string           `json:"first_name"`
	LastName   string           `json:"last_name"`
	Email      string           `json:"email"`
	Phone      string           `json:"phone"`
	Role       Role             `json:"role"`
	AvatarURL  *string          `json:"avatar_url,omitempty"`
	HourlyRate *decimal.Decimal `json:"hourly_rate,omitempty"`
}

type WorkPreferenceRequest struct {
	WorkingDistanceKM int             `json:"working_distance_km"`
	Availability      Availability    `json:"availability"`
	Experience        string          `json:"experience"`
	HourlyRate        decimal.Decimal `json:"hourly_rate"`
	MinimumHours      decimal.Decimal `json:"minimum_hours"`
}

type BankAccountRequest struct {
	AccountName   string `json:"account_name"`
	BSB           string `json:"bsb"`
	AccountNumber string `json:"account_number"`
}

type CancelTaskRequest struct {
	Reason string `json:"reason,omitempty"`
}

type GeocodeRequest struct {
	Address string `json:"address"`
}

type NotificationRequest struct {
	Channel   string                 `json:"channel"`
	Recipient string                 `json:"recipient"`
	Type      string                 `json:"type"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}

const ActionCreatePaymentIntent = "create_payment_intent"

type PaymentIntentRequest struct {
	Action      string            `json:"action"`
	Amount      decimal.Decimal   `json:"amount"`
	Currency    string            `json:"currency,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Description string            `json:"description,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
