package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleHouseOwner Role = "house_owner"
	RoleCleaner    Role = "cleaner"
	RoleOther      Role = "other"
)

func (r Role) Valid() bool {
	return r == RoleHouseOwner || r == RoleCleaner || r == RoleOther
}

type Profile struct {
	ID              uuid.UUID           `json:"id"`
	UserID          uuid.UUID           `json:"user_id"`
	FirstName       string              `json:"first_name"`
	LastName        string              `json:"last_name"`
	Email           string              `json:"email"`
	Phone           string              `json:"phone"`
	Role            Role                `json:"role"`
	AvatarURL       *string             `json:"avatar_url,omitempty"`
	TermsAccepted   bool                `json:"terms_accepted"`
	TermsAcceptedAt *time.Time          `json:"terms_accepted_at,omitempty"`
	HourlyRate      decimal.NullDecimal `json:"hourly_rate"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func (p *Profile) DisplayName() string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	default:
		return p.Email
	}
}

var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// DayAvailability is one row of the availability grid.
type DayAvailability struct {
	Morning   bool `json:"morning"`
	Afternoon bool `json:"afternoon"`
	Evening   bool `json:"evening"`
}

// UnmarshalJSON rejects slot names other than morning, afternoon and evening.
func (d *DayAvailability) UnmarshalJSON(b []byte) error {
	var slots map[string]bool
	if err := json.Unmarshal(b, &slots); err != nil {
		return fmt.Errorf("availability day must map slot names to booleans: %w", err)
	}
	var out DayAvailability
	for slot, on := range slots {
		switch TimeSlot(slot) {
		case TimeSlotMorning:
			out.Morning = on
		case TimeSlotAfternoon:
			out.Afternoon = on
		case TimeSlotEvening:
			out.Evening = on
		default:
			return fmt.Errorf("unknown availability slot %q", slot)
		}
	}
	*d = out
	return nil
}

// Availability maps a lower-case weekday to its slots.
type Availability map[string]DayAvailability

func (a Availability) Value() (driver.Value, error) {
	if a == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(a)
}

func (a *Availability) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*a = Availability{}
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("cannot scan %T into Availability", src)
	}
}

// Covers reports whether the grid has the slot ticked on the given weekday.
func (a Availability) Covers(day time.Weekday, slot TimeSlot) bool {
	idx := (int(day) + 6) % 7
	d, ok := a[Weekdays[idx]]
	if !ok {
		return false
	}
	switch slot {
	case TimeSlotMorning:
		return d.Morning
	case TimeSlotAfternoon:
		return d.Afternoon
	case TimeSlotEvening:
		return d.Evening
	}
	return false
}

type WorkPreference struct {
	ID                uuid.UUID       `json:"id"`
	UserID            uuid.UUID       `json:"user_id"`
	WorkingDistanceKM int             `json:"working_distance_km"`
	Availability      Availability    `json:"availability"`
	Experience        string          `json:"experience"`
	HourlyRate        decimal.Decimal `json:"hourly_rate"`
	MinimumHours      decimal.Decimal `json:"minimum_hours"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type BankAccount struct {
	UserID        uuid.UUID `json:"user_id"`
	AccountName   string    `json:"account_name"`
	BSB           string    `json:"bsb"`
	AccountNumber string    `json:"account_number"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// MaskedAccountNumber hides all but the last three digits.
func (b *BankAccount) MaskedAccountNumber() string {
	n := len(b.AccountNumber)
	if n <= 3 {
		return b.AccountNumber
	}
	masked := make([]byte, n)
	for i := 0; i < n-3; i++ {
		masked[i] = '*'
	}
	copy(masked[n-3:], b.AccountNumber[n-3:])
	return string(masked)
}
