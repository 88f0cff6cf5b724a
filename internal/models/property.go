package models

import (
	"time"

	"github.com/google/uuid"
)

type Property struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Street      string    `json:"street"`
	Suburb      string    `json:"suburb"`
	State       string    `json:"state"`
	Postcode    string    `json:"postcode"`
	Bedrooms    int       `json:"bedrooms"`
	Bathrooms   int       `json:"bathrooms"`
	HasPets     bool      `json:"has_pets"`
	HasPool     bool      `json:"has_pool"`
	HasGarden   bool      `json:"has_garden"`
	IsFurnished bool      `json:"is_furnished"`
	EntryMethod string    `json:"entry_method"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FullAddress joins the address components in the order a geocoder expects.
func (p *Property) FullAddress() string {
	return FormatAddress(p.Street, p.Suburb, p.State, p.Postcode)
}

// FormatAddress renders "street, suburb state postcode", skipping empty parts.
func FormatAddress(street, suburb, state, postcode string) string {
	out := street
	locality := suburb
	for _, part := range []string{state, postcode} {
		if part == "" {
			continue
		}
		if locality != "" {
			locality += " "
		}
		locality += part
	}
	if locality != "" {
		if out != "" {
			out += ", "
		}
		out += locality
	}
	return out
}
