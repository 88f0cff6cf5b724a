package services

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"homeclean-backend/internal/models"
)

var (
	bsbPattern           = regexp.MustCompile(`^[0-9]{6}$`)
	accountNumberPattern = regexp.MustCompile(`^[0-9]{6,10}$`)
	postcodePattern      = regexp.MustCompile(`^[0-9]{4}$`)
)

var australianStates = map[string]bool{
	"NSW": true, "VIC": true, "QLD": true, "WA": true, "SA": true, "TAS": true, "ACT": true, "NT": true,
}

// NormalizeBSB strips the separators people type ("062-000", "062 000").
func NormalizeBSB(bsb string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(bsb))
}

func ValidateBankAccount(req *models.BankAccountRequest) error {
	if strings.TrimSpace(req.AccountName) == "" {
		return invalid("account_name", "is required")
	}
	if !bsbPattern.MatchString(NormalizeBSB(req.BSB)) {
		return invalid("bsb", "must be exactly 6 digits")
	}
	if !accountNumberPattern.MatchString(strings.TrimSpace(req.AccountNumber)) {
		return invalid("account_number", "must be 6 to 10 digits")
	}
	return nil
}

func ValidateProperty(req *models.PropertyRequest) error {
	required := []struct{ field, value string }{
		{"street", req.Street},
		{"suburb", req.Suburb},
		{"state", req.State},
		{"postcode", req.Postcode},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return invalid(r.field, "is required")
		}
	}
	if !australianStates[strings.ToUpper(strings.TrimSpace(req.State))] {
		return invalid("state", "must be an Australian state or territory code")
	}
	if !postcodePattern.MatchString(strings.TrimSpace(req.Postcode)) {
		return invalid("postcode", "must be 4 digits")
	}
	if req.Bedrooms < 0 || req.Bedrooms > 20 {
		return invalid("bedrooms", "must be between 0 and 20")
	}
	if req.Bathrooms < 0 || req.Bathrooms > 20 {
		return invalid("bathrooms", "must be between 0 and 20")
	}
	return nil
}

var maxEstimatedHours = decimal.NewFromInt(24)

func ValidateCreateTask(req *models.CreateTaskRequest) error {
	if !req.TaskType.Valid() {
		return invalid("task_type", "unknown task type %q", req.TaskType)
	}
	if _, err := req.ParsedDate(); err != nil {
		return invalid("scheduled_date", "must be a YYYY-MM-DD date")
	}
	if !req.TimeSlot.Valid() {
		return invalid("time_slot", "must be morning, afternoon or evening")
	}
	if !req.EstimatedHours.IsPositive() || req.EstimatedHours.GreaterThan(maxEstimatedHours) {
		return invalid("estimated_hours", "must be between 0 and 24")
	}
	if !req.Budget.IsPositive() {
		return invalid("budget", "must be greater than zero")
	}
	if req.HourlyRate != nil && req.HourlyRate.IsNegative() {
		return invalid("hourly_rate", "cannot be negative")
	}
	sr := req.SpecialRequirements
	if sr.BedCount < 0 || sr.BathroomCount < 0 {
		return invalid("special_requirements", "counts cannot be negative")
	}
	if req.PropertyID == nil {
		if strings.TrimSpace(req.Address) == "" || strings.TrimSpace(req.Suburb) == "" {
			return invalid("address", "address and suburb are required without a property")
		}
	}
	return nil
}

func ValidateTaskPatch(patch *models.TaskPatch) error {
	if patch.Empty() {
		return invalid("", "no fields to update")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return invalid("status", "unknown status %q", *patch.Status)
	}
	if patch.TaskType != nil && !patch.TaskType.Valid() {
		return invalid("task_type", "unknown task type %q", *patch.TaskType)
	}
	if patch.TimeSlot != nil && !patch.TimeSlot.Valid() {
		return invalid("time_slot", "must be morning, afternoon or evening")
	}
	if patch.Budget != nil && !patch.Budget.IsPositive() {
		return invalid("budget", "must be greater than zero")
	}
	if patch.EstimatedHours != nil && (!patch.EstimatedHours.IsPositive() || patch.EstimatedHours.GreaterThan(maxEstimatedHours)) {
		return invalid("estimated_hours", "must be between 0 and 24")
	}
	if patch.HourlyRate != nil && patch.HourlyRate.IsNegative() {
		return invalid("hourly_rate", "cannot be negative")
	}
	if patch.SpecialRequirements != nil {
		if sr := patch.SpecialRequirements; sr.BedCount < 0 || sr.BathroomCount < 0 {
			return invalid("special_requirements", "counts cannot be negative")
		}
	}
	return nil
}

func ValidateWorkPreference(req *models.WorkPreferenceRequest) error {
	if req.WorkingDistanceKM < 1 || req.WorkingDistanceKM > 200 {
		return invalid("working_distance_km", "must be between 1 and 200")
	}
	known := make(map[string]bool, len(models.Weekdays))
	for _, d := range models.Weekdays {
		known[d] = true
	}
	for day := range req.Availability {
		if !known[day] {
			return invalid("availability", "unknown day %q", day)
		}
	}
	if req.HourlyRate.IsNegative() {
		return invalid("hourly_rate", "cannot be negative")
	}
	if req.MinimumHours.IsNegative() {
		return invalid("minimum_hours", "cannot be negative")
	}
	return nil
}

func ValidateProfile(req *models.ProfileRequest) error {
	if strings.TrimSpace(req.FirstName) == "" {
		return invalid("first_name", "is required")
	}
	if !req.Role.Valid() {
		return invalid("role", "must be house_owner, cleaner or other")
	}
	if req.Email != "" && !strings.Contains(req.Email, "@") {
		return invalid("email", "is not a valid address")
	}
	if req.HourlyRate != nil && req.HourlyRate.IsNegative() {
		return invalid("hourly_rate", "cannot be negative")
	}
	return nil
}
