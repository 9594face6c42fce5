package model

import "time"

// AvailabilitySlot is a recurring weekly window in which a user can be
// staffed. Times are minutes since midnight in the org's local time.
type AvailabilitySlot struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	DayOfWeek    int       `json:"day_of_week"` // 0=Sunday .. 6=Saturday
	StartMinutes int       `json:"start_minutes"`
	EndMinutes   int       `json:"end_minutes"`
	Note         *string   `json:"note,omitempty"`
	CreatedOn    time.Time `json:"created_on"`
}

// Covers reports whether the slot contains the given weekday and minute.
func (s *AvailabilitySlot) Covers(day int, minutes int) bool {
	return s.DayOfWeek == day && s.StartMinutes <= minutes && minutes < s.EndMinutes
}

// Overlaps reports whether two slots on the same day share any time.
func (s *AvailabilitySlot) Overlaps(other *AvailabilitySlot) bool {
	if s.DayOfWeek != other.DayOfWeek {
		return false
	}
	return s.StartMinutes < other.EndMinutes && other.StartMinutes < s.EndMinutes
}

// CreateSlotInput is the payload for POST /v1/availability
type CreateSlotInput struct {
	DayOfWeek    int     `json:"day_of_week"`
	StartMinutes int     `json:"start_minutes"`
	EndMinutes   int     `json:"end_minutes"`
	Note         *string `json:"note,omitempty"`
}

// Validate returns field errors for an invalid slot definition.
func (in *CreateSlotInput) Validate() []FieldError {
	var errs []FieldError
	if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
		errs = append(errs, FieldError{Field: "day_of_week", Message: "must be 0-6"})
	}
	if in.StartMinutes < 0 || in.StartMinutes >= 24*60 {
		errs = append(errs, FieldError{Field: "start_minutes", Message: "must be 0-1439"})
	}
	if in.EndMinutes <= in.StartMinutes || in.EndMinutes > 24*60 {
		errs = append(errs, FieldError{Field: "end_minutes", Message: "must be after start_minutes and at most 1440"})
	}
	return errs
}
