package model

import "time"

// EventRequest statuses. Requests arrive as "new" and move through triage
// to a terminal state. "postponed" may be rescheduled back to "scheduled".
const (
	RequestStatusNew       = "new"
	RequestStatusInProcess = "in_process"
	RequestStatusScheduled = "scheduled"
	RequestStatusCompleted = "completed"
	RequestStatusDeclined  = "declined"
	RequestStatusPostponed = "postponed"
)

// requestTransitions maps each status to the statuses it may move to.
var requestTransitions = map[string][]string{
	RequestStatusNew:       {RequestStatusInProcess, RequestStatusDeclined},
	RequestStatusInProcess: {RequestStatusScheduled, RequestStatusDeclined, RequestStatusPostponed},
	RequestStatusScheduled: {RequestStatusCompleted, RequestStatusDeclined, RequestStatusPostponed},
	RequestStatusPostponed: {RequestStatusScheduled, RequestStatusDeclined},
	RequestStatusCompleted: {},
	RequestStatusDeclined:  {},
}

// ValidRequestStatus reports whether s is a known event request status.
func ValidRequestStatus(s string) bool {
	_, ok := requestTransitions[s]
	return ok
}

// CanTransition reports whether an event request may move from one status
// to another.
func CanTransition(from, to string) bool {
	for _, next := range requestTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// EventRequest is an intake record for a requested nonprofit event.
type EventRequest struct {
	ID                string     `json:"id"`
	OrgName           string     `json:"org_name"`
	ContactName       string     `json:"contact_name"`
	ContactEmail      string     `json:"contact_email"`
	ContactPhone      *string    `json:"contact_phone,omitempty"`
	EventDate         time.Time  `json:"event_date"`
	ExpectedAttendees int        `json:"expected_attendees"`
	Location          *Location  `json:"location,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
	Status            string     `json:"status"`
	LiaisonID         *string    `json:"liaison_id,omitempty"` // assigned staff contact
	DeclineReason     *string    `json:"decline_reason,omitempty"`
	CreatedBy         *string    `json:"created_by,omitempty"` // nil for public intake
	ScheduledOn       *time.Time `json:"scheduled_on,omitempty"`
	CreatedOn         time.Time  `json:"created_on"`
	UpdatedOn         time.Time  `json:"updated_on"`
}

// Location is a street address with optional coordinates
type Location struct {
	Address string   `json:"address"`
	City    string   `json:"city,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

// HasCoordinates reports whether both lat and lng are present.
func (l *Location) HasCoordinates() bool {
	return l != nil && l.Lat != nil && l.Lng != nil
}

// CreateEventRequestInput is the payload for creating an event request.
// The same shape is accepted on the public intake endpoint.
type CreateEventRequestInput struct {
	OrgName           string    `json:"org_name"`
	ContactName       string    `json:"contact_name"`
	ContactEmail      string    `json:"contact_email"`
	ContactPhone      *string   `json:"contact_phone,omitempty"`
	EventDate         time.Time `json:"event_date"`
	ExpectedAttendees int       `json:"expected_attendees"`
	Location          *Location `json:"location,omitempty"`
	Notes             *string   `json:"notes,omitempty"`
}

// UpdateEventRequestInput is the payload for PATCH; nil fields are unchanged.
type UpdateEventRequestInput struct {
	OrgName           *string    `json:"org_name,omitempty"`
	ContactName       *string    `json:"contact_name,omitempty"`
	ContactEmail      *string    `json:"contact_email,omitempty"`
	ContactPhone      *string    `json:"contact_phone,omitempty"`
	EventDate         *time.Time `json:"event_date,omitempty"`
	ExpectedAttendees *int       `json:"expected_attendees,omitempty"`
	Location          *Location  `json:"location,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
}

// TransitionInput is the payload for POST .../status
type TransitionInput struct {
	Status        string  `json:"status"`
	DeclineReason *string `json:"decline_reason,omitempty"`
}

// AssignLiaisonInput is the payload for PUT .../liaison
type AssignLiaisonInput struct {
	UserID string `json:"user_id"`
}

// Staffing roles for event assignments
const (
	StaffRoleDriver  = "driver"
	StaffRoleSpeaker = "speaker"
	StaffRoleLead    = "lead"
	StaffRoleHelper  = "helper"
)

// ValidStaffRole reports whether r is a known staffing role.
func ValidStaffRole(r string) bool {
	switch r {
	case StaffRoleDriver, StaffRoleSpeaker, StaffRoleLead, StaffRoleHelper:
		return true
	}
	return false
}

// StaffAssignment links a volunteer to a scheduled event request
type StaffAssignment struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	AddedBy   string    `json:"added_by"`
	CreatedOn time.Time `json:"created_on"`
}

// CreateAssignmentInput is the payload for POST .../assignments
type CreateAssignmentInput struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// EventRequestFilters narrows event request listings
type EventRequestFilters struct {
	Status    string
	LiaisonID string
	From      *time.Time
	To        *time.Time
	Limit     int
}
