package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mealbridge/api/internal/model"
)

// EventRequestRepository defines the interface for event request storage
type EventRequestRepository interface {
	Create(ctx context.Context, req *model.EventRequest) error
	Get(ctx context.Context, id string) (*model.EventRequest, error)
	List(ctx context.Context, filters *model.EventRequestFilters) ([]*model.EventRequest, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (*model.EventRequest, error)
	Delete(ctx context.Context, id string) error
	CreateAssignment(ctx context.Context, a *model.StaffAssignment) error
	GetAssignments(ctx context.Context, requestID string) ([]*model.StaffAssignment, error)
	HasAssignment(ctx context.Context, requestID, userID string) (bool, error)
	DeleteAssignment(ctx context.Context, assignmentID string) error
}

// AvailabilityChecker reports whether a user has an availability slot
// covering a weekday and minute of day
type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, userID string, day int, minutes int) (bool, error)
}

// EventRequestService handles event request triage and staffing
type EventRequestService struct {
	requestRepo  EventRequestRepository
	userRepo     UserRepository
	availability AvailabilityChecker
	mailer       Mailer
	logger       *slog.Logger
}

// EventRequestServiceConfig holds configuration for the event request
// service. Availability is optional; when nil, staffing skips the slot
// check. Mailer is optional; when nil, no notification mail is sent.
type EventRequestServiceConfig struct {
	RequestRepo  EventRequestRepository
	UserRepo     UserRepository
	Availability AvailabilityChecker
	Mailer       Mailer
	Logger       *slog.Logger
}

// NewEventRequestService creates a new event request service
func NewEventRequestService(cfg EventRequestServiceConfig) *EventRequestService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &EventRequestService{
		requestRepo:  cfg.RequestRepo,
		userRepo:     cfg.UserRepo,
		availability: cfg.Availability,
		mailer:       cfg.Mailer,
		logger:       logger,
	}
}

// Create records an event request. createdBy is empty for public intake.
func (s *EventRequestService) Create(ctx context.Context, createdBy string, in model.CreateEventRequestInput) (*model.EventRequest, error) {
	if errs := validateRequestInput(in); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	req := &model.EventRequest{
		OrgName:           in.OrgName,
		ContactName:       in.ContactName,
		ContactEmail:      in.ContactEmail,
		ContactPhone:      in.ContactPhone,
		EventDate:         in.EventDate,
		ExpectedAttendees: in.ExpectedAttendees,
		Location:          in.Location,
		Notes:             in.Notes,
		Status:            model.RequestStatusNew,
	}
	if createdBy != "" {
		req.CreatedBy = &createdBy
	}

	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// Get retrieves an event request
func (s *EventRequestService) Get(ctx context.Context, id string) (*model.EventRequest, error) {
	req, err := s.requestRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}
	return req, nil
}

// List returns event requests matching the filters
func (s *EventRequestService) List(ctx context.Context, filters *model.EventRequestFilters) ([]*model.EventRequest, error) {
	if filters != nil && filters.Status != "" && !model.ValidRequestStatus(filters.Status) {
		return nil, ErrInvalidTransition
	}
	return s.requestRepo.List(ctx, filters)
}

// canManage reports whether the actor may edit or delete a request. Admins
// always may; coordinators only when they are the assigned liaison or created
// the request themselves; volunteers only for their own requests while still
// new.
func canManage(req *model.EventRequest, actorID, actorRole string) bool {
	if model.HasRole(actorRole, model.RoleAdmin) {
		return true
	}
	isCreator := req.CreatedBy != nil && *req.CreatedBy == actorID
	if model.HasRole(actorRole, model.RoleCoordinator) {
		if req.LiaisonID != nil && *req.LiaisonID == actorID {
			return true
		}
		return isCreator
	}
	return isCreator && req.Status == model.RequestStatusNew
}

// Update applies a partial edit, subject to the ownership rule
func (s *EventRequestService) Update(ctx context.Context, actorID, actorRole, id string, in model.UpdateEventRequestInput) (*model.EventRequest, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(req, actorID, actorRole) {
		return nil, ErrNotRequestOwner
	}

	updates := map[string]interface{}{}
	if in.OrgName != nil {
		updates["org_name"] = *in.OrgName
	}
	if in.ContactName != nil {
		updates["contact_name"] = *in.ContactName
	}
	if in.ContactEmail != nil {
		updates["contact_email"] = *in.ContactEmail
	}
	if in.ContactPhone != nil {
		updates["contact_phone"] = *in.ContactPhone
	}
	if in.EventDate != nil {
		updates["event_date"] = *in.EventDate
	}
	if in.ExpectedAttendees != nil {
		updates["expected_attendees"] = *in.ExpectedAttendees
	}
	if in.Location != nil {
		updates["location"] = map[string]interface{}{
			"address": in.Location.Address,
			"city":    in.Location.City,
			"lat":     in.Location.Lat,
			"lng":     in.Location.Lng,
		}
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}

	updated, err := s.requestRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrRequestNotFound
	}
	return updated, nil
}

// Delete removes a request and its staff assignments, subject to the same
// ownership rule as Update
func (s *EventRequestService) Delete(ctx context.Context, actorID, actorRole, id string) error {
	req, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !canManage(req, actorID, actorRole) {
		return ErrNotRequestOwner
	}

	assignments, err := s.requestRepo.GetAssignments(ctx, id)
	if err != nil {
		return err
	}
	for _, a := range assignments {
		if err := s.requestRepo.DeleteAssignment(ctx, a.ID); err != nil {
			return err
		}
	}
	return s.requestRepo.Delete(ctx, id)
}

// Transition moves a request through the triage status machine. Declining
// requires a reason; scheduling stamps scheduled_on.
func (s *EventRequestService) Transition(ctx context.Context, id string, in model.TransitionInput) (*model.EventRequest, error) {
	if !model.ValidRequestStatus(in.Status) {
		return nil, ErrInvalidTransition
	}

	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(req.Status, in.Status) {
		return nil, ErrInvalidTransition
	}

	updates := map[string]interface{}{"status": in.Status}
	switch in.Status {
	case model.RequestStatusDeclined:
		if in.DeclineReason == nil || *in.DeclineReason == "" {
			return nil, ErrDeclineReasonMissing
		}
		updates["decline_reason"] = *in.DeclineReason
	case model.RequestStatusScheduled:
		updates["scheduled_on"] = time.Now()
	}

	updated, err := s.requestRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrRequestNotFound
	}

	if in.Status == model.RequestStatusScheduled && s.mailer != nil {
		subject := fmt.Sprintf("Your event is scheduled: %s", updated.OrgName)
		body := fmt.Sprintf("Hi %s,\n\nYour event on %s for %d attendees is confirmed.\n",
			updated.ContactName, updated.EventDate.Format("Mon Jan 2 2006"), updated.ExpectedAttendees)
		if err := s.mailer.Send(updated.ContactEmail, subject, body); err != nil {
			s.logger.Error("failed to send scheduling confirmation", "request_id", id, "error", err)
		}
	}
	return updated, nil
}

// AssignLiaison sets the staff contact for a request. The liaison must hold
// at least the coordinator role.
func (s *EventRequestService) AssignLiaison(ctx context.Context, id, liaisonID string) (*model.EventRequest, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, liaisonID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !model.HasRole(user.Role, model.RoleCoordinator) {
		return nil, ErrLiaisonNotEligible
	}

	updated, err := s.requestRepo.Update(ctx, id, map[string]interface{}{"liaison_id": liaisonID})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrRequestNotFound
	}
	return updated, nil
}

// AddStaff assigns a volunteer to a scheduled request
func (s *EventRequestService) AddStaff(ctx context.Context, requestID, actorID string, in model.CreateAssignmentInput) (*model.StaffAssignment, error) {
	if !model.ValidStaffRole(in.Role) {
		return nil, ErrInvalidStaffRole
	}

	req, err := s.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != model.RequestStatusScheduled {
		return nil, ErrNotScheduled
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	exists, err := s.requestRepo.HasAssignment(ctx, requestID, in.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyAssigned
	}

	if s.availability != nil {
		day := int(req.EventDate.Weekday())
		minutes := req.EventDate.Hour()*60 + req.EventDate.Minute()
		free, err := s.availability.IsAvailable(ctx, in.UserID, day, minutes)
		if err != nil {
			return nil, err
		}
		if !free {
			return nil, ErrVolunteerUnavailable
		}
	}

	assignment := &model.StaffAssignment{
		RequestID: requestID,
		UserID:    in.UserID,
		Role:      in.Role,
		AddedBy:   actorID,
	}
	if err := s.requestRepo.CreateAssignment(ctx, assignment); err != nil {
		return nil, err
	}

	if s.mailer != nil && user.Email != "" {
		subject := fmt.Sprintf("You're on the roster: %s", req.OrgName)
		body := fmt.Sprintf("You've been assigned as %s for the %s event on %s.\n",
			in.Role, req.OrgName, req.EventDate.Format("Mon Jan 2 2006"))
		if err := s.mailer.Send(user.Email, subject, body); err != nil {
			s.logger.Error("failed to send assignment notice", "request_id", requestID, "error", err)
		}
	}
	return assignment, nil
}

// ListStaff returns the staff assignments for a request
func (s *EventRequestService) ListStaff(ctx context.Context, requestID string) ([]*model.StaffAssignment, error) {
	if _, err := s.Get(ctx, requestID); err != nil {
		return nil, err
	}
	return s.requestRepo.GetAssignments(ctx, requestID)
}

// RemoveStaff deletes a staff assignment from a request
func (s *EventRequestService) RemoveStaff(ctx context.Context, requestID, assignmentID string) error {
	assignments, err := s.ListStaff(ctx, requestID)
	if err != nil {
		return err
	}
	for _, a := range assignments {
		if a.ID == assignmentID {
			return s.requestRepo.DeleteAssignment(ctx, assignmentID)
		}
	}
	return ErrAssignmentNotFound
}

func validateRequestInput(in model.CreateEventRequestInput) []model.FieldError {
	var errs []model.FieldError
	if in.OrgName == "" {
		errs = append(errs, model.FieldError{Field: "org_name", Message: "is required"})
	}
	if in.ContactName == "" {
		errs = append(errs, model.FieldError{Field: "contact_name", Message: "is required"})
	}
	if !emailPattern.MatchString(in.ContactEmail) {
		errs = append(errs, model.FieldError{Field: "contact_email", Message: "must be a valid email"})
	}
	if in.EventDate.IsZero() || in.EventDate.Before(time.Now()) {
		errs = append(errs, model.FieldError{Field: "event_date", Message: "must be in the future"})
	}
	if in.ExpectedAttendees <= 0 {
		errs = append(errs, model.FieldError{Field: "expected_attendees", Message: "must be positive"})
	}
	return errs
}
