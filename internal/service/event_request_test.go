package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mealbridge/api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRequestRepo struct {
	requests    map[string]*model.EventRequest
	assignments []*model.StaffAssignment
	nextID      int
}

func newMemRequestRepo() *memRequestRepo {
	return &memRequestRepo{requests: map[string]*model.EventRequest{}}
}

func (m *memRequestRepo) Create(_ context.Context, req *model.EventRequest) error {
	m.nextID++
	req.ID = fmt.Sprintf("event_request:%d", m.nextID)
	req.CreatedOn = time.Now()
	req.UpdatedOn = req.CreatedOn
	copied := *req
	m.requests[req.ID] = &copied
	return nil
}

func (m *memRequestRepo) Get(_ context.Context, id string) (*model.EventRequest, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, nil
	}
	copied := *req
	return &copied, nil
}

func (m *memRequestRepo) List(_ context.Context, _ *model.EventRequestFilters) ([]*model.EventRequest, error) {
	var out []*model.EventRequest
	for _, r := range m.requests {
		out = append(out, r)
	}
	return out, nil
}

func (m *memRequestRepo) Update(_ context.Context, id string, updates map[string]interface{}) (*model.EventRequest, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, nil
	}
	for field, value := range updates {
		switch field {
		case "status":
			req.Status = value.(string)
		case "decline_reason":
			v := value.(string)
			req.DeclineReason = &v
		case "liaison_id":
			v := value.(string)
			req.LiaisonID = &v
		case "scheduled_on":
			v := value.(time.Time)
			req.ScheduledOn = &v
		case "org_name":
			req.OrgName = value.(string)
		case "notes":
			v := value.(string)
			req.Notes = &v
		}
	}
	req.UpdatedOn = time.Now()
	copied := *req
	return &copied, nil
}

func (m *memRequestRepo) Delete(_ context.Context, id string) error {
	delete(m.requests, id)
	return nil
}

func (m *memRequestRepo) CreateAssignment(_ context.Context, a *model.StaffAssignment) error {
	a.ID = fmt.Sprintf("staff_assignment:%d", len(m.assignments)+1)
	a.CreatedOn = time.Now()
	m.assignments = append(m.assignments, a)
	return nil
}

func (m *memRequestRepo) GetAssignments(_ context.Context, requestID string) ([]*model.StaffAssignment, error) {
	var out []*model.StaffAssignment
	for _, a := range m.assignments {
		if a.RequestID == requestID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memRequestRepo) HasAssignment(_ context.Context, requestID, userID string) (bool, error) {
	for _, a := range m.assignments {
		if a.RequestID == requestID && a.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRequestRepo) DeleteAssignment(_ context.Context, assignmentID string) error {
	for i, a := range m.assignments {
		if a.ID == assignmentID {
			m.assignments = append(m.assignments[:i], m.assignments[i+1:]...)
			return nil
		}
	}
	return nil
}

type memUserRepo struct {
	users map[string]*model.User
}

func newMemUserRepo(users ...*model.User) *memUserRepo {
	m := &memUserRepo{users: map[string]*model.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = fmt.Sprintf("user:%d", len(m.users)+1)
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	return m.users[id], nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) ListByRole(_ context.Context, roles []string) ([]*model.User, error) {
	var out []*model.User
	for _, u := range m.users {
		for _, role := range roles {
			if u.Role == role {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (m *memUserRepo) UpdateRole(_ context.Context, userID, role string) error {
	if u, ok := m.users[userID]; ok {
		u.Role = role
	}
	return nil
}

func (m *memUserRepo) UpdateLastLogin(_ context.Context, userID string, at time.Time) error {
	if u, ok := m.users[userID]; ok {
		u.LastLoginOn = &at
	}
	return nil
}

func newRequestFixture() (*EventRequestService, *memRequestRepo, *memUserRepo) {
	users := newMemUserRepo(
		&model.User{ID: "user:vol", Role: model.RoleVolunteer, Active: true},
		&model.User{ID: "user:coord", Role: model.RoleCoordinator, Active: true},
		&model.User{ID: "user:admin", Role: model.RoleAdmin, Active: true},
	)
	requests := newMemRequestRepo()
	svc := NewEventRequestService(EventRequestServiceConfig{RequestRepo: requests, UserRepo: users})
	return svc, requests, users
}

func validRequestInput() model.CreateEventRequestInput {
	return model.CreateEventRequestInput{
		OrgName:           "Maple Street School",
		ContactName:       "Dana Reyes",
		ContactEmail:      "dana@example.org",
		EventDate:         time.Now().Add(14 * 24 * time.Hour),
		ExpectedAttendees: 40,
	}
}

func TestCreateRequestStartsNew(t *testing.T) {
	svc, _, _ := newRequestFixture()

	req, err := svc.Create(context.Background(), "user:vol", validRequestInput())
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusNew, req.Status)
	require.NotNil(t, req.CreatedBy)
	assert.Equal(t, "user:vol", *req.CreatedBy)
}

func TestCreateRequestPublicIntakeHasNoOwner(t *testing.T) {
	svc, _, _ := newRequestFixture()

	req, err := svc.Create(context.Background(), "", validRequestInput())
	require.NoError(t, err)
	assert.Nil(t, req.CreatedBy)
}

func TestCreateRequestValidation(t *testing.T) {
	svc, _, _ := newRequestFixture()

	in := validRequestInput()
	in.OrgName = ""
	in.ContactEmail = "not-an-email"
	in.EventDate = time.Now().Add(-time.Hour)
	in.ExpectedAttendees = 0

	_, err := svc.Create(context.Background(), "user:vol", in)
	require.Error(t, err)

	var problem *model.ProblemDetails
	require.ErrorAs(t, err, &problem)
	assert.Equal(t, 422, problem.Status)
	assert.Len(t, problem.Errors, 4)
}

func TestTransitionHappyPath(t *testing.T) {
	svc, _, _ := newRequestFixture()
	req, err := svc.Create(context.Background(), "user:vol", validRequestInput())
	require.NoError(t, err)

	for _, status := range []string{
		model.RequestStatusInProcess,
		model.RequestStatusScheduled,
		model.RequestStatusCompleted,
	} {
		req, err = svc.Transition(context.Background(), req.ID, model.TransitionInput{Status: status})
		require.NoError(t, err)
		assert.Equal(t, status, req.Status)
	}
	assert.NotNil(t, req.ScheduledOn)
}

func TestTransitionRejectsIllegalMoves(t *testing.T) {
	svc, _, _ := newRequestFixture()
	req, err := svc.Create(context.Background(), "user:vol", validRequestInput())
	require.NoError(t, err)

	// new -> completed skips triage
	_, err = svc.Transition(context.Background(), req.ID, model.TransitionInput{Status: model.RequestStatusCompleted})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// new -> scheduled skips in_process
	_, err = svc.Transition(context.Background(), req.ID, model.TransitionInput{Status: model.RequestStatusScheduled})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// unknown status
	_, err = svc.Transition(context.Background(), req.ID, model.TransitionInput{Status: "parked"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitionDeclineRequiresReason(t *testing.T) {
	svc, _, _ := newRequestFixture()
	req, err := svc.Create(context.Background(), "user:vol", validRequestInput())
	require.NoError(t, err)

	_, err = svc.Transition(context.Background(), req.ID, model.TransitionInput{Status: model.RequestStatusDeclined})
	assert.ErrorIs(t, err, ErrDeclineReasonMissing)

	reason := "outside service area"
	updated, err := svc.Transition(context.Background(), req.ID, model.TransitionInput{
		Status:        model.RequestStatusDeclined,
		DeclineReason: &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusDeclined, updated.Status)
	require.NotNil(t, updated.DeclineReason)
	assert.Equal(t, reason, *updated.DeclineReason)

	// declined is terminal
	_, err = svc.Transition(context.Background(), req.ID, model.TransitionInput{Status: model.RequestStatusInProcess})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPostponedCanBeRescheduled(t *testing.T) {
	svc, _, _ := newRequestFixture()
	req, err := svc.Create(context.Background(), "user:vol", validRequestInput())
	require.NoError(t, err)

	_, err = svc.Transition(context.Background(), req.ID, model.TransitionInput{Status: model.RequestStatusInProcess})
	require.NoError(t, err)
	_, err = svc.Transition(context.Background(), req.ID, model.TransitionInput{Status: model.RequestStatusPostponed})
	require.NoError(t, err)

	updated, err := svc.Transition(context.Background(), req.ID, model.TransitionInput{Status: model.RequestStatusScheduled})
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusScheduled, updated.Status)
}

func TestUpdateOwnership(t *testing.T) {
	svc, _, _ := newRequestFixture()
	req, err := svc.Create(context.Background(), "user:vol", validRequestInput())
	require.NoError(t, err)

	name := "Renamed Org"
	// A different volunteer may not edit
	_, err = svc.Update(context.Background(), "user:other", model.RoleVolunteer, req.ID, model.UpdateEventRequestInput{OrgName: &name})
	assert.ErrorIs(t, err, ErrNotRequestOwner)

	// The owner may edit while the request is new
	updated, err := svc.Update(context.Background(), "user:vol", model.RoleVolunteer, req.ID, model.UpdateEventRequestInput{OrgName: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.OrgName)

	// After triage starts, the owner loses edit access
	_, err = svc.Transition(context.Background(), req.ID, model.TransitionInput{Status: model.RequestStatusInProcess})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), "user:vol", model.RoleVolunteer, req.ID, model.UpdateEventRequestInput{OrgName: &name})
	assert.ErrorIs(t, err, ErrNotRequestOwner)

	// A coordinator with no tie to the request may not edit it
	_, err = svc.Update(context.Background(), "user:coord", model.RoleCoordinator, req.ID, model.UpdateEventRequestInput{OrgName: &name})
	assert.ErrorIs(t, err, ErrNotRequestOwner)

	// The assigned liaison may
	_, err = svc.AssignLiaison(context.Background(), req.ID, "user:coord")
	require.NoError(t, err)
	_, err = svc.Update(context.Background(), "user:coord", model.RoleCoordinator, req.ID, model.UpdateEventRequestInput{OrgName: &name})
	assert.NoError(t, err)

	// Admins always may
	_, err = svc.Update(context.Background(), "user:admin", model.RoleAdmin, req.ID, model.UpdateEventRequestInput{OrgName: &name})
	assert.NoError(t, err)
}

func TestDeleteRequestOwnership(t *testing.T) {
	svc, _, users := newRequestFixture()
	users.users["user:coord2"] = &model.User{ID: "user:coord2", Role: model.RoleCoordinator, Active: true}

	req, err := svc.Create(context.Background(), "user:coord", validRequestInput())
	require.NoError(t, err)

	// A coordinator who neither created the request nor is its liaison may not delete
	err = svc.Delete(context.Background(), "user:coord2", model.RoleCoordinator, req.ID)
	assert.ErrorIs(t, err, ErrNotRequestOwner)

	// The creating coordinator may
	require.NoError(t, svc.Delete(context.Background(), "user:coord", model.RoleCoordinator, req.ID))
	err = svc.Delete(context.Background(), "user:coord", model.RoleCoordinator, req.ID)
	assert.ErrorIs(t, err, ErrRequestNotFound)

	// A volunteer may withdraw their own request only while it is new
	req, err = svc.Create(context.Background(), "user:vol", validRequestInput())
	require.NoError(t, err)
	_, err = svc.Transition(context.Background(), req.ID, model.TransitionInput{Status: model.RequestStatusInProcess})
	require.NoError(t, err)
	err = svc.Delete(context.Background(), "user:vol", model.RoleVolunteer, req.ID)
	assert.ErrorIs(t, err, ErrNotRequestOwner)
}

func TestDeleteRequestRemovesStaff(t *testing.T) {
	svc, repo, _ := newRequestFixture()
	req, err := svc.Create(context.Background(), "user:vol", validRequestInput())
	require.NoError(t, err)

	_, err = svc.Transition(context.Background(), req.ID, model.TransitionInput{Status: model.RequestStatusInProcess})
	require.NoError(t, err)
	_, err = svc.Transition(context.Background(), req.ID, model.TransitionInput{Status: model.RequestStatusScheduled})
	require.NoError(t, err)
	_, err = svc.AddStaff(context.Background(), req.ID, "user:coord", model.CreateAssignmentInput{UserID: "user:vol", Role: model.StaffRoleDriver})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "user:admin", model.RoleAdmin, req.ID))
	assert.Empty(t, repo.assignments)
	assert.Empty(t, repo.requests)
}

func TestAssignLiaison(t *testing.T) {
	svc, _, _ := newRequestFixture()
	req, err := svc.Create(context.Background(), "user:vol", validRequestInput())
	require.NoError(t, err)

	// Volunteers cannot be liaisons
	_, err = svc.AssignLiaison(context.Background(), req.ID, "user:vol")
	assert.ErrorIs(t, err, ErrLiaisonNotEligible)

	_, err = svc.AssignLiaison(context.Background(), req.ID, "user:nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)

	updated, err := svc.AssignLiaison(context.Background(), req.ID, "user:coord")
	require.NoError(t, err)
	require.NotNil(t, updated.LiaisonID)
	assert.Equal(t, "user:coord", *updated.LiaisonID)
}

func TestStaffing(t *testing.T) {
	svc, _, _ := newRequestFixture()
	req, err := svc.Create(context.Background(), "user:vol", validRequestInput())
	require.NoError(t, err)

	// Staffing requires a scheduled request
	_, err = svc.AddStaff(context.Background(), req.ID, "user:coord", model.CreateAssignmentInput{UserID: "user:vol", Role: model.StaffRoleDriver})
	assert.ErrorIs(t, err, ErrNotScheduled)

	_, err = svc.Transition(context.Background(), req.ID, model.TransitionInput{Status: model.RequestStatusInProcess})
	require.NoError(t, err)
	_, err = svc.Transition(context.Background(), req.ID, model.TransitionInput{Status: model.RequestStatusScheduled})
	require.NoError(t, err)

	_, err = svc.AddStaff(context.Background(), req.ID, "user:coord", model.CreateAssignmentInput{UserID: "user:vol", Role: "chef"})
	assert.ErrorIs(t, err, ErrInvalidStaffRole)

	a, err := svc.AddStaff(context.Background(), req.ID, "user:coord", model.CreateAssignmentInput{UserID: "user:vol", Role: model.StaffRoleDriver})
	require.NoError(t, err)
	assert.Equal(t, "user:coord", a.AddedBy)

	// Same user twice is rejected
	_, err = svc.AddStaff(context.Background(), req.ID, "user:coord", model.CreateAssignmentInput{UserID: "user:vol", Role: model.StaffRoleHelper})
	assert.ErrorIs(t, err, ErrAlreadyAssigned)

	staff, err := svc.ListStaff(context.Background(), req.ID)
	require.NoError(t, err)
	require.Len(t, staff, 1)

	require.NoError(t, svc.RemoveStaff(context.Background(), req.ID, a.ID))
	assert.ErrorIs(t, svc.RemoveStaff(context.Background(), req.ID, a.ID), ErrAssignmentNotFound)
}

type stubAvailability struct {
	free map[string]bool
}

func (s *stubAvailability) IsAvailable(_ context.Context, userID string, _ int, _ int) (bool, error) {
	return s.free[userID], nil
}

func TestStaffingChecksAvailability(t *testing.T) {
	users := newMemUserRepo(
		&model.User{ID: "user:free", Role: model.RoleVolunteer, Active: true},
		&model.User{ID: "user:busy", Role: model.RoleVolunteer, Active: true},
	)
	svc := NewEventRequestService(EventRequestServiceConfig{
		RequestRepo:  newMemRequestRepo(),
		UserRepo:     users,
		Availability: &stubAvailability{free: map[string]bool{"user:free": true}},
	})

	req, err := svc.Create(context.Background(), "user:free", validRequestInput())
	require.NoError(t, err)
	_, err = svc.Transition(context.Background(), req.ID, model.TransitionInput{Status: model.RequestStatusInProcess})
	require.NoError(t, err)
	_, err = svc.Transition(context.Background(), req.ID, model.TransitionInput{Status: model.RequestStatusScheduled})
	require.NoError(t, err)

	_, err = svc.AddStaff(context.Background(), req.ID, "user:free", model.CreateAssignmentInput{UserID: "user:busy", Role: model.StaffRoleHelper})
	assert.ErrorIs(t, err, ErrVolunteerUnavailable)

	_, err = svc.AddStaff(context.Background(), req.ID, "user:free", model.CreateAssignmentInput{UserID: "user:free", Role: model.StaffRoleHelper})
	assert.NoError(t, err)
}
