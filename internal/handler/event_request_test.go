package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mealbridge/api/internal/model"
	"github.com/mealbridge/api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRequestRepo struct {
	created []*model.EventRequest
}

func (s *stubRequestRepo) Create(_ context.Context, req *model.EventRequest) error {
	req.ID = "event_request:1"
	req.CreatedOn = time.Now()
	s.created = append(s.created, req)
	return nil
}

func (s *stubRequestRepo) Get(_ context.Context, id string) (*model.EventRequest, error) {
	for _, r := range s.created {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (s *stubRequestRepo) List(_ context.Context, _ *model.EventRequestFilters) ([]*model.EventRequest, error) {
	return s.created, nil
}

func (s *stubRequestRepo) Update(_ context.Context, _ string, _ map[string]interface{}) (*model.EventRequest, error) {
	return nil, nil
}

func (s *stubRequestRepo) Delete(_ context.Context, _ string) error { return nil }

func (s *stubRequestRepo) CreateAssignment(_ context.Context, _ *model.StaffAssignment) error {
	return nil
}

func (s *stubRequestRepo) GetAssignments(_ context.Context, _ string) ([]*model.StaffAssignment, error) {
	return nil, nil
}

func (s *stubRequestRepo) HasAssignment(_ context.Context, _, _ string) (bool, error) {
	return false, nil
}

func (s *stubRequestRepo) DeleteAssignment(_ context.Context, _ string) error { return nil }

type stubUserRepo struct{}

func (stubUserRepo) Create(_ context.Context, _ *model.User) error { return nil }
func (stubUserRepo) GetByID(_ context.Context, _ string) (*model.User, error) {
	return nil, nil
}
func (stubUserRepo) GetByEmail(_ context.Context, _ string) (*model.User, error) {
	return nil, nil
}
func (stubUserRepo) ListByRole(_ context.Context, _ []string) ([]*model.User, error) {
	return nil, nil
}
func (stubUserRepo) UpdateRole(_ context.Context, _, _ string) error { return nil }
func (stubUserRepo) UpdateLastLogin(_ context.Context, _ string, _ time.Time) error {
	return nil
}

func newIntakeHandler(t *testing.T) (*EventRequestHandler, *stubRequestRepo) {
	t.Helper()
	repo := &stubRequestRepo{}
	svc := service.NewEventRequestService(service.EventRequestServiceConfig{
		RequestRepo: repo,
		UserRepo:    stubUserRepo{},
	})
	h, err := NewEventRequestHandler(svc)
	require.NoError(t, err)
	return h, repo
}

func TestIntakeAcceptsValidSubmission(t *testing.T) {
	h, repo := newIntakeHandler(t)

	eventDate := time.Now().AddDate(0, 1, 0).Format(time.RFC3339)
	body := `{
		"org_name": "Rivertown Shelter",
		"contact_name": "Pat Jones",
		"contact_email": "pat@rivertown.org",
		"event_date": "` + eventDate + `",
		"expected_attendees": 40
	}`

	req := httptest.NewRequest(http.MethodPost, "/v1/intake/requests", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Intake(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Len(t, repo.created, 1)
	assert.Equal(t, model.RequestStatusNew, repo.created[0].Status)
	// Public intake records no owner
	assert.Nil(t, repo.created[0].CreatedBy)
}

func TestIntakeRejectsMissingFields(t *testing.T) {
	h, repo := newIntakeHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/intake/requests",
		strings.NewReader(`{"org_name": "Rivertown Shelter"}`))
	w := httptest.NewRecorder()
	h.Intake(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	problem := parseProblem(t, w.Body.Bytes())
	assert.NotEmpty(t, problem.Errors)
	assert.Empty(t, repo.created)
}

func TestIntakeRejectsUnknownFields(t *testing.T) {
	h, repo := newIntakeHandler(t)

	eventDate := time.Now().AddDate(0, 1, 0).Format(time.RFC3339)
	body := `{
		"org_name": "Rivertown Shelter",
		"contact_name": "Pat Jones",
		"contact_email": "pat@rivertown.org",
		"event_date": "` + eventDate + `",
		"expected_attendees": 40,
		"admin": true
	}`

	req := httptest.NewRequest(http.MethodPost, "/v1/intake/requests", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Intake(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, repo.created)
}

func TestIntakeRejectsMalformedJSON(t *testing.T) {
	h, _ := newIntakeHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/intake/requests", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.Intake(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIntakeRejectsPastEventDate(t *testing.T) {
	h, repo := newIntakeHandler(t)

	body := `{
		"org_name": "Rivertown Shelter",
		"contact_name": "Pat Jones",
		"contact_email": "pat@rivertown.org",
		"event_date": "2020-01-15T10:00:00Z",
		"expected_attendees": 40
	}`

	req := httptest.NewRequest(http.MethodPost, "/v1/intake/requests", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Intake(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, repo.created)
}

func TestRequestListRejectsBadDateFilter(t *testing.T) {
	h, _ := newIntakeHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/requests?from=notadate", nil)
	w := httptest.NewRecorder()
	h.List(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransitionEndpoint(t *testing.T) {
	h, repo := newIntakeHandler(t)
	repo.created = append(repo.created, &model.EventRequest{
		ID:     "event_request:1",
		Status: model.RequestStatusCompleted,
	})

	req := makeJSONRequest(http.MethodPost, "/v1/requests/event_request:1/status",
		model.TransitionInput{Status: model.RequestStatusScheduled})
	req.SetPathValue("requestId", "event_request:1")
	w := httptest.NewRecorder()
	h.Transition(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var problem model.ProblemDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, model.ErrCodeInvalidTransition, problem.Code)
}
