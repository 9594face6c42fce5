package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/mealbridge/api/internal/middleware"
	"github.com/mealbridge/api/internal/model"
	"github.com/mealbridge/api/internal/service"
	"github.com/qri-io/jsonschema"
)

// intakeMaxBody caps public intake request bodies
const intakeMaxBody = 64 << 10

// intakeSchema validates public intake submissions before they reach the
// service layer. The public endpoint is unauthenticated, so the shape check
// happens up front.
const intakeSchema = `{
	"type": "object",
	"required": ["org_name", "contact_name", "contact_email", "event_date", "expected_attendees"],
	"properties": {
		"org_name": {"type": "string", "minLength": 1},
		"contact_name": {"type": "string", "minLength": 1},
		"contact_email": {"type": "string", "minLength": 3},
		"contact_phone": {"type": "string"},
		"event_date": {"type": "string"},
		"expected_attendees": {"type": "integer", "minimum": 1},
		"location": {
			"type": "object",
			"properties": {
				"address": {"type": "string"},
				"city": {"type": "string"},
				"lat": {"type": "number"},
				"lng": {"type": "number"}
			}
		},
		"notes": {"type": "string"}
	},
	"additionalProperties": false
}`

// EventRequestHandler serves event request triage and staffing endpoints
type EventRequestHandler struct {
	requestService *service.EventRequestService
	schema         *jsonschema.Schema
}

// NewEventRequestHandler creates a new event request handler
func NewEventRequestHandler(requestService *service.EventRequestService) (*EventRequestHandler, error) {
	schema := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(intakeSchema), schema); err != nil {
		return nil, err
	}
	return &EventRequestHandler{requestService: requestService, schema: schema}, nil
}

// Intake handles POST /v1/intake/requests, the unauthenticated public form
func (h *EventRequestHandler) Intake(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, intakeMaxBody))
	if err != nil {
		WriteError(w, model.NewBadRequestError("failed to read request body"))
		return
	}

	keyErrs, err := h.schema.ValidateBytes(r.Context(), body)
	if err != nil {
		WriteError(w, model.NewBadRequestError("invalid JSON"))
		return
	}
	if len(keyErrs) > 0 {
		fieldErrs := make([]model.FieldError, 0, len(keyErrs))
		for _, ke := range keyErrs {
			fieldErrs = append(fieldErrs, model.FieldError{
				Field:   ke.PropertyPath,
				Message: ke.Message,
			})
		}
		WriteError(w, model.NewValidationError(fieldErrs))
		return
	}

	var in model.CreateEventRequestInput
	if err := json.Unmarshal(body, &in); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	req, err := h.requestService.Create(r.Context(), "", in)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusCreated, req, map[string]string{"self": "/v1/requests/" + req.ID})
}

// Create handles POST /v1/requests
func (h *EventRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var in model.CreateEventRequestInput
	if err := DecodeJSON(r, &in); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	req, err := h.requestService.Create(r.Context(), userID, in)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusCreated, req, map[string]string{"self": "/v1/requests/" + req.ID})
}

// List handles GET /v1/requests
func (h *EventRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	from, ok := queryTime(r, "from")
	if !ok {
		WriteError(w, model.NewBadRequestError("invalid from date"))
		return
	}
	to, ok := queryTime(r, "to")
	if !ok {
		WriteError(w, model.NewBadRequestError("invalid to date"))
		return
	}

	filters := &model.EventRequestFilters{
		Status:    r.URL.Query().Get("status"),
		LiaisonID: r.URL.Query().Get("liaison_id"),
		From:      from,
		To:        to,
		Limit:     queryInt(r, "limit", 0),
	}

	requests, err := h.requestService.List(r.Context(), filters)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteCollection(w, http.StatusOK, requests, len(requests))
}

// Get handles GET /v1/requests/{requestId}
func (h *EventRequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	req, err := h.requestService.Get(r.Context(), r.PathValue("requestId"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, req, map[string]string{"self": "/v1/requests/" + req.ID})
}

// Update handles PATCH /v1/requests/{requestId}
func (h *EventRequestHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var in model.UpdateEventRequestInput
	if err := DecodeJSON(r, &in); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	req, err := h.requestService.Update(r.Context(), userID, middleware.GetUserRole(r.Context()), r.PathValue("requestId"), in)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, req, nil)
}

// Delete handles DELETE /v1/requests/{requestId}
func (h *EventRequestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	err := h.requestService.Delete(r.Context(), userID, middleware.GetUserRole(r.Context()), r.PathValue("requestId"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteNoContent(w)
}

// Transition handles POST /v1/requests/{requestId}/status
func (h *EventRequestHandler) Transition(w http.ResponseWriter, r *http.Request) {
	var in model.TransitionInput
	if err := DecodeJSON(r, &in); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	req, err := h.requestService.Transition(r.Context(), r.PathValue("requestId"), in)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, req, nil)
}

// AssignLiaison handles PUT /v1/requests/{requestId}/liaison
func (h *EventRequestHandler) AssignLiaison(w http.ResponseWriter, r *http.Request) {
	var in model.AssignLiaisonInput
	if err := DecodeJSON(r, &in); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	req, err := h.requestService.AssignLiaison(r.Context(), r.PathValue("requestId"), in.UserID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, req, nil)
}

// AddStaff handles POST /v1/requests/{requestId}/assignments
func (h *EventRequestHandler) AddStaff(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var in model.CreateAssignmentInput
	if err := DecodeJSON(r, &in); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	assignment, err := h.requestService.AddStaff(r.Context(), r.PathValue("requestId"), userID, in)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusCreated, assignment, nil)
}

// ListStaff handles GET /v1/requests/{requestId}/assignments
func (h *EventRequestHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.requestService.ListStaff(r.Context(), r.PathValue("requestId"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteCollection(w, http.StatusOK, assignments, len(assignments))
}

// RemoveStaff handles DELETE /v1/requests/{requestId}/assignments/{assignmentId}
func (h *EventRequestHandler) RemoveStaff(w http.ResponseWriter, r *http.Request) {
	err := h.requestService.RemoveStaff(r.Context(), r.PathValue("requestId"), r.PathValue("assignmentId"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteNoContent(w)
}
