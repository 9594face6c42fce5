package handler

import (
	"net/http"

	"github.com/mealbridge/api/internal/middleware"
	"github.com/mealbridge/api/internal/model"
	"github.com/mealbridge/api/internal/service"
)

// AvailabilityHandler serves weekly availability endpoints
type AvailabilityHandler struct {
	availabilityService *service.AvailabilityService
}

// NewAvailabilityHandler creates a new availability handler
func NewAvailabilityHandler(availabilityService *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilityService: availabilityService}
}

// Create handles POST /v1/availability
func (h *AvailabilityHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var in model.CreateSlotInput
	if err := DecodeJSON(r, &in); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	slot, err := h.availabilityService.Create(r.Context(), userID, in)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusCreated, slot, nil)
}

// List handles GET /v1/availability. Coordinators may pass ?user_id= to view
// another user's slots.
func (h *AvailabilityHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	target := userID
	if other := r.URL.Query().Get("user_id"); other != "" && other != userID {
		if !model.HasRole(middleware.GetUserRole(r.Context()), model.RoleCoordinator) {
			WriteError(w, model.NewForbiddenError("coordinator role required to view other users"))
			return
		}
		target = other
	}

	slots, err := h.availabilityService.ListForUser(r.Context(), target)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteCollection(w, http.StatusOK, slots, len(slots))
}

// Search handles GET /v1/availability/search?day=&minutes=. Coordinators
// use it to find who is free at a weekday and minute of day.
func (h *AvailabilityHandler) Search(w http.ResponseWriter, r *http.Request) {
	day := queryInt(r, "day", -1)
	minutes := queryInt(r, "minutes", -1)
	if day < 0 || day > 6 || minutes < 0 || minutes >= 24*60 {
		WriteError(w, model.NewBadRequestError("day must be 0-6 and minutes 0-1439"))
		return
	}

	users, err := h.availabilityService.AvailableUsers(r.Context(), day, minutes)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteCollection(w, http.StatusOK, users, len(users))
}

// Delete handles DELETE /v1/availability/{slotId}
func (h *AvailabilityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	err := h.availabilityService.Delete(r.Context(), userID, middleware.GetUserRole(r.Context()), r.PathValue("slotId"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteNoContent(w)
}
