package handler

import (
	"net/http"

	"github.com/mealbridge/api/internal/middleware"
	"github.com/mealbridge/api/internal/model"
	"github.com/mealbridge/api/internal/service"
)

// FlagHandler serves feature flag endpoints
type FlagHandler struct {
	flagService *service.FlagService
}

// NewFlagHandler creates a new flag handler
func NewFlagHandler(flagService *service.FlagService) *FlagHandler {
	return &FlagHandler{flagService: flagService}
}

// List handles GET /v1/flags. Admin only; returns every flag definition.
func (h *FlagHandler) List(w http.ResponseWriter, r *http.Request) {
	WriteData(w, http.StatusOK, h.flagService.All(), nil)
}

// Check handles GET /v1/flags/{flagName}. Returns whether the flag is on
// for the calling user, honoring the role allowlist and percentage rollout.
func (h *FlagHandler) Check(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	name := r.PathValue("flagName")
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"flag":    name,
		"enabled": h.flagService.EnabledFor(name, userID, middleware.GetUserRole(r.Context())),
	})
}
