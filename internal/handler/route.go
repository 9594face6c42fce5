package handler

import (
	"net/http"

	"github.com/mealbridge/api/internal/model"
	"github.com/mealbridge/api/internal/service"
)

// RouteHandler serves route planning endpoints
type RouteHandler struct {
	routeService *service.RouteService
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(routeService *service.RouteService) *RouteHandler {
	return &RouteHandler{routeService: routeService}
}

// Plan handles POST /v1/routes/plan
func (h *RouteHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var in model.PlanRouteInput
	if err := DecodeJSON(r, &in); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	plan, err := h.routeService.Plan(r.Context(), in)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, plan, nil)
}
