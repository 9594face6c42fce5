package handler

import (
	"net/http"

	"github.com/mealbridge/api/internal/middleware"
	"github.com/mealbridge/api/internal/model"
	"github.com/mealbridge/api/internal/service"
)

// OnboardingHandler serves the volunteer onboarding checklist endpoints
type OnboardingHandler struct {
	onboardingService *service.OnboardingService
}

// NewOnboardingHandler creates a new onboarding handler
func NewOnboardingHandler(onboardingService *service.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{onboardingService: onboardingService}
}

// CreateChallenge handles POST /v1/onboarding/challenges
func (h *OnboardingHandler) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	var in model.CreateChallengeInput
	if err := DecodeJSON(r, &in); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	ch, err := h.onboardingService.CreateChallenge(r.Context(), in)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusCreated, ch, nil)
}

// ListChallenges handles GET /v1/onboarding/challenges
func (h *OnboardingHandler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	challenges, err := h.onboardingService.ListChallenges(r.Context())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteCollection(w, http.StatusOK, challenges, len(challenges))
}

// DeactivateChallenge handles DELETE /v1/onboarding/challenges/{challengeId}
func (h *OnboardingHandler) DeactivateChallenge(w http.ResponseWriter, r *http.Request) {
	err := h.onboardingService.DeactivateChallenge(r.Context(), r.PathValue("challengeId"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteNoContent(w)
}

// Complete handles POST /v1/onboarding/challenges/{challengeId}/complete
func (h *OnboardingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	progress, err := h.onboardingService.Complete(r.Context(), userID, r.PathValue("challengeId"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, progress, nil)
}

// Progress handles GET /v1/onboarding/progress
func (h *OnboardingHandler) Progress(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	progress, err := h.onboardingService.Progress(r.Context(), userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, progress, nil)
}
