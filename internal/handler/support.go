package handler

import (
	"net/http"

	"github.com/mealbridge/api/internal/middleware"
	"github.com/mealbridge/api/internal/model"
	"github.com/mealbridge/api/internal/service"
)

// SupportHandler serves wishlist, cooler, and promotion endpoints
type SupportHandler struct {
	supportService *service.SupportService
}

// NewSupportHandler creates a new support handler
func NewSupportHandler(supportService *service.SupportService) *SupportHandler {
	return &SupportHandler{supportService: supportService}
}

// ===== Wishlist =====

// SuggestItem handles POST /v1/wishlist
func (h *SupportHandler) SuggestItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var in model.CreateSuggestionInput
	if err := DecodeJSON(r, &in); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	suggestion, err := h.supportService.SuggestItem(r.Context(), userID, in)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusCreated, suggestion, nil)
}

// ListSuggestions handles GET /v1/wishlist
func (h *SupportHandler) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.supportService.ListSuggestions(r.Context())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteCollection(w, http.StatusOK, suggestions, len(suggestions))
}

// Vote handles POST /v1/wishlist/{suggestionId}/vote
func (h *SupportHandler) Vote(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	suggestion, err := h.supportService.Vote(r.Context(), userID, r.PathValue("suggestionId"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, suggestion, nil)
}

// DeleteSuggestion handles DELETE /v1/wishlist/{suggestionId}
func (h *SupportHandler) DeleteSuggestion(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	err := h.supportService.DeleteSuggestion(r.Context(), userID, middleware.GetUserRole(r.Context()), r.PathValue("suggestionId"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteNoContent(w)
}

// ===== Coolers =====

// AddCooler handles POST /v1/coolers
func (h *SupportHandler) AddCooler(w http.ResponseWriter, r *http.Request) {
	var in model.CreateCoolerInput
	if err := DecodeJSON(r, &in); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	cooler, err := h.supportService.AddCooler(r.Context(), in)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusCreated, cooler, nil)
}

// ListCoolers handles GET /v1/coolers
func (h *SupportHandler) ListCoolers(w http.ResponseWriter, r *http.Request) {
	coolers, err := h.supportService.ListCoolers(r.Context())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteCollection(w, http.StatusOK, coolers, len(coolers))
}

// CheckOutCooler handles POST /v1/coolers/{coolerId}/checkout
func (h *SupportHandler) CheckOutCooler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	cooler, err := h.supportService.CheckOutCooler(r.Context(), userID, r.PathValue("coolerId"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, cooler, nil)
}

// ReturnCooler handles POST /v1/coolers/{coolerId}/return
func (h *SupportHandler) ReturnCooler(w http.ResponseWriter, r *http.Request) {
	cooler, err := h.supportService.ReturnCooler(r.Context(), r.PathValue("coolerId"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, cooler, nil)
}

// SetCoolerStatus handles PUT /v1/coolers/{coolerId}/status
func (h *SupportHandler) SetCoolerStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status string `json:"status"`
	}
	if err := DecodeJSON(r, &in); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	cooler, err := h.supportService.SetCoolerStatus(r.Context(), r.PathValue("coolerId"), in.Status)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, cooler, nil)
}

// ===== Promotions =====

// AddPromotion handles POST /v1/promotions
func (h *SupportHandler) AddPromotion(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var in model.CreatePromotionInput
	if err := DecodeJSON(r, &in); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	promo, err := h.supportService.AddPromotion(r.Context(), userID, in)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusCreated, promo, nil)
}

// ListPromotions handles GET /v1/promotions
func (h *SupportHandler) ListPromotions(w http.ResponseWriter, r *http.Request) {
	promos, err := h.supportService.ListPromotions(r.Context(), middleware.GetUserRole(r.Context()))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteCollection(w, http.StatusOK, promos, len(promos))
}

// ApprovePromotion handles POST /v1/promotions/{promotionId}/approve
func (h *SupportHandler) ApprovePromotion(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	promo, err := h.supportService.ApprovePromotion(r.Context(), userID, r.PathValue("promotionId"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, promo, nil)
}
