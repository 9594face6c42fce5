package handler

import (
	"net/http"

	"github.com/mealbridge/api/internal/model"
	"github.com/mealbridge/api/internal/service"
)

// RecipientHandler serves recipient organization endpoints
type RecipientHandler struct {
	recipientService *service.RecipientService
}

// NewRecipientHandler creates a new recipient handler
func NewRecipientHandler(recipientService *service.RecipientService) *RecipientHandler {
	return &RecipientHandler{recipientService: recipientService}
}

// Create handles POST /v1/recipients
func (h *RecipientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.CreateRecipientInput
	if err := DecodeJSON(r, &in); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	rec, err := h.recipientService.Create(r.Context(), in)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusCreated, rec, map[string]string{"self": "/v1/recipients/" + rec.ID})
}

// List handles GET /v1/recipients
func (h *RecipientHandler) List(w http.ResponseWriter, r *http.Request) {
	recipients, err := h.recipientService.List(r.Context(), queryBool(r, "active"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteCollection(w, http.StatusOK, recipients, len(recipients))
}

// Get handles GET /v1/recipients/{recipientId}
func (h *RecipientHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.recipientService.Get(r.Context(), r.PathValue("recipientId"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, rec, map[string]string{"self": "/v1/recipients/" + rec.ID})
}

// Update handles PATCH /v1/recipients/{recipientId}
func (h *RecipientHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in model.UpdateRecipientInput
	if err := DecodeJSON(r, &in); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	rec, err := h.recipientService.Update(r.Context(), r.PathValue("recipientId"), in)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, rec, nil)
}
