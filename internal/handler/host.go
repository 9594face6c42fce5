package handler

import (
	"net/http"

	"github.com/mealbridge/api/internal/model"
	"github.com/mealbridge/api/internal/service"
)

// HostHandler serves collection host endpoints
type HostHandler struct {
	hostService *service.HostService
}

// NewHostHandler creates a new host handler
func NewHostHandler(hostService *service.HostService) *HostHandler {
	return &HostHandler{hostService: hostService}
}

// Create handles POST /v1/hosts
func (h *HostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.CreateHostInput
	if err := DecodeJSON(r, &in); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	host, err := h.hostService.Create(r.Context(), in)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusCreated, host, map[string]string{"self": "/v1/hosts/" + host.ID})
}

// List handles GET /v1/hosts
func (h *HostHandler) List(w http.ResponseWriter, r *http.Request) {
	hosts, err := h.hostService.List(r.Context(), queryBool(r, "active"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteCollection(w, http.StatusOK, hosts, len(hosts))
}

// Get handles GET /v1/hosts/{hostId}
func (h *HostHandler) Get(w http.ResponseWriter, r *http.Request) {
	host, err := h.hostService.Get(r.Context(), r.PathValue("hostId"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, host, map[string]string{"self": "/v1/hosts/" + host.ID})
}

// Update handles PATCH /v1/hosts/{hostId}
func (h *HostHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in model.UpdateHostInput
	if err := DecodeJSON(r, &in); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	host, err := h.hostService.Update(r.Context(), r.PathValue("hostId"), in)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, host, nil)
}

// Delete handles DELETE /v1/hosts/{hostId}. A host referenced by collection
// records is deactivated and returned instead of removed.
func (h *HostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	host, err := h.hostService.Delete(r.Context(), r.PathValue("hostId"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	if host != nil {
		WriteData(w, http.StatusOK, host, nil)
		return
	}
	WriteNoContent(w)
}

// AddContact handles POST /v1/hosts/{hostId}/contacts
func (h *HostHandler) AddContact(w http.ResponseWriter, r *http.Request) {
	var in model.CreateHostContactInput
	if err := DecodeJSON(r, &in); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	contact, err := h.hostService.AddContact(r.Context(), r.PathValue("hostId"), in)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusCreated, contact, nil)
}

// RemoveContact handles DELETE /v1/hosts/{hostId}/contacts/{contactId}
func (h *HostHandler) RemoveContact(w http.ResponseWriter, r *http.Request) {
	err := h.hostService.RemoveContact(r.Context(), r.PathValue("hostId"), r.PathValue("contactId"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteNoContent(w)
}
