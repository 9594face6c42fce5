package handler

import (
	"net/http"

	"github.com/mealbridge/api/internal/middleware"
	"github.com/mealbridge/api/internal/model"
	"github.com/mealbridge/api/internal/service"
)

// MessageHandler serves conversation and message endpoints
type MessageHandler struct {
	messageService *service.MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// CreateConversation handles POST /v1/conversations
func (h *MessageHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var in model.CreateConversationInput
	if err := DecodeJSON(r, &in); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	conv, err := h.messageService.CreateConversation(r.Context(), userID, in)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusCreated, conv, map[string]string{"self": "/v1/conversations/" + conv.ID})
}

// ListConversations handles GET /v1/conversations
func (h *MessageHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	summaries, err := h.messageService.ListConversations(r.Context(), userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteCollection(w, http.StatusOK, summaries, len(summaries))
}

// GetConversation handles GET /v1/conversations/{conversationId}
func (h *MessageHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	conv, err := h.messageService.GetConversation(r.Context(), userID, r.PathValue("conversationId"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, conv, nil)
}

// PostMessage handles POST /v1/conversations/{conversationId}/messages
func (h *MessageHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var in model.PostMessageInput
	if err := DecodeJSON(r, &in); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	msg, err := h.messageService.PostMessage(r.Context(), userID, r.PathValue("conversationId"), in)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusCreated, msg, nil)
}

// ListMessages handles GET /v1/conversations/{conversationId}/messages.
// Fetching messages marks the conversation read for the caller.
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	msgs, err := h.messageService.ListMessages(r.Context(), userID, r.PathValue("conversationId"), queryInt(r, "limit", 0))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteCollection(w, http.StatusOK, msgs, len(msgs))
}

// DeleteMessage handles DELETE /v1/messages/{messageId}
func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	err := h.messageService.DeleteMessage(r.Context(), userID, middleware.GetUserRole(r.Context()), r.PathValue("messageId"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteNoContent(w)
}
