package service

import (
	"context"
	"strings"
	"time"

	"github.com/mealbridge/api/internal/model"
)

// MessageRepository defines the interface for conversation storage
type MessageRepository interface {
	CreateConversation(ctx context.Context, conv *model.Conversation) error
	GetConversation(ctx context.Context, id string) (*model.Conversation, error)
	GetConversationByRequest(ctx context.Context, requestID string) (*model.Conversation, error)
	ListConversationsForUser(ctx context.Context, userID string) ([]*model.Conversation, error)
	CreateMessage(ctx context.Context, msg *model.Message) error
	GetMessage(ctx context.Context, id string) (*model.Message, error)
	ListMessages(ctx context.Context, conversationID string, limit int) ([]*model.Message, error)
	CountMessagesSince(ctx context.Context, conversationID, userID string, since time.Time) (int, error)
	DeleteMessage(ctx context.Context, id string) error
	UpsertReadMarker(ctx context.Context, marker *model.ReadMarker) error
	GetReadMarker(ctx context.Context, conversationID, userID string) (*model.ReadMarker, error)
}

// MessageService handles conversations between platform users
type MessageService struct {
	messageRepo MessageRepository
	userRepo    UserRepository
}

// MessageServiceConfig holds configuration for the message service
type MessageServiceConfig struct {
	MessageRepo MessageRepository
	UserRepo    UserRepository
}

// NewMessageService creates a new message service
func NewMessageService(cfg MessageServiceConfig) *MessageService {
	return &MessageService{messageRepo: cfg.MessageRepo, userRepo: cfg.UserRepo}
}

// CreateConversation starts a conversation. The creator is always a
// participant; duplicates in the participant list are dropped.
func (s *MessageService) CreateConversation(ctx context.Context, createdBy string, in model.CreateConversationInput) (*model.Conversation, error) {
	if strings.TrimSpace(in.Subject) == "" {
		return nil, model.NewValidationError([]model.FieldError{{Field: "subject", Message: "is required"}})
	}

	seen := map[string]bool{createdBy: true}
	participants := []string{createdBy}
	for _, p := range in.Participants {
		if p == "" || seen[p] {
			continue
		}
		user, err := s.userRepo.GetByID(ctx, p)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
		seen[p] = true
		participants = append(participants, p)
	}
	if len(participants) < 2 {
		return nil, ErrNoParticipants
	}

	conv := &model.Conversation{
		Subject:      in.Subject,
		RequestID:    in.RequestID,
		Participants: participants,
		CreatedBy:    createdBy,
	}
	if err := s.messageRepo.CreateConversation(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// ListConversations returns the user's conversations with unread counts
func (s *MessageService) ListConversations(ctx context.Context, userID string) ([]*model.ConversationSummary, error) {
	convs, err := s.messageRepo.ListConversationsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*model.ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		since := time.Time{}
		marker, err := s.messageRepo.GetReadMarker(ctx, conv.ID, userID)
		if err != nil {
			return nil, err
		}
		if marker != nil {
			since = marker.LastReadOn
		}
		unread, err := s.messageRepo.CountMessagesSince(ctx, conv.ID, userID, since)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, &model.ConversationSummary{Conversation: *conv, UnreadCount: unread})
	}
	return summaries, nil
}

// GetConversation retrieves a conversation the user participates in
func (s *MessageService) GetConversation(ctx context.Context, userID, id string) (*model.Conversation, error) {
	conv, err := s.messageRepo.GetConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}
	if !conv.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}
	return conv, nil
}

// PostMessage adds a message to a conversation the sender participates in
func (s *MessageService) PostMessage(ctx context.Context, senderID, conversationID string, in model.PostMessageInput) (*model.Message, error) {
	if strings.TrimSpace(in.Body) == "" {
		return nil, ErrEmptyMessageBody
	}

	if _, err := s.GetConversation(ctx, senderID, conversationID); err != nil {
		return nil, err
	}

	msg := &model.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           in.Body,
	}
	if err := s.messageRepo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListMessages returns a conversation's messages and marks them read
func (s *MessageService) ListMessages(ctx context.Context, userID, conversationID string, limit int) ([]*model.Message, error) {
	if _, err := s.GetConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	msgs, err := s.messageRepo.ListMessages(ctx, conversationID, limit)
	if err != nil {
		return nil, err
	}

	_ = s.messageRepo.UpsertReadMarker(ctx, &model.ReadMarker{
		ConversationID: conversationID,
		UserID:         userID,
		LastReadOn:     time.Now(),
	})
	return msgs, nil
}

// DeleteMessage removes a message. Senders may delete their own within the
// delete window; admins may delete any message at any time.
func (s *MessageService) DeleteMessage(ctx context.Context, actorID, actorRole, messageID string) error {
	msg, err := s.messageRepo.GetMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if msg == nil {
		return ErrMessageNotFound
	}
	if !model.HasRole(actorRole, model.RoleAdmin) {
		if msg.SenderID != actorID {
			return ErrNotSender
		}
		if time.Since(msg.CreatedOn) > model.MessageDeleteWindow {
			return ErrDeleteWindowExpired
		}
	}
	return s.messageRepo.DeleteMessage(ctx, messageID)
}

// PostSystemMessage posts into the conversation attached to an event
// request, creating nothing when no conversation exists. Used by reminder
// jobs.
func (s *MessageService) PostSystemMessage(ctx context.Context, requestID, senderID, body string) error {
	conv, err := s.messageRepo.GetConversationByRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if conv == nil {
		return nil
	}
	return s.messageRepo.CreateMessage(ctx, &model.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Body:           body,
	})
}
