package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mealbridge/api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memMessageRepo struct {
	conversations []*model.Conversation
	messages      []*model.Message
	markers       map[string]*model.ReadMarker
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{markers: map[string]*model.ReadMarker{}}
}

func (m *memMessageRepo) CreateConversation(_ context.Context, conv *model.Conversation) error {
	conv.ID = fmt.Sprintf("conversation:%d", len(m.conversations)+1)
	conv.CreatedOn = time.Now()
	conv.UpdatedOn = conv.CreatedOn
	m.conversations = append(m.conversations, conv)
	return nil
}

func (m *memMessageRepo) GetConversation(_ context.Context, id string) (*model.Conversation, error) {
	for _, c := range m.conversations {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (m *memMessageRepo) GetConversationByRequest(_ context.Context, requestID string) (*model.Conversation, error) {
	for _, c := range m.conversations {
		if c.RequestID != nil && *c.RequestID == requestID {
			return c, nil
		}
	}
	return nil, nil
}

func (m *memMessageRepo) ListConversationsForUser(_ context.Context, userID string) ([]*model.Conversation, error) {
	var out []*model.Conversation
	for _, c := range m.conversations {
		if c.HasParticipant(userID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memMessageRepo) CreateMessage(_ context.Context, msg *model.Message) error {
	msg.ID = fmt.Sprintf("message:%d", len(m.messages)+1)
	msg.CreatedOn = time.Now()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *memMessageRepo) GetMessage(_ context.Context, id string) (*model.Message, error) {
	for _, msg := range m.messages {
		if msg.ID == id {
			return msg, nil
		}
	}
	return nil, nil
}

func (m *memMessageRepo) ListMessages(_ context.Context, conversationID string, _ int) ([]*model.Message, error) {
	var out []*model.Message
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *memMessageRepo) CountMessagesSince(_ context.Context, conversationID, userID string, since time.Time) (int, error) {
	count := 0
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID && msg.SenderID != userID && msg.CreatedOn.After(since) {
			count++
		}
	}
	return count, nil
}

func (m *memMessageRepo) DeleteMessage(_ context.Context, id string) error {
	for i, msg := range m.messages {
		if msg.ID == id {
			m.messages = append(m.messages[:i], m.messages[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memMessageRepo) UpsertReadMarker(_ context.Context, marker *model.ReadMarker) error {
	m.markers[marker.ConversationID+"|"+marker.UserID] = marker
	return nil
}

func (m *memMessageRepo) GetReadMarker(_ context.Context, conversationID, userID string) (*model.ReadMarker, error) {
	return m.markers[conversationID+"|"+userID], nil
}

func newMessageFixture() (*MessageService, *memMessageRepo) {
	users := newMemUserRepo(
		&model.User{ID: "user:a", Role: model.RoleVolunteer, Active: true},
		&model.User{ID: "user:b", Role: model.RoleVolunteer, Active: true},
		&model.User{ID: "user:admin", Role: model.RoleAdmin, Active: true},
	)
	repo := newMemMessageRepo()
	svc := NewMessageService(MessageServiceConfig{MessageRepo: repo, UserRepo: users})
	return svc, repo
}

func TestCreateConversationRules(t *testing.T) {
	svc, _ := newMessageFixture()
	ctx := context.Background()

	_, err := svc.CreateConversation(ctx, "user:a", model.CreateConversationInput{Participants: []string{"user:b"}})
	require.Error(t, err)
	var problem *model.ProblemDetails
	require.ErrorAs(t, err, &problem)
	assert.Equal(t, 422, problem.Status)

	// The creator alone is not a conversation
	_, err = svc.CreateConversation(ctx, "user:a", model.CreateConversationInput{Subject: "Hi"})
	assert.ErrorIs(t, err, ErrNoParticipants)

	_, err = svc.CreateConversation(ctx, "user:a", model.CreateConversationInput{Subject: "Hi", Participants: []string{"user:nobody"}})
	assert.ErrorIs(t, err, ErrUserNotFound)

	// Duplicates and the creator are dropped from the participant list
	conv, err := svc.CreateConversation(ctx, "user:a", model.CreateConversationInput{
		Subject:      "Saturday pickup",
		Participants: []string{"user:b", "user:b", "user:a"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"user:a", "user:b"}, conv.Participants)
}

func TestConversationParticipantAccess(t *testing.T) {
	svc, _ := newMessageFixture()
	ctx := context.Background()

	conv, err := svc.CreateConversation(ctx, "user:a", model.CreateConversationInput{
		Subject:      "Saturday pickup",
		Participants: []string{"user:b"},
	})
	require.NoError(t, err)

	_, err = svc.GetConversation(ctx, "user:admin", conv.ID)
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = svc.PostMessage(ctx, "user:admin", conv.ID, model.PostMessageInput{Body: "hello"})
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = svc.PostMessage(ctx, "user:a", conv.ID, model.PostMessageInput{Body: "  "})
	assert.ErrorIs(t, err, ErrEmptyMessageBody)

	_, err = svc.PostMessage(ctx, "user:a", conv.ID, model.PostMessageInput{Body: "hello"})
	assert.NoError(t, err)
}

func TestUnreadCounts(t *testing.T) {
	svc, _ := newMessageFixture()
	ctx := context.Background()

	conv, err := svc.CreateConversation(ctx, "user:a", model.CreateConversationInput{
		Subject:      "Saturday pickup",
		Participants: []string{"user:b"},
	})
	require.NoError(t, err)

	_, err = svc.PostMessage(ctx, "user:b", conv.ID, model.PostMessageInput{Body: "first"})
	require.NoError(t, err)
	_, err = svc.PostMessage(ctx, "user:b", conv.ID, model.PostMessageInput{Body: "second"})
	require.NoError(t, err)

	summaries, err := svc.ListConversations(ctx, "user:a")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 2, summaries[0].UnreadCount)

	// Own messages never count as unread
	summaries, err = svc.ListConversations(ctx, "user:b")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 0, summaries[0].UnreadCount)

	// Fetching messages marks the conversation read
	_, err = svc.ListMessages(ctx, "user:a", conv.ID, 0)
	require.NoError(t, err)
	summaries, err = svc.ListConversations(ctx, "user:a")
	require.NoError(t, err)
	assert.Equal(t, 0, summaries[0].UnreadCount)
}

func TestDeleteMessageWindow(t *testing.T) {
	svc, repo := newMessageFixture()
	ctx := context.Background()

	conv, err := svc.CreateConversation(ctx, "user:a", model.CreateConversationInput{
		Subject:      "Saturday pickup",
		Participants: []string{"user:b"},
	})
	require.NoError(t, err)
	msg, err := svc.PostMessage(ctx, "user:a", conv.ID, model.PostMessageInput{Body: "oops"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteMessage(ctx, "user:b", model.RoleVolunteer, msg.ID), ErrNotSender)
	require.NoError(t, svc.DeleteMessage(ctx, "user:a", model.RoleVolunteer, msg.ID))
	assert.ErrorIs(t, svc.DeleteMessage(ctx, "user:a", model.RoleVolunteer, msg.ID), ErrMessageNotFound)

	// Past the window the sender is out of luck
	stale, err := svc.PostMessage(ctx, "user:a", conv.ID, model.PostMessageInput{Body: "old news"})
	require.NoError(t, err)
	stored, err := repo.GetMessage(ctx, stale.ID)
	require.NoError(t, err)
	stored.CreatedOn = time.Now().Add(-model.MessageDeleteWindow - time.Minute)

	assert.ErrorIs(t, svc.DeleteMessage(ctx, "user:a", model.RoleVolunteer, stale.ID), ErrDeleteWindowExpired)
}

func TestDeleteMessageAdminOverride(t *testing.T) {
	svc, repo := newMessageFixture()
	ctx := context.Background()

	conv, err := svc.CreateConversation(ctx, "user:a", model.CreateConversationInput{
		Subject:      "Saturday pickup",
		Participants: []string{"user:b"},
	})
	require.NoError(t, err)
	msg, err := svc.PostMessage(ctx, "user:a", conv.ID, model.PostMessageInput{Body: "off topic"})
	require.NoError(t, err)

	// Another user's message, long past the window
	stored, err := repo.GetMessage(ctx, msg.ID)
	require.NoError(t, err)
	stored.CreatedOn = time.Now().Add(-24 * time.Hour)

	require.NoError(t, svc.DeleteMessage(ctx, "user:admin", model.RoleAdmin, msg.ID))
	assert.Empty(t, repo.messages)
}
