package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mealbridge/api/internal/database"
	"github.com/mealbridge/api/internal/model"
)

// MessageRepository handles conversation and message data access
type MessageRepository struct {
	db database.Database
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db database.Database) *MessageRepository {
	return &MessageRepository{db: db}
}

// CreateConversation creates a conversation with its participant set
func (r *MessageRepository) CreateConversation(ctx context.Context, conv *model.Conversation) error {
	setClause := `
		subject = $subject,
		participants = $participants,
		created_by = $created_by,
		created_on = time::now(),
		updated_on = time::now()`
	vars := map[string]interface{}{
		"subject":      conv.Subject,
		"participants": conv.Participants,
		"created_by":   conv.CreatedBy,
	}
	if conv.RequestID != nil {
		setClause += ", request_id = $request_id"
		vars["request_id"] = *conv.RequestID
	}

	result, err := r.db.Query(ctx, "CREATE conversation SET "+setClause, vars)
	if err != nil {
		return err
	}
	created, err := extractCreated(result)
	if err != nil {
		return err
	}
	conv.ID = created.ID
	conv.CreatedOn = created.CreatedOn
	conv.UpdatedOn = created.UpdatedOn
	return nil
}

// GetConversation retrieves a conversation by ID; returns (nil, nil) when
// absent
func (r *MessageRepository) GetConversation(ctx context.Context, id string) (*model.Conversation, error) {
	result, err := r.db.QueryOne(ctx, `SELECT * FROM type::record($id)`, map[string]interface{}{"id": id})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseConversationRow(result)
}

// GetConversationByRequest finds the conversation attached to an event
// request; returns (nil, nil) when none exists
func (r *MessageRepository) GetConversationByRequest(ctx context.Context, requestID string) (*model.Conversation, error) {
	result, err := r.db.QueryOne(ctx,
		`SELECT * FROM conversation WHERE request_id = $request_id LIMIT 1`,
		map[string]interface{}{"request_id": requestID})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseConversationRow(result)
}

// ListConversationsForUser returns conversations the user participates in,
// most recently updated first
func (r *MessageRepository) ListConversationsForUser(ctx context.Context, userID string) ([]*model.Conversation, error) {
	result, err := r.db.Query(ctx,
		`SELECT * FROM conversation WHERE $user IN participants ORDER BY updated_on DESC`,
		map[string]interface{}{"user": userID})
	if err != nil {
		return nil, err
	}

	var convs []*model.Conversation
	for _, row := range resultRows(result) {
		if c, err := parseConversationRow(row); err == nil && c != nil {
			convs = append(convs, c)
		}
	}
	return convs, nil
}

// CreateMessage posts a message and bumps the conversation's updated time
func (r *MessageRepository) CreateMessage(ctx context.Context, msg *model.Message) error {
	result, err := r.db.Query(ctx,
		`CREATE message SET
			conversation_id = $conversation_id,
			sender_id = $sender_id,
			body = $body,
			created_on = time::now()`,
		map[string]interface{}{
			"conversation_id": msg.ConversationID,
			"sender_id":       msg.SenderID,
			"body":            msg.Body,
		})
	if err != nil {
		return err
	}
	created, err := extractCreated(result)
	if err != nil {
		return err
	}
	msg.ID = created.ID
	msg.CreatedOn = created.CreatedOn

	return r.db.Execute(ctx,
		`UPDATE type::record($id) SET updated_on = time::now()`,
		map[string]interface{}{"id": msg.ConversationID})
}

// GetMessage retrieves a message by ID; returns (nil, nil) when absent
func (r *MessageRepository) GetMessage(ctx context.Context, id string) (*model.Message, error) {
	result, err := r.db.QueryOne(ctx, `SELECT * FROM type::record($id)`, map[string]interface{}{"id": id})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	m, ok := rowMap(result)
	if !ok {
		return nil, nil
	}
	return parseMessageRow(m), nil
}

// ListMessages returns a conversation's messages, oldest first
func (r *MessageRepository) ListMessages(ctx context.Context, conversationID string, limit int) ([]*model.Message, error) {
	if limit <= 0 {
		limit = 200
	}
	result, err := r.db.Query(ctx,
		`SELECT * FROM message WHERE conversation_id = $conversation_id ORDER BY created_on LIMIT $limit`,
		map[string]interface{}{"conversation_id": conversationID, "limit": limit})
	if err != nil {
		return nil, err
	}

	var msgs []*model.Message
	for _, row := range resultRows(result) {
		m, ok := rowMap(row)
		if !ok {
			continue
		}
		msgs = append(msgs, parseMessageRow(m))
	}
	return msgs, nil
}

// CountMessagesSince counts messages in a conversation newer than the given
// time, excluding those sent by userID
func (r *MessageRepository) CountMessagesSince(ctx context.Context, conversationID, userID string, since time.Time) (int, error) {
	result, err := r.db.QueryOne(ctx,
		`SELECT count() AS count FROM message WHERE conversation_id = $conversation_id AND sender_id != $user AND created_on > $since GROUP ALL`,
		map[string]interface{}{"conversation_id": conversationID, "user": userID, "since": since})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return scalarInt(result), nil
}

// DeleteMessage removes a message
func (r *MessageRepository) DeleteMessage(ctx context.Context, id string) error {
	return r.db.Execute(ctx, `DELETE type::record($id)`, map[string]interface{}{"id": id})
}

// UpsertReadMarker records the user's read position in a conversation
func (r *MessageRepository) UpsertReadMarker(ctx context.Context, marker *model.ReadMarker) error {
	return r.db.Execute(ctx,
		`DELETE read_marker WHERE conversation_id = $conversation_id AND user_id = $user_id;
		 CREATE read_marker SET
			conversation_id = $conversation_id,
			user_id = $user_id,
			last_read_on = $last_read_on`,
		map[string]interface{}{
			"conversation_id": marker.ConversationID,
			"user_id":         marker.UserID,
			"last_read_on":    marker.LastReadOn,
		})
}

// GetReadMarker returns the user's read marker for a conversation, or
// (nil, nil) when none exists
func (r *MessageRepository) GetReadMarker(ctx context.Context, conversationID, userID string) (*model.ReadMarker, error) {
	result, err := r.db.QueryOne(ctx,
		`SELECT * FROM read_marker WHERE conversation_id = $conversation_id AND user_id = $user_id LIMIT 1`,
		map[string]interface{}{"conversation_id": conversationID, "user_id": userID})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	m, ok := rowMap(result)
	if !ok {
		return nil, nil
	}
	return &model.ReadMarker{
		ConversationID: getString(m, "conversation_id"),
		UserID:         getString(m, "user_id"),
		LastReadOn:     getTime(m, "last_read_on"),
	}, nil
}

func parseConversationRow(row interface{}) (*model.Conversation, error) {
	m, ok := rowMap(row)
	if !ok {
		return nil, nil
	}

	return &model.Conversation{
		ID:           recordID(m["id"]),
		Subject:      getString(m, "subject"),
		RequestID:    getStringPtr(m, "request_id"),
		Participants: getStringSlice(m, "participants"),
		CreatedBy:    getString(m, "created_by"),
		CreatedOn:    getTime(m, "created_on"),
		UpdatedOn:    getTime(m, "updated_on"),
	}, nil
}

func parseMessageRow(m map[string]interface{}) *model.Message {
	return &model.Message{
		ID:             recordID(m["id"]),
		ConversationID: getString(m, "conversation_id"),
		SenderID:       getString(m, "sender_id"),
		Body:           getString(m, "body"),
		CreatedOn:      getTime(m, "created_on"),
	}
}
