package model

import "time"

// Conversation groups messages between a fixed set of participants.
// A conversation may be attached to an event request (RequestID set), in
// which case reminder jobs post into it.
type Conversation struct {
	ID           string    `json:"id"`
	Subject      string    `json:"subject"`
	RequestID    *string   `json:"request_id,omitempty"`
	Participants []string  `json:"participants"` // user IDs
	CreatedBy    string    `json:"created_by"`
	CreatedOn    time.Time `json:"created_on"`
	UpdatedOn    time.Time `json:"updated_on"`
}

// HasParticipant reports whether userID belongs to the conversation.
func (c *Conversation) HasParticipant(userID string) bool {
	for _, id := range c.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// Message is a single post in a conversation
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Body           string    `json:"body"`
	CreatedOn      time.Time `json:"created_on"`
}

// MessageDeleteWindow is how long senders may delete their own messages.
const MessageDeleteWindow = 10 * time.Minute

// ReadMarker records the last message a participant has read.
type ReadMarker struct {
	ConversationID string    `json:"conversation_id"`
	UserID         string    `json:"user_id"`
	LastReadOn     time.Time `json:"last_read_on"`
}

// ConversationSummary is a conversation with its unread count for a user
type ConversationSummary struct {
	Conversation
	UnreadCount int `json:"unread_count"`
}

// CreateConversationInput is the payload for POST /v1/conversations
type CreateConversationInput struct {
	Subject      string   `json:"subject"`
	RequestID    *string  `json:"request_id,omitempty"`
	Participants []string `json:"participants"`
}

// PostMessageInput is the payload for POST /v1/conversations/{id}/messages
type PostMessageInput struct {
	Body string `json:"body"`
}
