package model

import "time"

// Recipient is an organization that receives sandwich deliveries
type Recipient struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ContactName   *string   `json:"contact_name,omitempty"`
	ContactPhone  *string   `json:"contact_phone,omitempty"`
	ContactEmail  *string   `json:"contact_email,omitempty"`
	Location      *Location `json:"location,omitempty"`
	WeeklyTarget  int       `json:"weekly_target"` // sandwiches per week
	DeliveryNotes *string   `json:"delivery_notes,omitempty"`
	Active        bool      `json:"active"`
	CreatedOn     time.Time `json:"created_on"`
	UpdatedOn     time.Time `json:"updated_on"`
}

// CreateRecipientInput is the payload for POST /v1/recipients
type CreateRecipientInput struct {
	Name          string    `json:"name"`
	ContactName   *string   `json:"contact_name,omitempty"`
	ContactPhone  *string   `json:"contact_phone,omitempty"`
	ContactEmail  *string   `json:"contact_email,omitempty"`
	Location      *Location `json:"location,omitempty"`
	WeeklyTarget  int       `json:"weekly_target"`
	DeliveryNotes *string   `json:"delivery_notes,omitempty"`
}

// UpdateRecipientInput is the payload for PATCH /v1/recipients/{recipientId}
type UpdateRecipientInput struct {
	Name          *string   `json:"name,omitempty"`
	ContactName   *string   `json:"contact_name,omitempty"`
	ContactPhone  *string   `json:"contact_phone,omitempty"`
	ContactEmail  *string   `json:"contact_email,omitempty"`
	Location      *Location `json:"location,omitempty"`
	WeeklyTarget  *int      `json:"weekly_target,omitempty"`
	DeliveryNotes *string   `json:"delivery_notes,omitempty"`
	Active        *bool     `json:"active,omitempty"`
}
