package model

import "time"

// Host is a sandwich collection site
type Host struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Location  *Location     `json:"location,omitempty"`
	Active    bool          `json:"active"`
	Notes     *string       `json:"notes,omitempty"`
	Contacts  []HostContact `json:"contacts,omitempty"`
	CreatedOn time.Time     `json:"created_on"`
	UpdatedOn time.Time     `json:"updated_on"`
}

// HostContact is a person reachable at a host site
type HostContact struct {
	ID        string    `json:"id"`
	HostID    string    `json:"host_id"`
	Name      string    `json:"name"`
	Role      *string   `json:"role,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Primary   bool      `json:"primary"`
	CreatedOn time.Time `json:"created_on"`
}

// CreateHostInput is the payload for POST /v1/hosts
type CreateHostInput struct {
	Name     string    `json:"name"`
	Location *Location `json:"location,omitempty"`
	Notes    *string   `json:"notes,omitempty"`
}

// UpdateHostInput is the payload for PATCH /v1/hosts/{hostId}
type UpdateHostInput struct {
	Name     *string   `json:"name,omitempty"`
	Location *Location `json:"location,omitempty"`
	Active   *bool     `json:"active,omitempty"`
	Notes    *string   `json:"notes,omitempty"`
}

// CreateHostContactInput is the payload for POST /v1/hosts/{hostId}/contacts
type CreateHostContactInput struct {
	Name    string  `json:"name"`
	Role    *string `json:"role,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	Primary bool    `json:"primary"`
}
