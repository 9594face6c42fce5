package model

import "time"

// User roles, least to most privileged
const (
	RoleVolunteer   = "volunteer"
	RoleCoordinator = "coordinator"
	RoleAdmin       = "admin"
)

// User represents a platform account
type User struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Phone       *string    `json:"phone,omitempty"`
	Role        string     `json:"role"`
	Hash        *string    `json:"-"` // bcrypt hash, never serialized
	Active      bool       `json:"active"`
	LastLoginOn *time.Time `json:"last_login_on,omitempty"`
	CreatedOn   time.Time  `json:"created_on"`
	UpdatedOn   time.Time  `json:"updated_on"`
}

// RoleRank returns an ordering for role comparisons; unknown roles rank lowest.
func RoleRank(role string) int {
	switch role {
	case RoleAdmin:
		return 3
	case RoleCoordinator:
		return 2
	case RoleVolunteer:
		return 1
	}
	return 0
}

// HasRole reports whether role meets or exceeds the required role.
func HasRole(role, required string) bool {
	return RoleRank(role) >= RoleRank(required)
}

// RegisterRequest is the payload for POST /v1/auth/register
type RegisterRequest struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	DisplayName string  `json:"display_name"`
	Phone       *string `json:"phone,omitempty"`
}

// LoginRequest is the payload for POST /v1/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the payload for POST /v1/auth/refresh
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenPair is returned by login and refresh
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// RefreshToken is a stored, revocable refresh token
type RefreshToken struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	TokenHash string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedOn *time.Time `json:"revoked_on,omitempty"`
	CreatedOn time.Time  `json:"created_on"`
}
