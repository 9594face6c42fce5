package model

import "time"

// OnboardingChallenge is a step in the new-volunteer checklist, worth points
// when completed.
type OnboardingChallenge struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Points      int       `json:"points"`
	Ordinal     int       `json:"ordinal"` // display order
	Active      bool      `json:"active"`
	CreatedOn   time.Time `json:"created_on"`
}

// ChallengeCompletion records that a user finished a challenge
type ChallengeCompletion struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ChallengeID string    `json:"challenge_id"`
	CompletedOn time.Time `json:"completed_on"`
}

// Badge tiers by accumulated points
const (
	BadgeNone   = ""
	BadgeBronze = "bronze"
	BadgeSilver = "silver"
	BadgeGold   = "gold"

	BadgeBronzePoints = 50
	BadgeSilverPoints = 150
	BadgeGoldPoints   = 300
)

// BadgeForPoints returns the highest badge earned at the given point total.
func BadgeForPoints(points int) string {
	switch {
	case points >= BadgeGoldPoints:
		return BadgeGold
	case points >= BadgeSilverPoints:
		return BadgeSilver
	case points >= BadgeBronzePoints:
		return BadgeBronze
	}
	return BadgeNone
}

// OnboardingProgress summarizes a user's gamification state
type OnboardingProgress struct {
	UserID        string                `json:"user_id"`
	Points        int                   `json:"points"`
	Badge         string                `json:"badge,omitempty"`
	Completed     []ChallengeCompletion `json:"completed"`
	NextChallenge *OnboardingChallenge  `json:"next_challenge,omitempty"`
}

// CreateChallengeInput is the payload for POST /v1/onboarding/challenges
type CreateChallengeInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Points      int     `json:"points"`
	Ordinal     int     `json:"ordinal"`
}
