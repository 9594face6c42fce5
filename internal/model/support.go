package model

import "time"

// WishlistSuggestion is a supply item suggested by a volunteer; others vote
// it up, one vote per user.
type WishlistSuggestion struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	SuggestedBy string    `json:"suggested_by"`
	Votes       []string  `json:"-"` // voter user IDs
	VoteCount   int       `json:"vote_count"`
	CreatedOn   time.Time `json:"created_on"`
}

// HasVoted reports whether userID already voted for the suggestion.
func (w *WishlistSuggestion) HasVoted(userID string) bool {
	for _, id := range w.Votes {
		if id == userID {
			return true
		}
	}
	return false
}

// Cooler statuses
const (
	CoolerAvailable = "available"
	CoolerInUse     = "in_use"
	CoolerMissing   = "missing"
	CoolerRetired   = "retired"
)

// CoolerInventory is a tracked cooler unit used for deliveries
type CoolerInventory struct {
	ID           string     `json:"id"`
	Label        string     `json:"label"`
	LocationNote *string    `json:"location_note,omitempty"`
	Capacity     int        `json:"capacity"` // sandwiches
	Status       string     `json:"status"`
	CheckedOutBy *string    `json:"checked_out_by,omitempty"`
	CheckedOutOn *time.Time `json:"checked_out_on,omitempty"`
	CreatedOn    time.Time  `json:"created_on"`
	UpdatedOn    time.Time  `json:"updated_on"`
}

// PromotionGraphic is metadata for an uploaded promo asset
type PromotionGraphic struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	URL        string     `json:"url"`
	EventDate  *time.Time `json:"event_date,omitempty"`
	Approved   bool       `json:"approved"`
	ApprovedBy *string    `json:"approved_by,omitempty"`
	UploadedBy string     `json:"uploaded_by"`
	CreatedOn  time.Time  `json:"created_on"`
}

// CreateSuggestionInput is the payload for POST /v1/wishlist
type CreateSuggestionInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// CreateCoolerInput is the payload for POST /v1/coolers
type CreateCoolerInput struct {
	Label        string  `json:"label"`
	LocationNote *string `json:"location_note,omitempty"`
	Capacity     int     `json:"capacity"`
}

// CreatePromotionInput is the payload for POST /v1/promotions
type CreatePromotionInput struct {
	Title     string     `json:"title"`
	URL       string     `json:"url"`
	EventDate *time.Time `json:"event_date,omitempty"`
}
