package service

import (
	"context"
	"time"

	"github.com/mealbridge/api/internal/model"
)

// SupportRepository defines the interface for wishlist, cooler, and
// promotion storage
type SupportRepository interface {
	CreateSuggestion(ctx context.Context, s *model.WishlistSuggestion) error
	GetSuggestion(ctx context.Context, id string) (*model.WishlistSuggestion, error)
	ListSuggestions(ctx context.Context) ([]*model.WishlistSuggestion, error)
	AddVote(ctx context.Context, suggestionID, userID string) error
	DeleteSuggestion(ctx context.Context, id string) error
	CreateCooler(ctx context.Context, c *model.CoolerInventory) error
	GetCooler(ctx context.Context, id string) (*model.CoolerInventory, error)
	ListCoolers(ctx context.Context) ([]*model.CoolerInventory, error)
	UpdateCooler(ctx context.Context, id string, updates map[string]interface{}) (*model.CoolerInventory, error)
	CreatePromotion(ctx context.Context, p *model.PromotionGraphic) error
	GetPromotion(ctx context.Context, id string) (*model.PromotionGraphic, error)
	ListPromotions(ctx context.Context, approvedOnly bool) ([]*model.PromotionGraphic, error)
	ApprovePromotion(ctx context.Context, id, approverID string) error
}

// SupportService handles the operational side features: wishlist voting,
// cooler inventory, and promo graphics
type SupportService struct {
	supportRepo SupportRepository
}

// NewSupportService creates a new support service
func NewSupportService(supportRepo SupportRepository) *SupportService {
	return &SupportService{supportRepo: supportRepo}
}

// SuggestItem adds a wishlist suggestion
func (s *SupportService) SuggestItem(ctx context.Context, userID string, in model.CreateSuggestionInput) (*model.WishlistSuggestion, error) {
	if in.Title == "" {
		return nil, model.NewValidationError([]model.FieldError{{Field: "title", Message: "is required"}})
	}

	suggestion := &model.WishlistSuggestion{
		Title:       in.Title,
		Description: in.Description,
		SuggestedBy: userID,
	}
	if err := s.supportRepo.CreateSuggestion(ctx, suggestion); err != nil {
		return nil, err
	}
	return suggestion, nil
}

// ListSuggestions returns suggestions ordered by votes
func (s *SupportService) ListSuggestions(ctx context.Context) ([]*model.WishlistSuggestion, error) {
	return s.supportRepo.ListSuggestions(ctx)
}

// Vote adds the user's vote to a suggestion, once per user
func (s *SupportService) Vote(ctx context.Context, userID, suggestionID string) (*model.WishlistSuggestion, error) {
	suggestion, err := s.supportRepo.GetSuggestion(ctx, suggestionID)
	if err != nil {
		return nil, err
	}
	if suggestion == nil {
		return nil, ErrSuggestionNotFound
	}
	if suggestion.HasVoted(userID) {
		return nil, ErrAlreadyVoted
	}

	if err := s.supportRepo.AddVote(ctx, suggestionID, userID); err != nil {
		return nil, err
	}
	suggestion.Votes = append(suggestion.Votes, userID)
	suggestion.VoteCount = len(suggestion.Votes)
	return suggestion, nil
}

// DeleteSuggestion removes a suggestion. The suggester or a coordinator
// may delete.
func (s *SupportService) DeleteSuggestion(ctx context.Context, actorID, actorRole, id string) error {
	suggestion, err := s.supportRepo.GetSuggestion(ctx, id)
	if err != nil {
		return err
	}
	if suggestion == nil {
		return ErrSuggestionNotFound
	}
	if suggestion.SuggestedBy != actorID && !model.HasRole(actorRole, model.RoleCoordinator) {
		return model.NewForbiddenError("only the suggester or a coordinator may delete")
	}
	return s.supportRepo.DeleteSuggestion(ctx, id)
}

// AddCooler registers a cooler unit, available by default
func (s *SupportService) AddCooler(ctx context.Context, in model.CreateCoolerInput) (*model.CoolerInventory, error) {
	var errs []model.FieldError
	if in.Label == "" {
		errs = append(errs, model.FieldError{Field: "label", Message: "is required"})
	}
	if in.Capacity <= 0 {
		errs = append(errs, model.FieldError{Field: "capacity", Message: "must be positive"})
	}
	if len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	cooler := &model.CoolerInventory{
		Label:        in.Label,
		LocationNote: in.LocationNote,
		Capacity:     in.Capacity,
		Status:       model.CoolerAvailable,
	}
	if err := s.supportRepo.CreateCooler(ctx, cooler); err != nil {
		return nil, err
	}
	return cooler, nil
}

// ListCoolers returns all cooler units
func (s *SupportService) ListCoolers(ctx context.Context) ([]*model.CoolerInventory, error) {
	return s.supportRepo.ListCoolers(ctx)
}

// CheckOutCooler marks an available cooler in use by the user
func (s *SupportService) CheckOutCooler(ctx context.Context, userID, coolerID string) (*model.CoolerInventory, error) {
	cooler, err := s.supportRepo.GetCooler(ctx, coolerID)
	if err != nil {
		return nil, err
	}
	if cooler == nil {
		return nil, ErrCoolerNotFound
	}
	if cooler.Status != model.CoolerAvailable {
		return nil, ErrCoolerUnavailable
	}

	updated, err := s.supportRepo.UpdateCooler(ctx, coolerID, map[string]interface{}{
		"status":         model.CoolerInUse,
		"checked_out_by": userID,
		"checked_out_on": time.Now(),
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ReturnCooler marks a checked-out cooler available again
func (s *SupportService) ReturnCooler(ctx context.Context, coolerID string) (*model.CoolerInventory, error) {
	cooler, err := s.supportRepo.GetCooler(ctx, coolerID)
	if err != nil {
		return nil, err
	}
	if cooler == nil {
		return nil, ErrCoolerNotFound
	}
	if cooler.Status != model.CoolerInUse {
		return nil, ErrCoolerNotCheckedOut
	}

	return s.supportRepo.UpdateCooler(ctx, coolerID, map[string]interface{}{
		"status":         model.CoolerAvailable,
		"checked_out_by": nil,
		"checked_out_on": nil,
	})
}

// SetCoolerStatus force-sets a cooler's status (missing, retired)
func (s *SupportService) SetCoolerStatus(ctx context.Context, coolerID, status string) (*model.CoolerInventory, error) {
	switch status {
	case model.CoolerAvailable, model.CoolerInUse, model.CoolerMissing, model.CoolerRetired:
	default:
		return nil, model.NewValidationError([]model.FieldError{{Field: "status", Message: "unknown status"}})
	}

	cooler, err := s.supportRepo.GetCooler(ctx, coolerID)
	if err != nil {
		return nil, err
	}
	if cooler == nil {
		return nil, ErrCoolerNotFound
	}
	return s.supportRepo.UpdateCooler(ctx, coolerID, map[string]interface{}{"status": status})
}

// AddPromotion records an uploaded promo graphic, unapproved by default
func (s *SupportService) AddPromotion(ctx context.Context, userID string, in model.CreatePromotionInput) (*model.PromotionGraphic, error) {
	var errs []model.FieldError
	if in.Title == "" {
		errs = append(errs, model.FieldError{Field: "title", Message: "is required"})
	}
	if in.URL == "" {
		errs = append(errs, model.FieldError{Field: "url", Message: "is required"})
	}
	if len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	promo := &model.PromotionGraphic{
		Title:      in.Title,
		URL:        in.URL,
		EventDate:  in.EventDate,
		UploadedBy: userID,
	}
	if err := s.supportRepo.CreatePromotion(ctx, promo); err != nil {
		return nil, err
	}
	return promo, nil
}

// ListPromotions returns promo graphics. Volunteers see only approved ones.
func (s *SupportService) ListPromotions(ctx context.Context, actorRole string) ([]*model.PromotionGraphic, error) {
	approvedOnly := !model.HasRole(actorRole, model.RoleCoordinator)
	return s.supportRepo.ListPromotions(ctx, approvedOnly)
}

// ApprovePromotion marks a promo graphic approved for publishing
func (s *SupportService) ApprovePromotion(ctx context.Context, approverID, id string) (*model.PromotionGraphic, error) {
	promo, err := s.supportRepo.GetPromotion(ctx, id)
	if err != nil {
		return nil, err
	}
	if promo == nil {
		return nil, ErrPromotionNotFound
	}

	if err := s.supportRepo.ApprovePromotion(ctx, id, approverID); err != nil {
		return nil, err
	}
	promo.Approved = true
	promo.ApprovedBy = &approverID
	return promo, nil
}
