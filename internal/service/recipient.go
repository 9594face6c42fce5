package service

import (
	"context"

	"github.com/mealbridge/api/internal/model"
)

// RecipientRepository defines the interface for recipient storage
type RecipientRepository interface {
	Create(ctx context.Context, rec *model.Recipient) error
	Get(ctx context.Context, id string) (*model.Recipient, error)
	List(ctx context.Context, activeOnly bool) ([]*model.Recipient, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Recipient, error)
}

// RecipientService manages recipient organizations
type RecipientService struct {
	recipientRepo RecipientRepository
}

// NewRecipientService creates a new recipient service
func NewRecipientService(recipientRepo RecipientRepository) *RecipientService {
	return &RecipientService{recipientRepo: recipientRepo}
}

// Create registers a recipient organization, active by default
func (s *RecipientService) Create(ctx context.Context, in model.CreateRecipientInput) (*model.Recipient, error) {
	var errs []model.FieldError
	if in.Name == "" {
		errs = append(errs, model.FieldError{Field: "name", Message: "is required"})
	}
	if in.WeeklyTarget < 0 {
		errs = append(errs, model.FieldError{Field: "weekly_target", Message: "must be non-negative"})
	}
	if len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	rec := &model.Recipient{
		Name:          in.Name,
		ContactName:   in.ContactName,
		ContactPhone:  in.ContactPhone,
		ContactEmail:  in.ContactEmail,
		Location:      in.Location,
		WeeklyTarget:  in.WeeklyTarget,
		DeliveryNotes: in.DeliveryNotes,
		Active:        true,
	}
	if err := s.recipientRepo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Get retrieves a recipient
func (s *RecipientService) Get(ctx context.Context, id string) (*model.Recipient, error) {
	rec, err := s.recipientRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrRecipientNotFound
	}
	return rec, nil
}

// List returns recipient organizations
func (s *RecipientService) List(ctx context.Context, activeOnly bool) ([]*model.Recipient, error) {
	return s.recipientRepo.List(ctx, activeOnly)
}

// Update applies a partial edit to a recipient
func (s *RecipientService) Update(ctx context.Context, id string, in model.UpdateRecipientInput) (*model.Recipient, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.ContactName != nil {
		updates["contact_name"] = *in.ContactName
	}
	if in.ContactPhone != nil {
		updates["contact_phone"] = *in.ContactPhone
	}
	if in.ContactEmail != nil {
		updates["contact_email"] = *in.ContactEmail
	}
	if in.Location != nil {
		updates["location"] = map[string]interface{}{
			"address": in.Location.Address,
			"city":    in.Location.City,
			"lat":     in.Location.Lat,
			"lng":     in.Location.Lng,
		}
	}
	if in.WeeklyTarget != nil {
		if *in.WeeklyTarget < 0 {
			return nil, model.NewValidationError([]model.FieldError{{Field: "weekly_target", Message: "must be non-negative"}})
		}
		updates["weekly_target"] = *in.WeeklyTarget
	}
	if in.DeliveryNotes != nil {
		updates["delivery_notes"] = *in.DeliveryNotes
	}
	if in.Active != nil {
		updates["active"] = *in.Active
	}

	updated, err := s.recipientRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrRecipientNotFound
	}
	return updated, nil
}
