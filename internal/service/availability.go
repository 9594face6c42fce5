package service

import (
	"context"

	"github.com/mealbridge/api/internal/model"
)

// AvailabilityRepository defines the interface for availability storage
type AvailabilityRepository interface {
	Create(ctx context.Context, slot *model.AvailabilitySlot) error
	ListForUser(ctx context.Context, userID string) ([]*model.AvailabilitySlot, error)
	ListForDay(ctx context.Context, day int) ([]*model.AvailabilitySlot, error)
	Get(ctx context.Context, id string) (*model.AvailabilitySlot, error)
	Delete(ctx context.Context, id string) error
}

// AvailabilityService manages recurring weekly availability windows
type AvailabilityService struct {
	slotRepo AvailabilityRepository
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(slotRepo AvailabilityRepository) *AvailabilityService {
	return &AvailabilityService{slotRepo: slotRepo}
}

// Create adds a slot for the user. Overlapping an existing slot on the same
// day is rejected.
func (s *AvailabilityService) Create(ctx context.Context, userID string, in model.CreateSlotInput) (*model.AvailabilitySlot, error) {
	if errs := in.Validate(); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	slot := &model.AvailabilitySlot{
		UserID:       userID,
		DayOfWeek:    in.DayOfWeek,
		StartMinutes: in.StartMinutes,
		EndMinutes:   in.EndMinutes,
		Note:         in.Note,
	}

	existing, err := s.slotRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, other := range existing {
		if slot.Overlaps(other) {
			return nil, ErrSlotOverlap
		}
	}

	if err := s.slotRepo.Create(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// ListForUser returns a user's availability slots
func (s *AvailabilityService) ListForUser(ctx context.Context, userID string) ([]*model.AvailabilitySlot, error) {
	return s.slotRepo.ListForUser(ctx, userID)
}

// Delete removes a slot. Users may only delete their own slots unless they
// hold the coordinator role.
func (s *AvailabilityService) Delete(ctx context.Context, actorID, actorRole, slotID string) error {
	slot, err := s.slotRepo.Get(ctx, slotID)
	if err != nil {
		return err
	}
	if slot == nil {
		return ErrSlotNotFound
	}
	if slot.UserID != actorID && !model.HasRole(actorRole, model.RoleCoordinator) {
		return ErrNotSlotOwner
	}
	return s.slotRepo.Delete(ctx, slotID)
}

// AvailableUsers returns the IDs of users with a slot covering the weekday
// and minute, each listed once
func (s *AvailabilityService) AvailableUsers(ctx context.Context, day int, minutes int) ([]string, error) {
	slots, err := s.slotRepo.ListForDay(ctx, day)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var users []string
	for _, slot := range slots {
		if slot.Covers(day, minutes) && !seen[slot.UserID] {
			seen[slot.UserID] = true
			users = append(users, slot.UserID)
		}
	}
	return users, nil
}

// IsAvailable reports whether the user has a slot covering the weekday and
// minute of the given time
func (s *AvailabilityService) IsAvailable(ctx context.Context, userID string, day int, minutes int) (bool, error) {
	slots, err := s.slotRepo.ListForUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, slot := range slots {
		if slot.Covers(day, minutes) {
			return true, nil
		}
	}
	return false, nil
}
