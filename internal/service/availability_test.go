package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mealbridge/api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSlotRepo struct {
	slots []*model.AvailabilitySlot
}

func (m *memSlotRepo) Create(_ context.Context, slot *model.AvailabilitySlot) error {
	slot.ID = fmt.Sprintf("availability_slot:%d", len(m.slots)+1)
	slot.CreatedOn = time.Now()
	m.slots = append(m.slots, slot)
	return nil
}

func (m *memSlotRepo) ListForUser(_ context.Context, userID string) ([]*model.AvailabilitySlot, error) {
	var out []*model.AvailabilitySlot
	for _, s := range m.slots {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSlotRepo) ListForDay(_ context.Context, day int) ([]*model.AvailabilitySlot, error) {
	var out []*model.AvailabilitySlot
	for _, s := range m.slots {
		if s.DayOfWeek == day {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSlotRepo) Get(_ context.Context, id string) (*model.AvailabilitySlot, error) {
	for _, s := range m.slots {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (m *memSlotRepo) Delete(_ context.Context, id string) error {
	for i, s := range m.slots {
		if s.ID == id {
			m.slots = append(m.slots[:i], m.slots[i+1:]...)
			return nil
		}
	}
	return nil
}

func TestCreateSlotRejectsOverlap(t *testing.T) {
	svc := NewAvailabilityService(&memSlotRepo{})
	ctx := context.Background()

	// Tuesday 9:00-12:00
	_, err := svc.Create(ctx, "user:a", model.CreateSlotInput{DayOfWeek: 2, StartMinutes: 540, EndMinutes: 720})
	require.NoError(t, err)

	// Tuesday 11:00-13:00 overlaps
	_, err = svc.Create(ctx, "user:a", model.CreateSlotInput{DayOfWeek: 2, StartMinutes: 660, EndMinutes: 780})
	assert.ErrorIs(t, err, ErrSlotOverlap)

	// Tuesday 12:00-13:00 is back to back, allowed
	_, err = svc.Create(ctx, "user:a", model.CreateSlotInput{DayOfWeek: 2, StartMinutes: 720, EndMinutes: 780})
	assert.NoError(t, err)

	// Same window on Wednesday is fine
	_, err = svc.Create(ctx, "user:a", model.CreateSlotInput{DayOfWeek: 3, StartMinutes: 540, EndMinutes: 720})
	assert.NoError(t, err)

	// Another user may overlap freely
	_, err = svc.Create(ctx, "user:b", model.CreateSlotInput{DayOfWeek: 2, StartMinutes: 540, EndMinutes: 720})
	assert.NoError(t, err)
}

func TestCreateSlotValidation(t *testing.T) {
	svc := NewAvailabilityService(&memSlotRepo{})

	_, err := svc.Create(context.Background(), "user:a", model.CreateSlotInput{DayOfWeek: 7, StartMinutes: -1, EndMinutes: 0})
	require.Error(t, err)

	var problem *model.ProblemDetails
	require.ErrorAs(t, err, &problem)
	assert.Equal(t, 422, problem.Status)
}

func TestDeleteSlotOwnership(t *testing.T) {
	repo := &memSlotRepo{}
	svc := NewAvailabilityService(repo)
	ctx := context.Background()

	slot, err := svc.Create(ctx, "user:a", model.CreateSlotInput{DayOfWeek: 1, StartMinutes: 60, EndMinutes: 120})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, "user:b", model.RoleVolunteer, slot.ID), ErrNotSlotOwner)
	assert.NoError(t, svc.Delete(ctx, "user:b", model.RoleCoordinator, slot.ID))
	assert.ErrorIs(t, svc.Delete(ctx, "user:a", model.RoleVolunteer, slot.ID), ErrSlotNotFound)
}

func TestIsAvailable(t *testing.T) {
	svc := NewAvailabilityService(&memSlotRepo{})
	ctx := context.Background()

	_, err := svc.Create(ctx, "user:a", model.CreateSlotInput{DayOfWeek: 6, StartMinutes: 600, EndMinutes: 660})
	require.NoError(t, err)

	ok, err := svc.IsAvailable(ctx, "user:a", 6, 630)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsAvailable(ctx, "user:a", 6, 660)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.IsAvailable(ctx, "user:a", 5, 630)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAvailableUsers(t *testing.T) {
	svc := NewAvailabilityService(&memSlotRepo{})
	ctx := context.Background()

	// Saturday morning: a and b, afternoon: b only
	_, err := svc.Create(ctx, "user:a", model.CreateSlotInput{DayOfWeek: 6, StartMinutes: 540, EndMinutes: 720})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "user:b", model.CreateSlotInput{DayOfWeek: 6, StartMinutes: 540, EndMinutes: 1020})
	require.NoError(t, err)

	users, err := svc.AvailableUsers(ctx, 6, 600)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"user:a", "user:b"}, users)

	users, err = svc.AvailableUsers(ctx, 6, 800)
	require.NoError(t, err)
	assert.Equal(t, []string{"user:b"}, users)

	users, err = svc.AvailableUsers(ctx, 3, 600)
	require.NoError(t, err)
	assert.Empty(t, users)
}
