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

type memSupportRepo struct {
	suggestions []*model.WishlistSuggestion
	coolers     []*model.CoolerInventory
	promotions  []*model.PromotionGraphic
}

func (m *memSupportRepo) CreateSuggestion(_ context.Context, s *model.WishlistSuggestion) error {
	s.ID = fmt.Sprintf("wishlist_suggestion:%d", len(m.suggestions)+1)
	s.CreatedOn = time.Now()
	m.suggestions = append(m.suggestions, s)
	return nil
}

func (m *memSupportRepo) GetSuggestion(_ context.Context, id string) (*model.WishlistSuggestion, error) {
	for _, s := range m.suggestions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (m *memSupportRepo) ListSuggestions(_ context.Context) ([]*model.WishlistSuggestion, error) {
	return m.suggestions, nil
}

func (m *memSupportRepo) AddVote(_ context.Context, suggestionID, userID string) error {
	for _, s := range m.suggestions {
		if s.ID == suggestionID {
			s.Votes = append(s.Votes, userID)
			s.VoteCount = len(s.Votes)
		}
	}
	return nil
}

func (m *memSupportRepo) DeleteSuggestion(_ context.Context, id string) error {
	for i, s := range m.suggestions {
		if s.ID == id {
			m.suggestions = append(m.suggestions[:i], m.suggestions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memSupportRepo) CreateCooler(_ context.Context, c *model.CoolerInventory) error {
	c.ID = fmt.Sprintf("cooler:%d", len(m.coolers)+1)
	c.CreatedOn = time.Now()
	m.coolers = append(m.coolers, c)
	return nil
}

func (m *memSupportRepo) GetCooler(_ context.Context, id string) (*model.CoolerInventory, error) {
	for _, c := range m.coolers {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (m *memSupportRepo) ListCoolers(_ context.Context) ([]*model.CoolerInventory, error) {
	return m.coolers, nil
}

func (m *memSupportRepo) UpdateCooler(_ context.Context, id string, updates map[string]interface{}) (*model.CoolerInventory, error) {
	cooler, _ := m.GetCooler(context.Background(), id)
	if cooler == nil {
		return nil, nil
	}
	for field, value := range updates {
		switch field {
		case "status":
			cooler.Status = value.(string)
		case "checked_out_by":
			if value == nil {
				cooler.CheckedOutBy = nil
			} else {
				v := value.(string)
				cooler.CheckedOutBy = &v
			}
		case "checked_out_on":
			if value == nil {
				cooler.CheckedOutOn = nil
			} else {
				v := value.(time.Time)
				cooler.CheckedOutOn = &v
			}
		}
	}
	cooler.UpdatedOn = time.Now()
	return cooler, nil
}

func (m *memSupportRepo) CreatePromotion(_ context.Context, p *model.PromotionGraphic) error {
	p.ID = fmt.Sprintf("promotion:%d", len(m.promotions)+1)
	p.CreatedOn = time.Now()
	m.promotions = append(m.promotions, p)
	return nil
}

func (m *memSupportRepo) GetPromotion(_ context.Context, id string) (*model.PromotionGraphic, error) {
	for _, p := range m.promotions {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memSupportRepo) ListPromotions(_ context.Context, approvedOnly bool) ([]*model.PromotionGraphic, error) {
	if !approvedOnly {
		return m.promotions, nil
	}
	var out []*model.PromotionGraphic
	for _, p := range m.promotions {
		if p.Approved {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memSupportRepo) ApprovePromotion(_ context.Context, id, approverID string) error {
	for _, p := range m.promotions {
		if p.ID == id {
			p.Approved = true
			p.ApprovedBy = &approverID
		}
	}
	return nil
}

func TestWishlistVoteOncePerUser(t *testing.T) {
	svc := NewSupportService(&memSupportRepo{})
	ctx := context.Background()

	suggestion, err := svc.SuggestItem(ctx, "user:a", model.CreateSuggestionInput{Title: "Insulated bags"})
	require.NoError(t, err)

	voted, err := svc.Vote(ctx, "user:b", suggestion.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, voted.VoteCount)

	_, err = svc.Vote(ctx, "user:b", suggestion.ID)
	assert.ErrorIs(t, err, ErrAlreadyVoted)

	voted, err = svc.Vote(ctx, "user:c", suggestion.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, voted.VoteCount)

	_, err = svc.Vote(ctx, "user:b", "wishlist_suggestion:missing")
	assert.ErrorIs(t, err, ErrSuggestionNotFound)
}

func TestDeleteSuggestionPermissions(t *testing.T) {
	repo := &memSupportRepo{}
	svc := NewSupportService(repo)
	ctx := context.Background()

	suggestion, err := svc.SuggestItem(ctx, "user:a", model.CreateSuggestionInput{Title: "Insulated bags"})
	require.NoError(t, err)

	err = svc.DeleteSuggestion(ctx, "user:b", model.RoleVolunteer, suggestion.ID)
	require.Error(t, err)
	var problem *model.ProblemDetails
	require.ErrorAs(t, err, &problem)
	assert.Equal(t, 403, problem.Status)

	require.NoError(t, svc.DeleteSuggestion(ctx, "user:b", model.RoleCoordinator, suggestion.ID))
	assert.Empty(t, repo.suggestions)
}

func TestCoolerCheckoutCycle(t *testing.T) {
	svc := NewSupportService(&memSupportRepo{})
	ctx := context.Background()

	cooler, err := svc.AddCooler(ctx, model.CreateCoolerInput{Label: "Blue 48qt", Capacity: 200})
	require.NoError(t, err)
	assert.Equal(t, model.CoolerAvailable, cooler.Status)

	// Returning an available cooler makes no sense
	_, err = svc.ReturnCooler(ctx, cooler.ID)
	assert.ErrorIs(t, err, ErrCoolerNotCheckedOut)

	out, err := svc.CheckOutCooler(ctx, "user:driver", cooler.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CoolerInUse, out.Status)
	require.NotNil(t, out.CheckedOutBy)
	assert.Equal(t, "user:driver", *out.CheckedOutBy)

	_, err = svc.CheckOutCooler(ctx, "user:other", cooler.ID)
	assert.ErrorIs(t, err, ErrCoolerUnavailable)

	back, err := svc.ReturnCooler(ctx, cooler.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CoolerAvailable, back.Status)
	assert.Nil(t, back.CheckedOutBy)

	_, err = svc.SetCoolerStatus(ctx, cooler.ID, "frozen")
	assert.Error(t, err)
	marked, err := svc.SetCoolerStatus(ctx, cooler.ID, model.CoolerMissing)
	require.NoError(t, err)
	assert.Equal(t, model.CoolerMissing, marked.Status)
}

func TestPromotionApprovalVisibility(t *testing.T) {
	svc := NewSupportService(&memSupportRepo{})
	ctx := context.Background()

	promo, err := svc.AddPromotion(ctx, "user:a", model.CreatePromotionInput{Title: "Spring drive", URL: "https://example.org/spring.png"})
	require.NoError(t, err)
	assert.False(t, promo.Approved)

	// Volunteers only see approved graphics
	visible, err := svc.ListPromotions(ctx, model.RoleVolunteer)
	require.NoError(t, err)
	assert.Empty(t, visible)

	visible, err = svc.ListPromotions(ctx, model.RoleCoordinator)
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	approved, err := svc.ApprovePromotion(ctx, "user:coord", promo.ID)
	require.NoError(t, err)
	assert.True(t, approved.Approved)

	visible, err = svc.ListPromotions(ctx, model.RoleVolunteer)
	require.NoError(t, err)
	assert.Len(t, visible, 1)
}
