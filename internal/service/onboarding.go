package service

import (
	"context"
	"errors"

	"github.com/mealbridge/api/internal/database"
	"github.com/mealbridge/api/internal/model"
)

// OnboardingRepository defines the interface for challenge storage
type OnboardingRepository interface {
	CreateChallenge(ctx context.Context, ch *model.OnboardingChallenge) error
	GetChallenge(ctx context.Context, id string) (*model.OnboardingChallenge, error)
	ListChallenges(ctx context.Context, activeOnly bool) ([]*model.OnboardingChallenge, error)
	DeactivateChallenge(ctx context.Context, id string) error
	CreateCompletion(ctx context.Context, c *model.ChallengeCompletion) error
	ListCompletionsForUser(ctx context.Context, userID string) ([]model.ChallengeCompletion, error)
	HasCompleted(ctx context.Context, userID, challengeID string) (bool, error)
}

// OnboardingService runs the new-volunteer challenge checklist and badges
type OnboardingService struct {
	onboardingRepo OnboardingRepository
}

// NewOnboardingService creates a new onboarding service
func NewOnboardingService(onboardingRepo OnboardingRepository) *OnboardingService {
	return &OnboardingService{onboardingRepo: onboardingRepo}
}

// CreateChallenge adds a challenge to the checklist
func (s *OnboardingService) CreateChallenge(ctx context.Context, in model.CreateChallengeInput) (*model.OnboardingChallenge, error) {
	var errs []model.FieldError
	if in.Title == "" {
		errs = append(errs, model.FieldError{Field: "title", Message: "is required"})
	}
	if in.Points <= 0 {
		errs = append(errs, model.FieldError{Field: "points", Message: "must be positive"})
	}
	if len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	ch := &model.OnboardingChallenge{
		Title:       in.Title,
		Description: in.Description,
		Points:      in.Points,
		Ordinal:     in.Ordinal,
		Active:      true,
	}
	if err := s.onboardingRepo.CreateChallenge(ctx, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

// ListChallenges returns active challenges in display order
func (s *OnboardingService) ListChallenges(ctx context.Context) ([]*model.OnboardingChallenge, error) {
	return s.onboardingRepo.ListChallenges(ctx, true)
}

// DeactivateChallenge retires a challenge. Completions keep their points.
func (s *OnboardingService) DeactivateChallenge(ctx context.Context, id string) error {
	ch, err := s.onboardingRepo.GetChallenge(ctx, id)
	if err != nil {
		return err
	}
	if ch == nil {
		return ErrChallengeNotFound
	}
	return s.onboardingRepo.DeactivateChallenge(ctx, id)
}

// Complete records that the user finished a challenge. Completing twice is
// rejected.
func (s *OnboardingService) Complete(ctx context.Context, userID, challengeID string) (*model.OnboardingProgress, error) {
	ch, err := s.onboardingRepo.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, ErrChallengeNotFound
	}
	if !ch.Active {
		return nil, ErrChallengeInactive
	}

	done, err := s.onboardingRepo.HasCompleted(ctx, userID, challengeID)
	if err != nil {
		return nil, err
	}
	if done {
		return nil, ErrAlreadyCompleted
	}

	completion := &model.ChallengeCompletion{UserID: userID, ChallengeID: challengeID}
	if err := s.onboardingRepo.CreateCompletion(ctx, completion); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrAlreadyCompleted
		}
		return nil, err
	}

	return s.Progress(ctx, userID)
}

// Progress summarizes the user's points, badge, and next open challenge
func (s *OnboardingService) Progress(ctx context.Context, userID string) (*model.OnboardingProgress, error) {
	completions, err := s.onboardingRepo.ListCompletionsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	challenges, err := s.onboardingRepo.ListChallenges(ctx, false)
	if err != nil {
		return nil, err
	}

	pointsByID := make(map[string]*model.OnboardingChallenge, len(challenges))
	for _, ch := range challenges {
		pointsByID[ch.ID] = ch
	}

	completed := make(map[string]bool, len(completions))
	points := 0
	for _, c := range completions {
		completed[c.ChallengeID] = true
		if ch, ok := pointsByID[c.ChallengeID]; ok {
			points += ch.Points
		}
	}

	progress := &model.OnboardingProgress{
		UserID:    userID,
		Points:    points,
		Badge:     model.BadgeForPoints(points),
		Completed: completions,
	}

	// Challenges are ordered by ordinal; the first active one not yet
	// completed is the next step.
	for _, ch := range challenges {
		if ch.Active && !completed[ch.ID] {
			progress.NextChallenge = ch
			break
		}
	}
	return progress, nil
}
