package repository

import (
	"context"
	"errors"

	"github.com/mealbridge/api/internal/database"
	"github.com/mealbridge/api/internal/model"
)

// OnboardingRepository handles challenge and completion data access
type OnboardingRepository struct {
	db database.Database
}

// NewOnboardingRepository creates a new onboarding repository
func NewOnboardingRepository(db database.Database) *OnboardingRepository {
	return &OnboardingRepository{db: db}
}

// CreateChallenge adds a challenge to the checklist
func (r *OnboardingRepository) CreateChallenge(ctx context.Context, ch *model.OnboardingChallenge) error {
	setClause := `
		title = $title,
		points = $points,
		ordinal = $ordinal,
		active = $active,
		created_on = time::now()`
	vars := map[string]interface{}{
		"title":   ch.Title,
		"points":  ch.Points,
		"ordinal": ch.Ordinal,
		"active":  ch.Active,
	}
	if ch.Description != nil {
		setClause += ", description = $description"
		vars["description"] = *ch.Description
	}

	result, err := r.db.Query(ctx, "CREATE onboarding_challenge SET "+setClause, vars)
	if err != nil {
		return err
	}
	created, err := extractCreated(result)
	if err != nil {
		return err
	}
	ch.ID = created.ID
	ch.CreatedOn = created.CreatedOn
	return nil
}

// GetChallenge retrieves a challenge by ID; returns (nil, nil) when absent
func (r *OnboardingRepository) GetChallenge(ctx context.Context, id string) (*model.OnboardingChallenge, error) {
	result, err := r.db.QueryOne(ctx, `SELECT * FROM type::record($id)`, map[string]interface{}{"id": id})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	m, ok := rowMap(result)
	if !ok {
		return nil, nil
	}
	return parseChallengeRow(m), nil
}

// ListChallenges returns challenges in display order, optionally only
// active ones
func (r *OnboardingRepository) ListChallenges(ctx context.Context, activeOnly bool) ([]*model.OnboardingChallenge, error) {
	query := `SELECT * FROM onboarding_challenge`
	if activeOnly {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY ordinal`

	result, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	var challenges []*model.OnboardingChallenge
	for _, row := range resultRows(result) {
		m, ok := rowMap(row)
		if !ok {
			continue
		}
		challenges = append(challenges, parseChallengeRow(m))
	}
	return challenges, nil
}

// DeactivateChallenge retires a challenge from the checklist
func (r *OnboardingRepository) DeactivateChallenge(ctx context.Context, id string) error {
	return r.db.Execute(ctx,
		`UPDATE type::record($id) SET active = false`,
		map[string]interface{}{"id": id})
}

// CreateCompletion records that a user finished a challenge
func (r *OnboardingRepository) CreateCompletion(ctx context.Context, c *model.ChallengeCompletion) error {
	result, err := r.db.Query(ctx,
		`CREATE challenge_completion SET
			user_id = $user_id,
			challenge_id = $challenge_id,
			completed_on = time::now()`,
		map[string]interface{}{
			"user_id":      c.UserID,
			"challenge_id": c.ChallengeID,
		})
	if err != nil {
		if isUniqueConstraintError(err) {
			return database.ErrDuplicate
		}
		return err
	}

	rows := resultRows(result)
	if len(rows) > 0 {
		if m, ok := rows[0].(map[string]interface{}); ok {
			c.ID = recordID(m["id"])
			c.CompletedOn = getTime(m, "completed_on")
		}
	}
	return nil
}

// ListCompletionsForUser returns a user's completions, oldest first
func (r *OnboardingRepository) ListCompletionsForUser(ctx context.Context, userID string) ([]model.ChallengeCompletion, error) {
	result, err := r.db.Query(ctx,
		`SELECT * FROM challenge_completion WHERE user_id = $user_id ORDER BY completed_on`,
		map[string]interface{}{"user_id": userID})
	if err != nil {
		return nil, err
	}

	var completions []model.ChallengeCompletion
	for _, row := range resultRows(result) {
		m, ok := rowMap(row)
		if !ok {
			continue
		}
		completions = append(completions, model.ChallengeCompletion{
			ID:          recordID(m["id"]),
			UserID:      getString(m, "user_id"),
			ChallengeID: getString(m, "challenge_id"),
			CompletedOn: getTime(m, "completed_on"),
		})
	}
	return completions, nil
}

// HasCompleted reports whether the user already completed the challenge
func (r *OnboardingRepository) HasCompleted(ctx context.Context, userID, challengeID string) (bool, error) {
	result, err := r.db.QueryOne(ctx,
		`SELECT count() AS count FROM challenge_completion WHERE user_id = $user_id AND challenge_id = $challenge_id GROUP ALL`,
		map[string]interface{}{"user_id": userID, "challenge_id": challengeID})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return scalarInt(result) > 0, nil
}

func parseChallengeRow(m map[string]interface{}) *model.OnboardingChallenge {
	return &model.OnboardingChallenge{
		ID:          recordID(m["id"]),
		Title:       getString(m, "title"),
		Description: getStringPtr(m, "description"),
		Points:      getInt(m, "points"),
		Ordinal:     getInt(m, "ordinal"),
		Active:      getBool(m, "active"),
		CreatedOn:   getTime(m, "created_on"),
	}
}
