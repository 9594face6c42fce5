package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mealbridge/api/internal/database"
	"github.com/mealbridge/api/internal/model"
)

// TokenRepository stores revocable refresh tokens
type TokenRepository struct {
	db database.Database
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db database.Database) *TokenRepository {
	return &TokenRepository{db: db}
}

// Create stores a refresh token hash
func (r *TokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	query := `CREATE refresh_token SET
		user_id = $user_id,
		token_hash = $token_hash,
		expires_at = $expires_at,
		created_on = time::now()`
	vars := map[string]interface{}{
		"user_id":    token.UserID,
		"token_hash": token.TokenHash,
		"expires_at": token.ExpiresAt,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}
	created, err := extractCreated(result)
	if err != nil {
		return err
	}
	token.ID = created.ID
	token.CreatedOn = created.CreatedOn
	return nil
}

// GetByHash looks up a refresh token by its hash; returns (nil, nil) when
// absent
func (r *TokenRepository) GetByHash(ctx context.Context, hash string) (*model.RefreshToken, error) {
	result, err := r.db.QueryOne(ctx,
		`SELECT * FROM refresh_token WHERE token_hash = $hash LIMIT 1`,
		map[string]interface{}{"hash": hash})
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
	return &model.RefreshToken{
		ID:        recordID(m["id"]),
		UserID:    getString(m, "user_id"),
		TokenHash: getString(m, "token_hash"),
		ExpiresAt: getTime(m, "expires_at"),
		RevokedOn: getTimePtr(m, "revoked_on"),
		CreatedOn: getTime(m, "created_on"),
	}, nil
}

// Revoke marks a refresh token revoked
func (r *TokenRepository) Revoke(ctx context.Context, id string) error {
	return r.db.Execute(ctx,
		`UPDATE type::record($id) SET revoked_on = time::now()`,
		map[string]interface{}{"id": id})
}

// RevokeAllForUser revokes every live token for a user
func (r *TokenRepository) RevokeAllForUser(ctx context.Context, userID string) error {
	return r.db.Execute(ctx,
		`UPDATE refresh_token SET revoked_on = time::now() WHERE user_id = $user_id AND revoked_on = NONE`,
		map[string]interface{}{"user_id": userID})
}

// DeleteExpired removes tokens past their expiry
func (r *TokenRepository) DeleteExpired(ctx context.Context, before time.Time) error {
	return r.db.Execute(ctx,
		`DELETE refresh_token WHERE expires_at < $before`,
		map[string]interface{}{"before": before})
}
