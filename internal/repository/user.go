package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mealbridge/api/internal/database"
	"github.com/mealbridge/api/internal/model"
)

// UserRepository handles user data access
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `CREATE user SET
		email = $email,
		display_name = $display_name,
		phone = $phone,
		role = $role,
		hash = $hash,
		active = $active,
		created_on = time::now(),
		updated_on = time::now()`
	vars := map[string]interface{}{
		"email":        user.Email,
		"display_name": user.DisplayName,
		"phone":        user.Phone,
		"role":         user.Role,
		"hash":         user.Hash,
		"active":       user.Active,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return database.ErrDuplicate
		}
		return err
	}

	created, err := extractCreated(result)
	if err != nil {
		return err
	}
	user.ID = created.ID
	user.CreatedOn = created.CreatedOn
	user.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a user by ID; returns (nil, nil) when absent
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	result, err := r.db.QueryOne(ctx, `SELECT * FROM type::record($id)`, map[string]interface{}{"id": id})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseUserRow(result)
}

// GetByEmail retrieves a user by email; returns (nil, nil) when absent
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	result, err := r.db.QueryOne(ctx,
		`SELECT * FROM user WHERE email = $email LIMIT 1`,
		map[string]interface{}{"email": email})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseUserRow(result)
}

// ListByRole returns active users with at least the given role rank
func (r *UserRepository) ListByRole(ctx context.Context, roles []string) ([]*model.User, error) {
	result, err := r.db.Query(ctx,
		`SELECT * FROM user WHERE active = true AND role IN $roles ORDER BY display_name`,
		map[string]interface{}{"roles": roles})
	if err != nil {
		return nil, err
	}

	var users []*model.User
	for _, row := range resultRows(result) {
		if u, err := parseUserRow(row); err == nil && u != nil {
			users = append(users, u)
		}
	}
	return users, nil
}

// UpdateRole changes a user's platform role
func (r *UserRepository) UpdateRole(ctx context.Context, userID, role string) error {
	return r.db.Execute(ctx,
		`UPDATE type::record($id) SET role = $role, updated_on = time::now()`,
		map[string]interface{}{"id": userID, "role": role})
}

// UpdateLastLogin stamps the user's last login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	return r.db.Execute(ctx,
		`UPDATE type::record($id) SET last_login_on = $at`,
		map[string]interface{}{"id": userID, "at": at})
}

func parseUserRow(row interface{}) (*model.User, error) {
	m, ok := rowMap(row)
	if !ok {
		return nil, nil
	}

	return &model.User{
		ID:          recordID(m["id"]),
		Email:       getString(m, "email"),
		DisplayName: getString(m, "display_name"),
		Phone:       getStringPtr(m, "phone"),
		Role:        getString(m, "role"),
		Hash:        getStringPtr(m, "hash"),
		Active:      getBool(m, "active"),
		LastLoginOn: getTimePtr(m, "last_login_on"),
		CreatedOn:   getTime(m, "created_on"),
		UpdatedOn:   getTime(m, "updated_on"),
	}, nil
}
