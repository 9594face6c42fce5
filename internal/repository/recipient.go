package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/mealbridge/api/internal/database"
	"github.com/mealbridge/api/internal/model"
)

// RecipientRepository handles recipient organization data access
type RecipientRepository struct {
	db database.Database
}

// NewRecipientRepository creates a new recipient repository
func NewRecipientRepository(db database.Database) *RecipientRepository {
	return &RecipientRepository{db: db}
}

// Create creates a new recipient organization
func (r *RecipientRepository) Create(ctx context.Context, rec *model.Recipient) error {
	setClause := `
		name = $name,
		weekly_target = $weekly_target,
		active = $active,
		created_on = time::now(),
		updated_on = time::now()`
	vars := map[string]interface{}{
		"name":          rec.Name,
		"weekly_target": rec.WeeklyTarget,
		"active":        rec.Active,
	}
	if rec.ContactName != nil {
		setClause += ", contact_name = $contact_name"
		vars["contact_name"] = *rec.ContactName
	}
	if rec.ContactPhone != nil {
		setClause += ", contact_phone = $contact_phone"
		vars["contact_phone"] = *rec.ContactPhone
	}
	if rec.ContactEmail != nil {
		setClause += ", contact_email = $contact_email"
		vars["contact_email"] = *rec.ContactEmail
	}
	if rec.Location != nil {
		setClause += ", location = $location"
		vars["location"] = locationVars(rec.Location)
	}
	if rec.DeliveryNotes != nil {
		setClause += ", delivery_notes = $delivery_notes"
		vars["delivery_notes"] = *rec.DeliveryNotes
	}

	result, err := r.db.Query(ctx, "CREATE recipient SET "+setClause, vars)
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
	rec.ID = created.ID
	rec.CreatedOn = created.CreatedOn
	rec.UpdatedOn = created.UpdatedOn
	return nil
}

// Get retrieves a recipient by ID; returns (nil, nil) when absent
func (r *RecipientRepository) Get(ctx context.Context, id string) (*model.Recipient, error) {
	result, err := r.db.QueryOne(ctx, `SELECT * FROM type::record($id)`, map[string]interface{}{"id": id})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseRecipientRow(result)
}

// List returns recipients, optionally only active ones
func (r *RecipientRepository) List(ctx context.Context, activeOnly bool) ([]*model.Recipient, error) {
	query := `SELECT * FROM recipient`
	if activeOnly {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY name`

	result, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	var recipients []*model.Recipient
	for _, row := range resultRows(result) {
		if rec, err := parseRecipientRow(row); err == nil && rec != nil {
			recipients = append(recipients, rec)
		}
	}
	return recipients, nil
}

// Update applies a partial update and returns the updated record
func (r *RecipientRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Recipient, error) {
	if len(updates) == 0 {
		return r.Get(ctx, id)
	}

	setClause := "updated_on = time::now()"
	vars := map[string]interface{}{"id": id}
	for field, value := range updates {
		setClause += fmt.Sprintf(", %s = $%s", field, field)
		vars[field] = value
	}

	result, err := r.db.Query(ctx,
		`UPDATE type::record($id) SET `+setClause+` RETURN AFTER`, vars)
	if err != nil {
		return nil, err
	}

	rows := resultRows(result)
	if len(rows) == 0 {
		return nil, nil
	}
	return parseRecipientRow(rows[0])
}

func parseRecipientRow(row interface{}) (*model.Recipient, error) {
	m, ok := rowMap(row)
	if !ok {
		return nil, nil
	}

	return &model.Recipient{
		ID:            recordID(m["id"]),
		Name:          getString(m, "name"),
		ContactName:   getStringPtr(m, "contact_name"),
		ContactPhone:  getStringPtr(m, "contact_phone"),
		ContactEmail:  getStringPtr(m, "contact_email"),
		Location:      parseLocation(m, "location"),
		WeeklyTarget:  getInt(m, "weekly_target"),
		DeliveryNotes: getStringPtr(m, "delivery_notes"),
		Active:        getBool(m, "active"),
		CreatedOn:     getTime(m, "created_on"),
		UpdatedOn:     getTime(m, "updated_on"),
	}, nil
}
