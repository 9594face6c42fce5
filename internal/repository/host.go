package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/mealbridge/api/internal/database"
	"github.com/mealbridge/api/internal/model"
)

// HostRepository handles host site and contact data access
type HostRepository struct {
	db database.Database
}

// NewHostRepository creates a new host repository
func NewHostRepository(db database.Database) *HostRepository {
	return &HostRepository{db: db}
}

// Create creates a new host site
func (r *HostRepository) Create(ctx context.Context, host *model.Host) error {
	setClause := `
		name = $name,
		active = $active,
		created_on = time::now(),
		updated_on = time::now()`
	vars := map[string]interface{}{
		"name":   host.Name,
		"active": host.Active,
	}
	if host.Location != nil {
		setClause += ", location = $location"
		vars["location"] = locationVars(host.Location)
	}
	if host.Notes != nil {
		setClause += ", notes = $notes"
		vars["notes"] = *host.Notes
	}

	result, err := r.db.Query(ctx, "CREATE host SET "+setClause, vars)
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
	host.ID = created.ID
	host.CreatedOn = created.CreatedOn
	host.UpdatedOn = created.UpdatedOn
	return nil
}

// Get retrieves a host by ID; returns (nil, nil) when absent
func (r *HostRepository) Get(ctx context.Context, id string) (*model.Host, error) {
	result, err := r.db.QueryOne(ctx, `SELECT * FROM type::record($id)`, map[string]interface{}{"id": id})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseHostRow(result)
}

// List returns hosts, optionally only active ones
func (r *HostRepository) List(ctx context.Context, activeOnly bool) ([]*model.Host, error) {
	query := `SELECT * FROM host`
	if activeOnly {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY name`

	result, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	var hosts []*model.Host
	for _, row := range resultRows(result) {
		if h, err := parseHostRow(row); err == nil && h != nil {
			hosts = append(hosts, h)
		}
	}
	return hosts, nil
}

// Update applies a partial update and returns the updated record
func (r *HostRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Host, error) {
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
	return parseHostRow(rows[0])
}

// Delete removes a host and its contacts
func (r *HostRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.Execute(ctx,
		`DELETE host_contact WHERE host_id = $host_id`,
		map[string]interface{}{"host_id": id}); err != nil {
		return err
	}
	return r.db.Execute(ctx, `DELETE type::record($id)`, map[string]interface{}{"id": id})
}

// CreateContact adds a contact person to a host
func (r *HostRepository) CreateContact(ctx context.Context, contact *model.HostContact) error {
	setClause := `
		host_id = $host_id,
		name = $name,
		is_primary = $is_primary,
		created_on = time::now()`
	vars := map[string]interface{}{
		"host_id":    contact.HostID,
		"name":       contact.Name,
		"is_primary": contact.Primary,
	}
	if contact.Role != nil {
		setClause += ", role = $role"
		vars["role"] = *contact.Role
	}
	if contact.Phone != nil {
		setClause += ", phone = $phone"
		vars["phone"] = *contact.Phone
	}
	if contact.Email != nil {
		setClause += ", email = $email"
		vars["email"] = *contact.Email
	}

	result, err := r.db.Query(ctx, "CREATE host_contact SET "+setClause, vars)
	if err != nil {
		return err
	}
	created, err := extractCreated(result)
	if err != nil {
		return err
	}
	contact.ID = created.ID
	contact.CreatedOn = created.CreatedOn
	return nil
}

// ClearPrimaryContact unsets the primary flag on all of a host's contacts
func (r *HostRepository) ClearPrimaryContact(ctx context.Context, hostID string) error {
	return r.db.Execute(ctx,
		`UPDATE host_contact SET is_primary = false WHERE host_id = $host_id`,
		map[string]interface{}{"host_id": hostID})
}

// GetContacts lists contacts for a host, primary first
func (r *HostRepository) GetContacts(ctx context.Context, hostID string) ([]model.HostContact, error) {
	result, err := r.db.Query(ctx,
		`SELECT * FROM host_contact WHERE host_id = $host_id ORDER BY is_primary DESC, name`,
		map[string]interface{}{"host_id": hostID})
	if err != nil {
		return nil, err
	}

	var contacts []model.HostContact
	for _, row := range resultRows(result) {
		m, ok := rowMap(row)
		if !ok {
			continue
		}
		contacts = append(contacts, model.HostContact{
			ID:        recordID(m["id"]),
			HostID:    getString(m, "host_id"),
			Name:      getString(m, "name"),
			Role:      getStringPtr(m, "role"),
			Phone:     getStringPtr(m, "phone"),
			Email:     getStringPtr(m, "email"),
			Primary:   getBool(m, "is_primary"),
			CreatedOn: getTime(m, "created_on"),
		})
	}
	return contacts, nil
}

// DeleteContact removes a host contact
func (r *HostRepository) DeleteContact(ctx context.Context, contactID string) error {
	return r.db.Execute(ctx, `DELETE type::record($id)`, map[string]interface{}{"id": contactID})
}

func parseHostRow(row interface{}) (*model.Host, error) {
	m, ok := rowMap(row)
	if !ok {
		return nil, nil
	}

	return &model.Host{
		ID:        recordID(m["id"]),
		Name:      getString(m, "name"),
		Location:  parseLocation(m, "location"),
		Active:    getBool(m, "active"),
		Notes:     getStringPtr(m, "notes"),
		CreatedOn: getTime(m, "created_on"),
		UpdatedOn: getTime(m, "updated_on"),
	}, nil
}
