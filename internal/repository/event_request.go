package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mealbridge/api/internal/database"
	"github.com/mealbridge/api/internal/model"
)

// EventRequestRepository handles event request and staffing data access
type EventRequestRepository struct {
	db database.Database
}

// NewEventRequestRepository creates a new event request repository
func NewEventRequestRepository(db database.Database) *EventRequestRepository {
	return &EventRequestRepository{db: db}
}

// Create creates a new event request
func (r *EventRequestRepository) Create(ctx context.Context, req *model.EventRequest) error {
	setClause := `
		org_name = $org_name,
		contact_name = $contact_name,
		contact_email = $contact_email,
		event_date = $event_date,
		expected_attendees = $expected_attendees,
		status = $status,
		created_on = time::now(),
		updated_on = time::now()`
	vars := map[string]interface{}{
		"org_name":           req.OrgName,
		"contact_name":       req.ContactName,
		"contact_email":      req.ContactEmail,
		"event_date":         req.EventDate,
		"expected_attendees": req.ExpectedAttendees,
		"status":             req.Status,
	}

	if req.ContactPhone != nil {
		setClause += ", contact_phone = $contact_phone"
		vars["contact_phone"] = *req.ContactPhone
	}
	if req.Location != nil {
		setClause += ", location = $location"
		vars["location"] = locationVars(req.Location)
	}
	if req.Notes != nil {
		setClause += ", notes = $notes"
		vars["notes"] = *req.Notes
	}
	if req.CreatedBy != nil {
		setClause += ", created_by = $created_by"
		vars["created_by"] = *req.CreatedBy
	}

	result, err := r.db.Query(ctx, "CREATE event_request SET "+setClause, vars)
	if err != nil {
		return err
	}

	created, err := extractCreated(result)
	if err != nil {
		return err
	}
	req.ID = created.ID
	req.CreatedOn = created.CreatedOn
	req.UpdatedOn = created.UpdatedOn
	return nil
}

// Get retrieves an event request by ID; returns (nil, nil) when absent
func (r *EventRequestRepository) Get(ctx context.Context, id string) (*model.EventRequest, error) {
	result, err := r.db.QueryOne(ctx, `SELECT * FROM type::record($id)`, map[string]interface{}{"id": id})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseEventRequestRow(result)
}

// List returns event requests matching the filters, newest first
func (r *EventRequestRepository) List(ctx context.Context, filters *model.EventRequestFilters) ([]*model.EventRequest, error) {
	query := `SELECT * FROM event_request`
	vars := map[string]interface{}{}
	var conds []string

	if filters != nil {
		if filters.Status != "" {
			conds = append(conds, "status = $status")
			vars["status"] = filters.Status
		}
		if filters.LiaisonID != "" {
			conds = append(conds, "liaison_id = $liaison_id")
			vars["liaison_id"] = filters.LiaisonID
		}
		if filters.From != nil {
			conds = append(conds, "event_date >= $from")
			vars["from"] = *filters.From
		}
		if filters.To != nil {
			conds = append(conds, "event_date <= $to")
			vars["to"] = *filters.To
		}
	}

	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY created_on DESC"

	limit := 100
	if filters != nil && filters.Limit > 0 {
		limit = filters.Limit
	}
	query += fmt.Sprintf(" LIMIT %d", limit)

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	var requests []*model.EventRequest
	for _, row := range resultRows(result) {
		if req, err := parseEventRequestRow(row); err == nil && req != nil {
			requests = append(requests, req)
		}
	}
	return requests, nil
}

// ListScheduledBetween returns scheduled requests with event dates in [from, to)
func (r *EventRequestRepository) ListScheduledBetween(ctx context.Context, from, to time.Time) ([]*model.EventRequest, error) {
	result, err := r.db.Query(ctx,
		`SELECT * FROM event_request WHERE status = $status AND event_date >= $from AND event_date < $to`,
		map[string]interface{}{"status": model.RequestStatusScheduled, "from": from, "to": to})
	if err != nil {
		return nil, err
	}

	var requests []*model.EventRequest
	for _, row := range resultRows(result) {
		if req, err := parseEventRequestRow(row); err == nil && req != nil {
			requests = append(requests, req)
		}
	}
	return requests, nil
}

// Update applies a partial update and returns the updated record
func (r *EventRequestRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.EventRequest, error) {
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
	return parseEventRequestRow(rows[0])
}

// Delete removes an event request and its staff assignments
func (r *EventRequestRepository) Delete(ctx context.Context, id string) error {
	batch := database.NewAtomicBatch()
	batch.Add(`DELETE staff_assignment WHERE request_id = $del_id`, map[string]interface{}{"del_id": id})
	batch.Add(`DELETE type::record($del_id)`, nil)
	return batch.Execute(ctx, r.db)
}

// CreateAssignment adds a volunteer to a scheduled request
func (r *EventRequestRepository) CreateAssignment(ctx context.Context, a *model.StaffAssignment) error {
	query := `CREATE staff_assignment SET
		request_id = $request_id,
		user_id = $user_id,
		role = $role,
		added_by = $added_by,
		created_on = time::now()`
	vars := map[string]interface{}{
		"request_id": a.RequestID,
		"user_id":    a.UserID,
		"role":       a.Role,
		"added_by":   a.AddedBy,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}
	created, err := extractCreated(result)
	if err != nil {
		return err
	}
	a.ID = created.ID
	a.CreatedOn = created.CreatedOn
	return nil
}

// GetAssignments lists staff assignments for a request
func (r *EventRequestRepository) GetAssignments(ctx context.Context, requestID string) ([]*model.StaffAssignment, error) {
	result, err := r.db.Query(ctx,
		`SELECT * FROM staff_assignment WHERE request_id = $request_id ORDER BY created_on`,
		map[string]interface{}{"request_id": requestID})
	if err != nil {
		return nil, err
	}

	var assignments []*model.StaffAssignment
	for _, row := range resultRows(result) {
		m, ok := rowMap(row)
		if !ok {
			continue
		}
		assignments = append(assignments, &model.StaffAssignment{
			ID:        recordID(m["id"]),
			RequestID: getString(m, "request_id"),
			UserID:    getString(m, "user_id"),
			Role:      getString(m, "role"),
			AddedBy:   getString(m, "added_by"),
			CreatedOn: getTime(m, "created_on"),
		})
	}
	return assignments, nil
}

// HasAssignment reports whether a user is already assigned to a request
func (r *EventRequestRepository) HasAssignment(ctx context.Context, requestID, userID string) (bool, error) {
	result, err := r.db.QueryOne(ctx,
		`SELECT count() AS count FROM staff_assignment WHERE request_id = $request_id AND user_id = $user_id GROUP ALL`,
		map[string]interface{}{"request_id": requestID, "user_id": userID})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return scalarInt(result) > 0, nil
}

// DeleteAssignment removes a staff assignment
func (r *EventRequestRepository) DeleteAssignment(ctx context.Context, assignmentID string) error {
	return r.db.Execute(ctx, `DELETE type::record($id)`, map[string]interface{}{"id": assignmentID})
}

func parseEventRequestRow(row interface{}) (*model.EventRequest, error) {
	m, ok := rowMap(row)
	if !ok {
		return nil, nil
	}

	return &model.EventRequest{
		ID:                recordID(m["id"]),
		OrgName:           getString(m, "org_name"),
		ContactName:       getString(m, "contact_name"),
		ContactEmail:      getString(m, "contact_email"),
		ContactPhone:      getStringPtr(m, "contact_phone"),
		EventDate:         getTime(m, "event_date"),
		ExpectedAttendees: getInt(m, "expected_attendees"),
		Location:          parseLocation(m, "location"),
		Notes:             getStringPtr(m, "notes"),
		Status:            getString(m, "status"),
		LiaisonID:         getStringPtr(m, "liaison_id"),
		DeclineReason:     getStringPtr(m, "decline_reason"),
		CreatedBy:         getStringPtr(m, "created_by"),
		ScheduledOn:       getTimePtr(m, "scheduled_on"),
		CreatedOn:         getTime(m, "created_on"),
		UpdatedOn:         getTime(m, "updated_on"),
	}, nil
}
