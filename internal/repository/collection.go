package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mealbridge/api/internal/database"
	"github.com/mealbridge/api/internal/model"
)

// CollectionRepository handles sandwich collection data access
type CollectionRepository struct {
	db database.Database
}

// NewCollectionRepository creates a new collection repository
func NewCollectionRepository(db database.Database) *CollectionRepository {
	return &CollectionRepository{db: db}
}

// Create logs a new sandwich collection
func (r *CollectionRepository) Create(ctx context.Context, c *model.SandwichCollection) error {
	setClause := `
		host_id = $host_id,
		collection_date = $collection_date,
		individual_count = $individual_count,
		group_count = $group_count,
		logged_by = $logged_by,
		created_on = time::now(),
		updated_on = time::now()`
	vars := map[string]interface{}{
		"host_id":          c.HostID,
		"collection_date":  c.CollectionDate,
		"individual_count": c.IndividualCount,
		"group_count":      c.GroupCount,
		"logged_by":        c.LoggedBy,
	}
	if c.Notes != nil {
		setClause += ", notes = $notes"
		vars["notes"] = *c.Notes
	}
	if c.ImportBatchID != nil {
		setClause += ", import_batch_id = $import_batch_id"
		vars["import_batch_id"] = *c.ImportBatchID
	}

	result, err := r.db.Query(ctx, "CREATE sandwich_collection SET "+setClause, vars)
	if err != nil {
		return err
	}

	created, err := extractCreated(result)
	if err != nil {
		return err
	}
	c.ID = created.ID
	c.CreatedOn = created.CreatedOn
	c.UpdatedOn = created.UpdatedOn
	return nil
}

// Get retrieves a collection by ID; returns (nil, nil) when absent
func (r *CollectionRepository) Get(ctx context.Context, id string) (*model.SandwichCollection, error) {
	result, err := r.db.QueryOne(ctx, `SELECT * FROM type::record($id)`, map[string]interface{}{"id": id})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseCollectionRow(result)
}

// List returns collections matching the filters, newest collection date first
func (r *CollectionRepository) List(ctx context.Context, filters *model.CollectionFilters) ([]*model.SandwichCollection, error) {
	query := `SELECT * FROM sandwich_collection`
	vars := map[string]interface{}{}
	var conds []string

	if filters != nil {
		if filters.HostID != "" {
			conds = append(conds, "host_id = $host_id")
			vars["host_id"] = filters.HostID
		}
		if filters.From != nil {
			conds = append(conds, "collection_date >= $from")
			vars["from"] = *filters.From
		}
		if filters.To != nil {
			conds = append(conds, "collection_date <= $to")
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
	query += " ORDER BY collection_date DESC"

	limit := 200
	if filters != nil && filters.Limit > 0 {
		limit = filters.Limit
	}
	query += fmt.Sprintf(" LIMIT %d", limit)

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	var collections []*model.SandwichCollection
	for _, row := range resultRows(result) {
		if c, err := parseCollectionRow(row); err == nil && c != nil {
			collections = append(collections, c)
		}
	}
	return collections, nil
}

// ListByHostAndDate returns all collections logged for a host on a calendar
// day. Used by duplicate detection.
func (r *CollectionRepository) ListByHostAndDate(ctx context.Context, hostID string, day time.Time) ([]*model.SandwichCollection, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	result, err := r.db.Query(ctx,
		`SELECT * FROM sandwich_collection WHERE host_id = $host_id AND collection_date >= $start AND collection_date < $end`,
		map[string]interface{}{"host_id": hostID, "start": start, "end": end})
	if err != nil {
		return nil, err
	}

	var collections []*model.SandwichCollection
	for _, row := range resultRows(result) {
		if c, err := parseCollectionRow(row); err == nil && c != nil {
			collections = append(collections, c)
		}
	}
	return collections, nil
}

// Update applies a partial update and returns the updated record
func (r *CollectionRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.SandwichCollection, error) {
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
	return parseCollectionRow(rows[0])
}

// Delete removes a collection record
func (r *CollectionRepository) Delete(ctx context.Context, id string) error {
	return r.db.Execute(ctx, `DELETE type::record($id)`, map[string]interface{}{"id": id})
}

// DeleteBatch removes every record created by an import batch
func (r *CollectionRepository) DeleteBatch(ctx context.Context, batchID string) (int, error) {
	count, err := r.countByBatch(ctx, batchID)
	if err != nil {
		return 0, err
	}
	err = r.db.Execute(ctx,
		`DELETE sandwich_collection WHERE import_batch_id = $batch_id`,
		map[string]interface{}{"batch_id": batchID})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CollectionRepository) countByBatch(ctx context.Context, batchID string) (int, error) {
	result, err := r.db.QueryOne(ctx,
		`SELECT count() AS count FROM sandwich_collection WHERE import_batch_id = $batch_id GROUP ALL`,
		map[string]interface{}{"batch_id": batchID})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return scalarInt(result), nil
}

// Stats aggregates collections in the date range into totals
func (r *CollectionRepository) Stats(ctx context.Context, from, to *time.Time) (*model.CollectionStats, error) {
	query := `SELECT host_id, math::sum(individual_count + group_count) AS sandwiches, count() AS records
		FROM sandwich_collection`
	vars := map[string]interface{}{}
	var conds []string
	if from != nil {
		conds = append(conds, "collection_date >= $from")
		vars["from"] = *from
	}
	if to != nil {
		conds = append(conds, "collection_date <= $to")
		vars["to"] = *to
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " GROUP BY host_id"

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	stats := &model.CollectionStats{}
	for _, row := range resultRows(result) {
		m, ok := rowMap(row)
		if !ok {
			continue
		}
		ht := model.HostTotal{
			HostID:     recordID(m["host_id"]),
			Sandwiches: getInt(m, "sandwiches"),
			Records:    getInt(m, "records"),
		}
		stats.PerHost = append(stats.PerHost, ht)
		stats.TotalSandwiches += ht.Sandwiches
		stats.TotalRecords += ht.Records
	}
	return stats, nil
}

// ListInRange returns all collections in the date range, oldest first. Used
// for weekly roll-ups and duplicate scans.
func (r *CollectionRepository) ListInRange(ctx context.Context, from, to time.Time) ([]*model.SandwichCollection, error) {
	result, err := r.db.Query(ctx,
		`SELECT * FROM sandwich_collection WHERE collection_date >= $from AND collection_date <= $to ORDER BY collection_date`,
		map[string]interface{}{"from": from, "to": to})
	if err != nil {
		return nil, err
	}

	var collections []*model.SandwichCollection
	for _, row := range resultRows(result) {
		if c, err := parseCollectionRow(row); err == nil && c != nil {
			collections = append(collections, c)
		}
	}
	return collections, nil
}

func parseCollectionRow(row interface{}) (*model.SandwichCollection, error) {
	m, ok := rowMap(row)
	if !ok {
		return nil, nil
	}

	return &model.SandwichCollection{
		ID:              recordID(m["id"]),
		HostID:          getString(m, "host_id"),
		CollectionDate:  getTime(m, "collection_date"),
		IndividualCount: getInt(m, "individual_count"),
		GroupCount:      getInt(m, "group_count"),
		Notes:           getStringPtr(m, "notes"),
		LoggedBy:        getString(m, "logged_by"),
		ImportBatchID:   getStringPtr(m, "import_batch_id"),
		CreatedOn:       getTime(m, "created_on"),
		UpdatedOn:       getTime(m, "updated_on"),
	}, nil
}
