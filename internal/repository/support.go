package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/mealbridge/api/internal/database"
	"github.com/mealbridge/api/internal/model"
)

// SupportRepository handles wishlist, cooler, and promotion data access
type SupportRepository struct {
	db database.Database
}

// NewSupportRepository creates a new support repository
func NewSupportRepository(db database.Database) *SupportRepository {
	return &SupportRepository{db: db}
}

// CreateSuggestion adds a wishlist suggestion
func (r *SupportRepository) CreateSuggestion(ctx context.Context, s *model.WishlistSuggestion) error {
	setClause := `
		title = $title,
		suggested_by = $suggested_by,
		votes = $votes,
		created_on = time::now()`
	vars := map[string]interface{}{
		"title":        s.Title,
		"suggested_by": s.SuggestedBy,
		"votes":        []string{},
	}
	if s.Description != nil {
		setClause += ", description = $description"
		vars["description"] = *s.Description
	}

	result, err := r.db.Query(ctx, "CREATE wishlist_suggestion SET "+setClause, vars)
	if err != nil {
		return err
	}
	created, err := extractCreated(result)
	if err != nil {
		return err
	}
	s.ID = created.ID
	s.CreatedOn = created.CreatedOn
	return nil
}

// GetSuggestion retrieves a suggestion by ID; returns (nil, nil) when absent
func (r *SupportRepository) GetSuggestion(ctx context.Context, id string) (*model.WishlistSuggestion, error) {
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
	return parseSuggestionRow(m), nil
}

// ListSuggestions returns suggestions ordered by vote count
func (r *SupportRepository) ListSuggestions(ctx context.Context) ([]*model.WishlistSuggestion, error) {
	result, err := r.db.Query(ctx,
		`SELECT * FROM wishlist_suggestion ORDER BY array::len(votes) DESC, created_on DESC`, nil)
	if err != nil {
		return nil, err
	}

	var suggestions []*model.WishlistSuggestion
	for _, row := range resultRows(result) {
		m, ok := rowMap(row)
		if !ok {
			continue
		}
		suggestions = append(suggestions, parseSuggestionRow(m))
	}
	return suggestions, nil
}

// AddVote appends a voter to a suggestion
func (r *SupportRepository) AddVote(ctx context.Context, suggestionID, userID string) error {
	return r.db.Execute(ctx,
		`UPDATE type::record($id) SET votes += $user`,
		map[string]interface{}{"id": suggestionID, "user": userID})
}

// DeleteSuggestion removes a wishlist suggestion
func (r *SupportRepository) DeleteSuggestion(ctx context.Context, id string) error {
	return r.db.Execute(ctx, `DELETE type::record($id)`, map[string]interface{}{"id": id})
}

// CreateCooler registers a cooler unit
func (r *SupportRepository) CreateCooler(ctx context.Context, c *model.CoolerInventory) error {
	setClause := `
		label = $label,
		capacity = $capacity,
		status = $status,
		created_on = time::now(),
		updated_on = time::now()`
	vars := map[string]interface{}{
		"label":    c.Label,
		"capacity": c.Capacity,
		"status":   c.Status,
	}
	if c.LocationNote != nil {
		setClause += ", location_note = $location_note"
		vars["location_note"] = *c.LocationNote
	}

	result, err := r.db.Query(ctx, "CREATE cooler SET "+setClause, vars)
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
	c.ID = created.ID
	c.CreatedOn = created.CreatedOn
	c.UpdatedOn = created.UpdatedOn
	return nil
}

// GetCooler retrieves a cooler by ID; returns (nil, nil) when absent
func (r *SupportRepository) GetCooler(ctx context.Context, id string) (*model.CoolerInventory, error) {
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
	return parseCoolerRow(m), nil
}

// ListCoolers returns all coolers ordered by label
func (r *SupportRepository) ListCoolers(ctx context.Context) ([]*model.CoolerInventory, error) {
	result, err := r.db.Query(ctx, `SELECT * FROM cooler ORDER BY label`, nil)
	if err != nil {
		return nil, err
	}

	var coolers []*model.CoolerInventory
	for _, row := range resultRows(result) {
		m, ok := rowMap(row)
		if !ok {
			continue
		}
		coolers = append(coolers, parseCoolerRow(m))
	}
	return coolers, nil
}

// UpdateCooler applies a partial update and returns the updated record
func (r *SupportRepository) UpdateCooler(ctx context.Context, id string, updates map[string]interface{}) (*model.CoolerInventory, error) {
	if len(updates) == 0 {
		return r.GetCooler(ctx, id)
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
	m, ok := rowMap(rows[0])
	if !ok {
		return nil, nil
	}
	return parseCoolerRow(m), nil
}

// CreatePromotion records an uploaded promo graphic
func (r *SupportRepository) CreatePromotion(ctx context.Context, p *model.PromotionGraphic) error {
	setClause := `
		title = $title,
		url = $url,
		approved = $approved,
		uploaded_by = $uploaded_by,
		created_on = time::now()`
	vars := map[string]interface{}{
		"title":       p.Title,
		"url":         p.URL,
		"approved":    p.Approved,
		"uploaded_by": p.UploadedBy,
	}
	if p.EventDate != nil {
		setClause += ", event_date = $event_date"
		vars["event_date"] = *p.EventDate
	}

	result, err := r.db.Query(ctx, "CREATE promotion SET "+setClause, vars)
	if err != nil {
		return err
	}
	created, err := extractCreated(result)
	if err != nil {
		return err
	}
	p.ID = created.ID
	p.CreatedOn = created.CreatedOn
	return nil
}

// GetPromotion retrieves a promo graphic by ID; returns (nil, nil) when
// absent
func (r *SupportRepository) GetPromotion(ctx context.Context, id string) (*model.PromotionGraphic, error) {
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
	return parsePromotionRow(m), nil
}

// ListPromotions returns promo graphics, optionally only approved ones
func (r *SupportRepository) ListPromotions(ctx context.Context, approvedOnly bool) ([]*model.PromotionGraphic, error) {
	query := `SELECT * FROM promotion`
	if approvedOnly {
		query += ` WHERE approved = true`
	}
	query += ` ORDER BY created_on DESC`

	result, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	var promos []*model.PromotionGraphic
	for _, row := range resultRows(result) {
		m, ok := rowMap(row)
		if !ok {
			continue
		}
		promos = append(promos, parsePromotionRow(m))
	}
	return promos, nil
}

// ApprovePromotion marks a promo graphic approved
func (r *SupportRepository) ApprovePromotion(ctx context.Context, id, approverID string) error {
	return r.db.Execute(ctx,
		`UPDATE type::record($id) SET approved = true, approved_by = $approver`,
		map[string]interface{}{"id": id, "approver": approverID})
}

func parseSuggestionRow(m map[string]interface{}) *model.WishlistSuggestion {
	votes := getStringSlice(m, "votes")
	return &model.WishlistSuggestion{
		ID:          recordID(m["id"]),
		Title:       getString(m, "title"),
		Description: getStringPtr(m, "description"),
		SuggestedBy: getString(m, "suggested_by"),
		Votes:       votes,
		VoteCount:   len(votes),
		CreatedOn:   getTime(m, "created_on"),
	}
}

func parseCoolerRow(m map[string]interface{}) *model.CoolerInventory {
	return &model.CoolerInventory{
		ID:           recordID(m["id"]),
		Label:        getString(m, "label"),
		LocationNote: getStringPtr(m, "location_note"),
		Capacity:     getInt(m, "capacity"),
		Status:       getString(m, "status"),
		CheckedOutBy: getStringPtr(m, "checked_out_by"),
		CheckedOutOn: getTimePtr(m, "checked_out_on"),
		CreatedOn:    getTime(m, "created_on"),
		UpdatedOn:    getTime(m, "updated_on"),
	}
}

func parsePromotionRow(m map[string]interface{}) *model.PromotionGraphic {
	return &model.PromotionGraphic{
		ID:         recordID(m["id"]),
		Title:      getString(m, "title"),
		URL:        getString(m, "url"),
		EventDate:  getTimePtr(m, "event_date"),
		Approved:   getBool(m, "approved"),
		ApprovedBy: getStringPtr(m, "approved_by"),
		UploadedBy: getString(m, "uploaded_by"),
		CreatedOn:  getTime(m, "created_on"),
	}
}
