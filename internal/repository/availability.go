package repository

import (
	"context"

	"github.com/mealbridge/api/internal/database"
	"github.com/mealbridge/api/internal/model"
)

// AvailabilityRepository handles availability slot data access
type AvailabilityRepository struct {
	db database.Database
}

// NewAvailabilityRepository creates a new availability repository
func NewAvailabilityRepository(db database.Database) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// Create stores an availability slot
func (r *AvailabilityRepository) Create(ctx context.Context, slot *model.AvailabilitySlot) error {
	setClause := `
		user_id = $user_id,
		day_of_week = $day_of_week,
		start_minutes = $start_minutes,
		end_minutes = $end_minutes,
		created_on = time::now()`
	vars := map[string]interface{}{
		"user_id":       slot.UserID,
		"day_of_week":   slot.DayOfWeek,
		"start_minutes": slot.StartMinutes,
		"end_minutes":   slot.EndMinutes,
	}
	if slot.Note != nil {
		setClause += ", note = $note"
		vars["note"] = *slot.Note
	}

	result, err := r.db.Query(ctx, "CREATE availability_slot SET "+setClause, vars)
	if err != nil {
		return err
	}
	created, err := extractCreated(result)
	if err != nil {
		return err
	}
	slot.ID = created.ID
	slot.CreatedOn = created.CreatedOn
	return nil
}

// ListForUser returns a user's slots ordered by day and start time
func (r *AvailabilityRepository) ListForUser(ctx context.Context, userID string) ([]*model.AvailabilitySlot, error) {
	result, err := r.db.Query(ctx,
		`SELECT * FROM availability_slot WHERE user_id = $user_id ORDER BY day_of_week, start_minutes`,
		map[string]interface{}{"user_id": userID})
	if err != nil {
		return nil, err
	}

	var slots []*model.AvailabilitySlot
	for _, row := range resultRows(result) {
		m, ok := rowMap(row)
		if !ok {
			continue
		}
		slots = append(slots, parseSlotRow(m))
	}
	return slots, nil
}

// ListForDay returns every user's slots on a weekday
func (r *AvailabilityRepository) ListForDay(ctx context.Context, day int) ([]*model.AvailabilitySlot, error) {
	result, err := r.db.Query(ctx,
		`SELECT * FROM availability_slot WHERE day_of_week = $day ORDER BY start_minutes`,
		map[string]interface{}{"day": day})
	if err != nil {
		return nil, err
	}

	var slots []*model.AvailabilitySlot
	for _, row := range resultRows(result) {
		m, ok := rowMap(row)
		if !ok {
			continue
		}
		slots = append(slots, parseSlotRow(m))
	}
	return slots, nil
}

// Get retrieves a slot by ID; returns (nil, nil) when absent
func (r *AvailabilityRepository) Get(ctx context.Context, id string) (*model.AvailabilitySlot, error) {
	result, err := r.db.QueryOne(ctx, `SELECT * FROM type::record($id)`, map[string]interface{}{"id": id})
	if err != nil {
		if err == database.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	m, ok := rowMap(result)
	if !ok {
		return nil, nil
	}
	return parseSlotRow(m), nil
}

// Delete removes an availability slot
func (r *AvailabilityRepository) Delete(ctx context.Context, id string) error {
	return r.db.Execute(ctx, `DELETE type::record($id)`, map[string]interface{}{"id": id})
}

func parseSlotRow(m map[string]interface{}) *model.AvailabilitySlot {
	return &model.AvailabilitySlot{
		ID:           recordID(m["id"]),
		UserID:       getString(m, "user_id"),
		DayOfWeek:    getInt(m, "day_of_week"),
		StartMinutes: getInt(m, "start_minutes"),
		EndMinutes:   getInt(m, "end_minutes"),
		Note:         getStringPtr(m, "note"),
		CreatedOn:    getTime(m, "created_on"),
	}
}
