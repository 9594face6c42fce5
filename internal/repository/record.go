package repository

import (
	"errors"
	"time"

	"github.com/mealbridge/api/internal/model"
)

// createdMeta holds the fields SurrealDB fills in on CREATE
type createdMeta struct {
	ID        string
	CreatedOn time.Time
	UpdatedOn time.Time
}

// extractCreated pulls the new record's ID and timestamps from a CREATE
// query result
func extractCreated(result []interface{}) (*createdMeta, error) {
	rows := resultRows(result)
	if len(rows) == 0 {
		return nil, errors.New("no result returned")
	}

	data, ok := rows[0].(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	meta := &createdMeta{}
	if id, ok := data["id"]; ok {
		meta.ID = recordID(id)
	}
	meta.CreatedOn = getTime(data, "created_on")
	meta.UpdatedOn = getTime(data, "updated_on")
	return meta, nil
}

// locationVars flattens a Location for query variables
func locationVars(l *model.Location) map[string]interface{} {
	if l == nil {
		return nil
	}
	vars := map[string]interface{}{
		"address": l.Address,
		"city":    l.City,
	}
	if l.Lat != nil {
		vars["lat"] = *l.Lat
	}
	if l.Lng != nil {
		vars["lng"] = *l.Lng
	}
	return vars
}

// parseLocation reads an embedded location object from a row
func parseLocation(m map[string]interface{}, key string) *model.Location {
	obj, ok := m[key].(map[string]interface{})
	if !ok {
		return nil
	}
	loc := &model.Location{
		Address: getString(obj, "address"),
		City:    getString(obj, "city"),
		Lat:     getFloatPtr(obj, "lat"),
		Lng:     getFloatPtr(obj, "lng"),
	}
	if loc.Address == "" && loc.Lat == nil {
		return nil
	}
	return loc
}
