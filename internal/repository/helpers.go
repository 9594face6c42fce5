package repository

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// isUniqueConstraintError checks if an error is a unique constraint violation
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "unique") ||
		strings.Contains(errStr, "duplicate") ||
		strings.Contains(errStr, "already exists")
}

// recordID extracts a record ID from the various shapes SurrealDB returns
func recordID(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case models.RecordID:
		return v.String()
	case *models.RecordID:
		if v != nil {
			return v.String()
		}
	case map[string]interface{}:
		if tb, ok := v["tb"].(string); ok {
			if id, ok := v["id"].(string); ok {
				return tb + ":" + id
			}
		}
	}

	// Fall back to JSON round-trip
	if data, err := json.Marshal(id); err == nil {
		var rid models.RecordID
		if err := json.Unmarshal(data, &rid); err == nil {
			return rid.String()
		}
	}

	return ""
}

// resultRows extracts the row list from a SurrealDB query response
func resultRows(result []interface{}) []interface{} {
	if len(result) == 0 {
		return nil
	}
	if resp, ok := result[0].(map[string]interface{}); ok {
		if rows, ok := resp["result"].([]interface{}); ok {
			return rows
		}
	}
	return result
}

// rowMap coerces a single row into a map, unwrapping a response envelope
// when present
func rowMap(row interface{}) (map[string]interface{}, bool) {
	if resp, ok := row.(map[string]interface{}); ok {
		if rows, ok := resp["result"].([]interface{}); ok {
			if len(rows) == 0 {
				return nil, false
			}
			row = rows[0]
		}
	}
	m, ok := row.(map[string]interface{})
	return m, ok
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func getStringPtr(m map[string]interface{}, key string) *string {
	if v, ok := m[key].(string); ok && v != "" {
		return &v
	}
	return nil
}

func getInt(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case float32:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	}
	return 0
}

func getFloat(m map[string]interface{}, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func getFloatPtr(m map[string]interface{}, key string) *float64 {
	if _, ok := m[key]; !ok {
		return nil
	}
	if m[key] == nil {
		return nil
	}
	v := getFloat(m, key)
	return &v
}

func getBool(m map[string]interface{}, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}

func parseTimeValue(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed, true
		}
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed, true
		}
	case models.CustomDateTime:
		return t.Time, true
	case *models.CustomDateTime:
		if t != nil {
			return t.Time, true
		}
	}
	return time.Time{}, false
}

func getTime(m map[string]interface{}, key string) time.Time {
	t, _ := parseTimeValue(m[key])
	return t
}

func getTimePtr(m map[string]interface{}, key string) *time.Time {
	if t, ok := parseTimeValue(m[key]); ok {
		return &t
	}
	return nil
}

func getStringSlice(m map[string]interface{}, key string) []string {
	v, ok := m[key].([]interface{})
	if !ok {
		return nil
	}
	result := make([]string, 0, len(v))
	for _, item := range v {
		switch s := item.(type) {
		case string:
			result = append(result, s)
		default:
			if id := recordID(item); id != "" {
				result = append(result, id)
			}
		}
	}
	return result
}

// scalarInt extracts an integer from a scalar query result (count, sum)
func scalarInt(result interface{}) int {
	if m, ok := result.(map[string]interface{}); ok {
		for _, key := range []string{"count", "total", "sum"} {
			if v, ok := m[key]; ok && v != nil {
				return getInt(m, key)
			}
		}
	}
	switch v := result.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	}
	return 0
}
