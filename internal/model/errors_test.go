package model

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProblemDetailsWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	NewNotFoundError("event request").WriteJSON(rec)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var p ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "event request not found", p.Detail)
	assert.Equal(t, ErrCodeNotFound, p.Code)
}

func TestNewValidationErrorDetail(t *testing.T) {
	p := NewValidationError([]FieldError{
		{Field: "org_name", Message: "is required"},
		{Field: "event_date", Message: "is required"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, p.Status)
	assert.Contains(t, p.Detail, "org_name: is required")
	assert.Contains(t, p.Detail, "1 more")
	assert.Len(t, p.Errors, 2)
}

func TestNewTransitionError(t *testing.T) {
	p := NewTransitionError(RequestStatusCompleted, RequestStatusNew)
	assert.Equal(t, http.StatusUnprocessableEntity, p.Status)
	assert.Equal(t, ErrCodeInvalidTransition, p.Code)
	assert.Contains(t, p.Detail, "completed")
}
