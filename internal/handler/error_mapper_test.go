package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/mealbridge/api/internal/model"
	"github.com/mealbridge/api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapServiceErrorStatuses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"revoked refresh token", service.ErrRefreshTokenRevoked, http.StatusUnauthorized},
		{"not request owner", service.ErrNotRequestOwner, http.StatusForbidden},
		{"not participant", service.ErrNotParticipant, http.StatusForbidden},
		{"request not found", service.ErrRequestNotFound, http.StatusNotFound},
		{"cooler not found", service.ErrCoolerNotFound, http.StatusNotFound},
		{"duplicate collection", service.ErrDuplicateCollection, http.StatusConflict},
		{"slot overlap", service.ErrSlotOverlap, http.StatusConflict},
		{"already voted", service.ErrAlreadyVoted, http.StatusConflict},
		{"invalid transition", service.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{"decline reason missing", service.ErrDeclineReasonMissing, http.StatusUnprocessableEntity},
		{"zero count", service.ErrZeroCount, http.StatusUnprocessableEntity},
		{"unknown error", errors.New("surprise"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			problem := MapServiceError(tc.err)
			require.NotNil(t, problem)
			assert.Equal(t, tc.want, problem.Status)
		})
	}
}

func TestMapServiceErrorPassesThroughProblemDetails(t *testing.T) {
	original := model.NewValidationError([]model.FieldError{{Field: "name", Message: "is required"}})

	problem := MapServiceError(original)
	assert.Same(t, original, problem)
}

func TestMapServiceErrorWrappedSentinel(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), service.ErrHostNotFound)

	problem := MapServiceError(wrapped)
	require.NotNil(t, problem)
	assert.Equal(t, http.StatusNotFound, problem.Status)
}

func TestMapServiceErrorDoesNotLeakInternalDetail(t *testing.T) {
	problem := MapServiceError(errors.New("pq: connection refused at 10.0.0.3"))
	require.NotNil(t, problem)
	assert.NotContains(t, problem.Detail, "10.0.0.3")
}

func TestMapServiceErrorNil(t *testing.T) {
	assert.Nil(t, MapServiceError(nil))
}
