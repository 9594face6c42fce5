package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"new to in_process", RequestStatusNew, RequestStatusInProcess, true},
		{"new to declined", RequestStatusNew, RequestStatusDeclined, true},
		{"new to scheduled skips triage", RequestStatusNew, RequestStatusScheduled, false},
		{"in_process to scheduled", RequestStatusInProcess, RequestStatusScheduled, true},
		{"in_process to postponed", RequestStatusInProcess, RequestStatusPostponed, true},
		{"scheduled to completed", RequestStatusScheduled, RequestStatusCompleted, true},
		{"scheduled to postponed", RequestStatusScheduled, RequestStatusPostponed, true},
		{"postponed back to scheduled", RequestStatusPostponed, RequestStatusScheduled, true},
		{"postponed to completed", RequestStatusPostponed, RequestStatusCompleted, false},
		{"completed is terminal", RequestStatusCompleted, RequestStatusScheduled, false},
		{"declined is terminal", RequestStatusDeclined, RequestStatusInProcess, false},
		{"unknown status", "bogus", RequestStatusNew, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestValidRequestStatus(t *testing.T) {
	for _, s := range []string{
		RequestStatusNew, RequestStatusInProcess, RequestStatusScheduled,
		RequestStatusCompleted, RequestStatusDeclined, RequestStatusPostponed,
	} {
		assert.True(t, ValidRequestStatus(s), s)
	}
	assert.False(t, ValidRequestStatus("archived"))
	assert.False(t, ValidRequestStatus(""))
}

func TestLocationHasCoordinates(t *testing.T) {
	lat, lng := 33.749, -84.388

	var nilLoc *Location
	assert.False(t, nilLoc.HasCoordinates())
	assert.False(t, (&Location{Address: "123 Main St"}).HasCoordinates())
	assert.False(t, (&Location{Address: "123 Main St", Lat: &lat}).HasCoordinates())
	assert.True(t, (&Location{Address: "123 Main St", Lat: &lat, Lng: &lng}).HasCoordinates())
}
