package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotCovers(t *testing.T) {
	slot := &AvailabilitySlot{DayOfWeek: 2, StartMinutes: 9 * 60, EndMinutes: 12 * 60}

	assert.True(t, slot.Covers(2, 9*60))
	assert.True(t, slot.Covers(2, 10*60+30))
	assert.False(t, slot.Covers(2, 12*60), "end is exclusive")
	assert.False(t, slot.Covers(3, 10*60))
}

func TestSlotOverlaps(t *testing.T) {
	base := &AvailabilitySlot{DayOfWeek: 1, StartMinutes: 600, EndMinutes: 720}

	tests := []struct {
		name  string
		other *AvailabilitySlot
		want  bool
	}{
		{"identical", &AvailabilitySlot{DayOfWeek: 1, StartMinutes: 600, EndMinutes: 720}, true},
		{"partial overlap", &AvailabilitySlot{DayOfWeek: 1, StartMinutes: 700, EndMinutes: 800}, true},
		{"contained", &AvailabilitySlot{DayOfWeek: 1, StartMinutes: 630, EndMinutes: 660}, true},
		{"adjacent", &AvailabilitySlot{DayOfWeek: 1, StartMinutes: 720, EndMinutes: 780}, false},
		{"different day", &AvailabilitySlot{DayOfWeek: 2, StartMinutes: 600, EndMinutes: 720}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base))
		})
	}
}

func TestCreateSlotInputValidate(t *testing.T) {
	valid := CreateSlotInput{DayOfWeek: 3, StartMinutes: 540, EndMinutes: 720}
	assert.Empty(t, valid.Validate())

	bad := CreateSlotInput{DayOfWeek: 7, StartMinutes: -1, EndMinutes: 0}
	errs := bad.Validate()
	assert.Len(t, errs, 3)
}
