package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebook/booking-api/internal/models"
)

func TestGenerateSlotsFullGrid(t *testing.T) {
	slots := GenerateSlots(nil)

	require.Len(t, slots, SlotsPerDay)
	assert.Equal(t, "07:00", slots[0].Time)
	assert.Equal(t, "20:45", slots[len(slots)-1].Time)
	for _, slot := range slots {
		assert.True(t, slot.IsDisabled)
		assert.Equal(t, models.StatusAvailable, slot.Status)
	}
}

func TestGenerateSlotsPhoneWindow(t *testing.T) {
	day := &models.DayAvailability{
		Date: "2024-01-01",
		CategoryWindows: models.CategoryWindows{
			Phone: models.TimeWindow{From: "09:00", To: "12:00"},
		},
	}

	slots := GenerateSlots(day)
	require.Len(t, slots, SlotsPerDay)

	enabled := make([]string, 0)
	for _, slot := range slots {
		if !slot.IsDisabled {
			enabled = append(enabled, slot.Time)
		}
	}
	require.Len(t, enabled, 12)
	assert.Equal(t, "09:00", enabled[0])
	assert.Equal(t, "11:45", enabled[len(enabled)-1])
}

func TestGenerateSlotsUnionEnvelope(t *testing.T) {
	// Phone ends at 12:00 and in-person starts at 14:00; the bookable span
	// is the union envelope, so the gap between them stays enabled.
	day := &models.DayAvailability{
		Date: "2024-01-01",
		CategoryWindows: models.CategoryWindows{
			Phone:    models.TimeWindow{From: "09:00", To: "12:00"},
			InPerson: models.TimeWindow{From: "14:00", To: "17:00"},
		},
	}

	byTime := slotsByTime(GenerateSlots(day))
	assert.False(t, byTime["09:00"].IsDisabled)
	assert.False(t, byTime["12:30"].IsDisabled)
	assert.False(t, byTime["16:45"].IsDisabled)
	assert.True(t, byTime["08:45"].IsDisabled)
	assert.True(t, byTime["17:00"].IsDisabled)
}

func TestGenerateSlotsHeadroom(t *testing.T) {
	day := &models.DayAvailability{
		Date: "2024-01-01",
		CategoryWindows: models.CategoryWindows{
			Phone: models.TimeWindow{From: "09:00", To: "12:00"},
		},
	}

	byTime := slotsByTime(GenerateSlots(day))
	assert.False(t, byTime["11:45"].IsDisabled, "last slot with full headroom must be enabled")
	assert.True(t, byTime["12:00"].IsDisabled, "slot at envelope end has no headroom")
}

func TestGenerateSlotsSecondsTrimmed(t *testing.T) {
	day := &models.DayAvailability{
		Date: "2024-01-01",
		CategoryWindows: models.CategoryWindows{
			Phone: models.TimeWindow{From: "09:00:00", To: "10:00:00"},
		},
	}

	byTime := slotsByTime(GenerateSlots(day))
	assert.False(t, byTime["09:00"].IsDisabled)
	assert.False(t, byTime["09:45"].IsDisabled)
	assert.True(t, byTime["10:00"].IsDisabled)
}

func TestGenerateSlotsMalformedBoundsDegrade(t *testing.T) {
	day := &models.DayAvailability{
		Date: "2024-01-01",
		CategoryWindows: models.CategoryWindows{
			Phone: models.TimeWindow{From: "garbage", To: "also-garbage"},
		},
	}

	for _, slot := range GenerateSlots(day) {
		assert.True(t, slot.IsDisabled)
	}
}

func slotsByTime(slots []models.Slot) map[string]models.Slot {
	byTime := make(map[string]models.Slot, len(slots))
	for _, slot := range slots {
		byTime[slot.Time] = slot
	}
	return byTime
}
