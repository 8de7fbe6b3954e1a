package wizard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haulaway/models"
)

func TestSlotStatusFor(t *testing.T) {
	tests := []struct {
		percentage int
		want       models.SlotStatus
	}{
		{100, models.SlotFree},
		{85, models.SlotFree},
		{71, models.SlotFree},
		{70, models.SlotMedium},
		{40, models.SlotMedium},
		{31, models.SlotMedium},
		{30, models.SlotBusy},
		{10, models.SlotBusy},
		{1, models.SlotBusy},
		{0, models.SlotDisabled},
		{-5, models.SlotDisabled},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SlotStatusFor(tt.percentage), "percentage %d", tt.percentage)
	}
}

func TestHourLabel(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{0, "12 AM"},
		{1, "1 AM"},
		{10, "10 AM"},
		{11, "11 AM"},
		{12, "12 PM"},
		{13, "1 PM"},
		{15, "3 PM"},
		{20, "8 PM"},
		{23, "11 PM"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HourLabel(tt.hour))
	}
}

func TestBuildTimeSlots(t *testing.T) {
	slots := BuildTimeSlots([]models.HourAvailability{
		{Hour: 10, Percentage: 85},
		{Hour: 15, Percentage: 40},
		{Hour: 20, Percentage: 10},
		{Hour: 22, Percentage: 0},
	})
	require.Len(t, slots, 4)

	assert.Equal(t, models.TimeSlot{Hour: 10, Label: "10 AM", Status: models.SlotFree, Percentage: 85}, slots[0])
	assert.Equal(t, models.TimeSlot{Hour: 15, Label: "3 PM", Status: models.SlotMedium, Percentage: 40}, slots[1])
	assert.Equal(t, models.TimeSlot{Hour: 20, Label: "8 PM", Status: models.SlotBusy, Percentage: 10}, slots[2])
	assert.Equal(t, models.SlotDisabled, slots[3].Status)
}

func TestBuildTimeSlotsEmpty(t *testing.T) {
	slots := BuildTimeSlots(nil)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestStartTimestamp(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, loc)

	got := StartTimestamp(date, 10)

	want := time.Date(2026, 3, 14, 10, 0, 0, 0, loc).Unix()
	assert.Equal(t, want, got)

	// 10 AM at UTC-5 is 15:00 UTC.
	assert.Equal(t, time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC).Unix(), got)
}

func TestTimezoneOffsetHours(t *testing.T) {
	minus5 := time.Date(2026, 3, 14, 0, 0, 0, 0, time.FixedZone("UTC-5", -5*3600))
	assert.Equal(t, -5.0, TimezoneOffsetHours(minus5))

	plus530 := time.Date(2026, 3, 14, 0, 0, 0, 0, time.FixedZone("UTC+5:30", 5*3600+1800))
	assert.Equal(t, 5.5, TimezoneOffsetHours(plus530))

	utc := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0.0, TimezoneOffsetHours(utc))
}
