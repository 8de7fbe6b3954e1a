package wizard

import (
	"fmt"
	"time"

	"haulaway/models"
)

// SlotStatusFor buckets a free-capacity percentage into a slot status.
func SlotStatusFor(percentage int) models.SlotStatus {
	switch {
	case percentage > 70:
		return models.SlotFree
	case percentage > 30:
		return models.SlotMedium
	case percentage > 0:
		return models.SlotBusy
	default:
		return models.SlotDisabled
	}
}

// HourLabel renders a 0-23 hour as a 12-hour clock label.
func HourLabel(hour int) string {
	switch {
	case hour == 0:
		return "12 AM"
	case hour == 12:
		return "12 PM"
	case hour < 12:
		return fmt.Sprintf("%d AM", hour)
	default:
		return fmt.Sprintf("%d PM", hour-12)
	}
}

// BuildTimeSlots maps per-hour availability into display slots, preserving
// order. A nil or empty input yields an empty slice, never nil.
func BuildTimeSlots(hours []models.HourAvailability) []models.TimeSlot {
	slots := make([]models.TimeSlot, 0, len(hours))
	for _, h := range hours {
		slots = append(slots, models.TimeSlot{
			Hour:       h.Hour,
			Label:      HourLabel(h.Hour),
			Status:     SlotStatusFor(h.Percentage),
			Percentage: h.Percentage,
		})
	}
	return slots
}

// StartTimestamp combines a calendar date with a start hour into a Unix
// timestamp, interpreted in the date's own location.
func StartTimestamp(date time.Time, hour int) int64 {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, date.Location()).Unix()
}

// TimezoneOffsetHours returns the signed offset of t's zone from UTC in
// hours, so UTC-5 yields -5.
func TimezoneOffsetHours(t time.Time) float64 {
	_, secs := t.Zone()
	return float64(secs) / 3600
}
