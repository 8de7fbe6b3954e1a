package models

// HourAvailability is the raw contractor availability for one hour of the
// requested day, as reported by the dispatch platform.
type HourAvailability struct {
	Hour       int `json:"hour"`
	Percentage int `json:"percentage"`
}

// SlotStatus is the display bucket an availability percentage maps into.
type SlotStatus string

const (
	SlotFree     SlotStatus = "free"
	SlotMedium   SlotStatus = "medium"
	SlotBusy     SlotStatus = "busy"
	SlotDisabled SlotStatus = "disabled"
)

// TimeSlot is one selectable hour on the date-time step.
type TimeSlot struct {
	Hour       int        `json:"hour"`
	Label      string     `json:"label"`
	Status     SlotStatus `json:"status"`
	Percentage int        `json:"percentage"`
}

// PriceRange is the cosmetic sub-range of the job-size slider for one tier.
// The authoritative prices shown to the user come from the JobSize catalog.
type PriceRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}
