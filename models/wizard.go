package models

import (
	"strings"
	"time"
)

// JobSize is a catalog tier fetched from the dispatch platform, e.g.
// "Pickup load". Prices arrive as strings on the wire and are displayed
// verbatim.
type JobSize struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	PriceEstimate string `json:"price_estimate"`
	PriceMin      string `json:"price_min"`
	PriceMax      string `json:"price_max"`
}

// AddressResult is one suggestion returned by the address search endpoint.
type AddressResult struct {
	AddressStr string `json:"address_str"`
	House      string `json:"house"`
	City       string `json:"city"`
	State      string `json:"state"`
	Zipcode    string `json:"zipcode"`
}

// PhotoRef describes a job photo held in the spool between the junk-amount
// step and final submission. The binary itself lives on disk.
type PhotoRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MIMEType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

// BookingState is the single aggregate behind one wizard session. It is
// mutated only through the wizard reducer and JSON-cached between requests.
type BookingState struct {
	// Contact information.
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`

	// Address. The four fields are persisted to the session flag store as
	// one unit on every change.
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`

	// Phone verification.
	IsPhoneVerified bool `json:"isPhoneVerified"`

	// Privacy policy consent.
	IsPrivacyAccepted bool `json:"isPrivacyAccepted"`

	// Job details.
	SelectedJobSize *JobSize   `json:"selectedJobSize"`
	Notes           string     `json:"notes"`
	Notes2          string     `json:"notes2"`
	Photos          []PhotoRef `json:"photos"`

	// Scheduling. SelectedTime is an hour of day, 0-23.
	SelectedDate *time.Time `json:"selectedDate"`
	SelectedTime *int       `json:"selectedTime"`

	// Lifecycle markers.
	CurrentStep   int    `json:"currentStep"`
	IsSubmitted   bool   `json:"isSubmitted"`
	AppointmentID *int64 `json:"appointmentId"`

	// Attribution captured once from the landing URL (utm_content or
	// dispatcher_id) and forwarded on the final appointment call.
	DispatcherID string `json:"dispatcherId,omitempty"`
}

// CombinedNotes merges the two free-text note fields with a newline in
// between when both are present.
func (s *BookingState) CombinedNotes() string {
	sep := ""
	if s.Notes != "" {
		sep = "\n"
	}
	return strings.TrimSpace(s.Notes + sep + s.Notes2)
}
