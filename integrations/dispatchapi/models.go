package dispatchapi

import (
	"io"

	"haulaway/models"
)

// Response is the envelope every dispatch platform endpoint returns. Status 1
// means success; any other value is a business-level rejection carried over
// HTTP 200, so callers must check OK() rather than the HTTP status.
type Response struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
}

// OK reports whether the platform accepted the request.
func (r Response) OK() bool {
	return r.Status == 1
}

// AddressSearchResponse wraps the suggestions for a free-text address query.
type AddressSearchResponse struct {
	Response
	Data []models.AddressResult `json:"data"`
}

// CheckAddressRequest is the address quadruple submitted for service-area
// validation.
type CheckAddressRequest struct {
	House   string
	City    string
	State   string
	Zipcode string
}

// CheckAddressResponse reports whether the platform services the address.
type CheckAddressResponse struct {
	Response
	StatusCode int `json:"statuscode,omitempty"`
}

// SendPhoneAuthResponse acknowledges an OTP SMS send.
type SendPhoneAuthResponse struct {
	Response
	CodePhone string `json:"code_phone"`
}

// CheckPhoneVerificationResponse reports an OTP check result.
type CheckPhoneVerificationResponse struct {
	Response
}

// JobSizeResponse carries the job-size catalog.
type JobSizeResponse struct {
	Response
	Data []models.JobSize `json:"data"`
}

// AvailabilityRequest asks for contractor availability on one day.
// Date is unix seconds of local midnight-anchored day start; TimezoneOffset
// is the client zone's local-minus-UTC offset in hours.
type AvailabilityRequest struct {
	Zipcode        string
	JobSizeID      string
	Date           int64
	TimezoneOffset float64
}

// AvailabilityResponse carries per-hour availability percentages.
type AvailabilityResponse struct {
	Response
	Data []models.HourAvailability `json:"data"`
}

// PhotoPart is one photo blob attached to an appointment submission.
type PhotoPart struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// AddAppointmentRequest is the full booking payload.
type AddAppointmentRequest struct {
	PhoneNumber    string
	FirstName      string
	LastName       string
	House          string
	City           string
	State          string
	Zipcode        string
	JobSizeID      string
	Notes          string
	StartDate      int64
	TimezoneOffset float64
	DispatcherID   string
	Photos         []PhotoPart
}

// AddAppointmentResponse carries the created appointment's ID.
type AddAppointmentResponse struct {
	Response
	Data struct {
		AppointmentID int64 `json:"appointment_id"`
	} `json:"data"`
}
