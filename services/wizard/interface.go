package wizard

import (
	"context"
	"io"
	"time"

	"haulaway/integrations/dispatchapi"
	"haulaway/models"
)

// Gateway is the slice of the dispatch API the wizard needs. The production
// implementation is dispatchapi.Client; tests substitute a fake.
type Gateway interface {
	SearchAddress(ctx context.Context, query string) (*dispatchapi.AddressSearchResponse, error)
	CheckAddress(ctx context.Context, req dispatchapi.CheckAddressRequest) (*dispatchapi.CheckAddressResponse, error)
	SendPhoneAuthCode(ctx context.Context, phone string) (*dispatchapi.SendPhoneAuthResponse, error)
	CheckPhoneVerification(ctx context.Context, phone, code string) (*dispatchapi.CheckPhoneVerificationResponse, error)
	GetJobSizes(ctx context.Context) (*dispatchapi.JobSizeResponse, error)
	GetContractorAvailability(ctx context.Context, req dispatchapi.AvailabilityRequest) (*dispatchapi.AvailabilityResponse, error)
	AddAppointment(ctx context.Context, req dispatchapi.AddAppointmentRequest) (*dispatchapi.AddAppointmentResponse, error)
}

// StateCache persists serialized booking state under a key with a TTL.
type StateCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// WizardService drives the booking flow for the handlers.
type WizardService interface {
	// StartSession returns the state for sessionID, creating a fresh session
	// when the id is empty or unknown. The dispatcher id is captured only on
	// creation.
	StartSession(ctx context.Context, sessionID, dispatcherID string) (string, models.BookingState, error)
	GetState(ctx context.Context, sessionID string) (models.BookingState, error)

	// Apply folds actions into the session state and persists the result.
	Apply(ctx context.Context, sessionID string, actions ...Action) (models.BookingState, error)

	// Continue performs the explicit forward move from a step; Back the
	// explicit backward move. Both return the resolved landing step.
	Continue(ctx context.Context, sessionID string, from Step) (Step, models.BookingState, error)
	Back(ctx context.Context, sessionID string, from Step) (Step, models.BookingState, error)

	SearchAddress(ctx context.Context, sessionID, query string) ([]models.AddressResult, error)
	SelectAddress(ctx context.Context, sessionID string, result models.AddressResult, query string) (models.BookingState, error)
	CheckAddress(ctx context.Context, sessionID string) (models.BookingState, error)

	SendVerificationCode(ctx context.Context, sessionID string) error
	VerifyCode(ctx context.Context, sessionID, code string) (models.BookingState, error)

	JobSizes(ctx context.Context, sessionID string) ([]models.JobSize, models.BookingState, error)
	Availability(ctx context.Context, sessionID string, date time.Time) ([]models.TimeSlot, error)

	AddPhoto(ctx context.Context, sessionID, name, mimeType string, size int64, r io.Reader) (models.BookingState, error)
	RemovePhoto(ctx context.Context, sessionID string, index int) (models.BookingState, error)

	Submit(ctx context.Context, sessionID string) (models.BookingState, error)
	ResetSession(ctx context.Context, sessionID string) (models.BookingState, error)
}
