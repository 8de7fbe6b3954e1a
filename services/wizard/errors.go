package wizard

import "errors"

var (
	// ErrSessionNotFound means no booking state exists under the session id,
	// either because it was never started or its TTL expired.
	ErrSessionNotFound = errors.New("wizard session not found")

	// ErrAlreadySubmitted rejects a submit on a session that already produced
	// an appointment.
	ErrAlreadySubmitted = errors.New("booking already submitted")

	// ErrSubmitInFlight rejects a submit that raced another submit on the
	// same session.
	ErrSubmitInFlight = errors.New("submission already in progress")

	// ErrVerificationInFlight rejects a repeat check of the code currently
	// being verified.
	ErrVerificationInFlight = errors.New("verification already in progress")

	// ErrSendInFlight rejects a repeat send while a code request is pending.
	ErrSendInFlight = errors.New("code request already in progress")

	// ErrIncompleteBooking means the session is missing a job size, date or
	// time slot required by the requested operation.
	ErrIncompleteBooking = errors.New("booking details incomplete")

	// ErrCacheMiss is returned by a StateCache when the key has no value.
	ErrCacheMiss = errors.New("cache miss")
)

// RejectionError carries a business rejection from the dispatch API, surfaced
// to the client as-is. Transport failures are not rejections; those come back
// as dispatchapi sentinel errors.
type RejectionError struct {
	Msg string
}

func (e *RejectionError) Error() string { return e.Msg }

// rejection wraps a dispatch API message, substituting a fallback when the
// upstream did not say anything useful.
func rejection(msg, fallback string) error {
	if msg == "" {
		msg = fallback
	}
	return &RejectionError{Msg: msg}
}
