package dispatchapi

import "errors"

var (
	// ErrInternal is returned for client-side failures (request building,
	// encoding).
	ErrInternal = errors.New("dispatchapi client: internal error")

	// ErrTransport is returned when the platform cannot be reached or
	// answers with a non-2xx status. Callers surface these as retryable.
	ErrTransport = errors.New("dispatchapi client: transport error")

	// ErrInvalidResponse is returned when a 2xx response body cannot be
	// decoded.
	ErrInvalidResponse = errors.New("dispatchapi client: invalid response")
)
