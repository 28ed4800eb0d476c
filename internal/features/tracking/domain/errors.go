package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTrackingNumber is returned when a search is attempted with a
	// blank tracking number. No network call is made in that case.
	ErrEmptyTrackingNumber = errors.New("tracking number is required")
	// ErrNoLiveEndpoint is returned by OpenLiveChannel when no streaming
	// endpoint is configured. Callers fall back to polling.
	ErrNoLiveEndpoint = errors.New("no live update endpoint configured")
)

// TransportError carries a non-success backend response. Its message is the
// response body when one was returned.
type TransportError struct {
	// StatusCode is the HTTP status of the failed response.
	StatusCode int
	// Body is the response body text, possibly empty.
	Body string
}

// Error returns the body text, or a generic message when the body is empty.
func (e *TransportError) Error() string {
	if e.Body != "" {
		return e.Body
	}
	return fmt.Sprintf("failed to fetch shipment: status %d", e.StatusCode)
}
