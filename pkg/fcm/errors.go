package fcm

import (
	"errors"
	"fmt"
)

// ErrInvalidPayload is returned when a message carries none of notification,
// data or apns. Such a message is never sent.
var ErrInvalidPayload = errors.New("fcm: message requires at least one of notification, data or apns")

// NetworkError wraps a transport-level failure: building or sending the
// request, or reading the response body. Usually transient.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fcm: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError reports a non-2xx response from the messaging endpoint. The
// response body is captured for diagnostics; retryability depends on the
// status code and is the caller's call.
type ServerError struct {
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("fcm: server returned status %d: %s", e.StatusCode, e.Body)
}

// SerializationError wraps a failure converting the data payload or APNs
// config to JSON. Not retryable without fixing the input.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("fcm: serialize payload: %v", e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// TokenError wraps a failure propagated from the TokenSource.
type TokenError struct {
	Err error
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("fcm: acquire access token: %v", e.Err)
}

func (e *TokenError) Unwrap() error { return e.Err }
