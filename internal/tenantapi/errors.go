package tenantapi

import "fmt"

// NetworkError is a transport-level failure (connection refused, timeout).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// StatusError is a non-2xx response from the tenant API. A 401 has
// already cleared the session by the time the caller sees it.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Code)
}

// DecodeError is a malformed response body.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding error: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
