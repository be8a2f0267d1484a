package locate

import "fmt"

type Reason int

const (
	ReasonUnavailable Reason = iota
	ReasonPermissionDenied
	ReasonTimeout
)

func (r Reason) String() string {
	switch r {
	case ReasonPermissionDenied:
		return "permission denied"
	case ReasonTimeout:
		return "timeout"
	default:
		return "position unavailable"
	}
}

// LocationError is returned when the device position cannot be acquired.
type LocationError struct {
	Reason Reason
	Err    error
}

func (e *LocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geolocation failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("geolocation failed: %s", e.Reason)
}

func (e *LocationError) Unwrap() error {
	return e.Err
}

func NewLocationError(reason Reason, err error) *LocationError {
	return &LocationError{
		Reason: reason,
		Err:    err,
	}
}
