package cooling

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingObservation is returned when the rate constant is requested
	// without an observed temperature and the time it was taken.
	ErrMissingObservation = errors.New("missing observed temperature or observation time")

	ErrZeroObservationTime = errors.New("observation time must be non-zero")

	// ErrNonPositiveRatio means (T_obs - Tamb)/(T0 - Tamb) <= 0: the observation
	// is on the other side of ambient from the start, or the body started at
	// ambient temperature.
	ErrNonPositiveRatio = errors.New("temperature ratio must be positive")

	ErrNonFinite = errors.New("value must be finite")

	// ErrUnreachable is returned when a target temperature is never attained.
	ErrUnreachable = errors.New("target temperature is never reached")
)

// ValidationError names the input field that made a computation impossible.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("cooling: invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
