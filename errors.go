package formz

import (
	"errors"
	"fmt"
)

// FailureMarker is the error entry recorded on a source when its validator
// fails instead of producing a result.
const FailureMarker = "🤒"

var (
	// ErrSourceExists is returned when registering a name that is already taken.
	ErrSourceExists = errors.New("source already registered")

	// ErrUnknownSource is returned when an operation names an unregistered source.
	ErrUnknownSource = errors.New("unknown source")

	// ErrUnknownEvent is returned when subscribing to an event outside the
	// defined set.
	ErrUnknownEvent = errors.New("unknown event")
)

// ValidationFailure describes a validator that failed for a source.
type ValidationFailure struct {
	Source string
	Err    error
}

func (f *ValidationFailure) Error() string {
	return fmt.Sprintf("validation of source %q failed: %v", f.Source, f.Err)
}

func (f *ValidationFailure) Unwrap() error {
	return f.Err
}
