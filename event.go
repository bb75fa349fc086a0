package formz

import "fmt"

// Event identifies a kind of state notification.
type Event int32

const (
	// EventAny is the wildcard event. Listeners subscribed to it receive
	// every emission regardless of the emitted event.
	EventAny Event = iota

	// EventInit is emitted when sources are (re)initialized.
	EventInit

	// EventClear is emitted when sources are cleared.
	EventClear

	// EventUpdate is emitted when a source value is applied and again when
	// its validation completes.
	EventUpdate

	// EventValidate is emitted when errors or busy flags are set, and when
	// an explicit validation pass completes.
	EventValidate
)

// String returns the wire name of the event.
func (e Event) String() string {
	switch e {
	case EventAny:
		return "*"
	case EventInit:
		return "init"
	case EventClear:
		return "clear"
	case EventUpdate:
		return "update"
	case EventValidate:
		return "validate"
	default:
		return "unknown"
	}
}

// Valid reports whether e is one of the defined events.
func (e Event) Valid() bool {
	return e >= EventAny && e <= EventValidate
}

// ParseEvent converts a wire name ("*", "init", "clear", "update",
// "validate") into an Event.
func ParseEvent(s string) (Event, error) {
	switch s {
	case "*":
		return EventAny, nil
	case "init":
		return EventInit, nil
	case "clear":
		return EventClear, nil
	case "update":
		return EventUpdate, nil
	case "validate":
		return EventValidate, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownEvent, s)
	}
}
