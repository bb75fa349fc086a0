package formz

import "github.com/zoobzio/capitan"

// Field keys for Host events.
var (
	// KeyHost is the ID of the Host emitting the event.
	KeyHost = capitan.NewStringKey("host")

	// KeySource is the name of the source the event concerns.
	KeySource = capitan.NewStringKey("source")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyDebounce is the debounce interval configured for a source.
	KeyDebounce = capitan.NewDurationKey("debounce")

	// KeyToken is the staleness token of a validation request.
	KeyToken = capitan.NewIntKey("token")
)
