package formz

import "github.com/zoobzio/capitan"

// Source lifecycle signals.
var (
	// SourceAdded is emitted when a source is registered with a Host.
	SourceAdded = capitan.NewSignal(
		"formz.source.added",
		"Source registered",
	)

	// SourceRemoved is emitted when a source is removed from a Host.
	SourceRemoved = capitan.NewSignal(
		"formz.source.removed",
		"Source removed",
	)

	// SourceUpdated is emitted when a (debounced) value update is applied.
	SourceUpdated = capitan.NewSignal(
		"formz.source.updated",
		"Source value applied",
	)
)

// Validation signals.
var (
	// ValidationFailed is emitted when a validator fails to produce a result.
	ValidationFailed = capitan.NewSignal(
		"formz.validation.failed",
		"Validator failed",
	)

	// ValidationDiscarded is emitted when a validation result is dropped
	// because a newer update superseded it.
	ValidationDiscarded = capitan.NewSignal(
		"formz.validation.discarded",
		"Stale validation result discarded",
	)
)

// Watcher signals.
var (
	// WatcherDecodeFailed is emitted when bytes from a bound watcher cannot
	// be decoded.
	WatcherDecodeFailed = capitan.NewSignal(
		"formz.watcher.decode.failed",
		"Watcher payload could not be decoded",
	)
)
