// Package formz aggregates independently updated named sources, such as
// form fields, into one reactive host state.
//
// # State
//
// A State holds an immutable snapshot of one entity:
//
//	type Props[E, V any] struct {
//	    Value   V
//	    Errors  E
//	    Touched bool
//	    Busy    bool
//	}
//
// Update and Reset replace the snapshot as a unit without notifying
// anybody; Emit notifies the listeners of one Event plus the wildcard
// listeners (EventAny). Listeners receive copies.
//
// # Host
//
// A Host owns one State per source and an aggregate State whose value is
// the map of source values (minus filtered values, nil by default), whose
// Touched and Busy flags are the OR of the sources' flags, and whose
// Errors contain only the sources that have errors:
//
//	host := formz.New(formz.WithValidator(validator))
//	email, err := host.AddSource("email", nil, formz.Debounced())
//	if err != nil {
//	    return err
//	}
//	host.Listen(formz.EventUpdate, func(p formz.HostProps, _ formz.Event, source string) {
//	    render(p)
//	})
//	email.Update("a@b.com")
//
// Host listeners are called one at a time, in the order the snapshots were
// taken, even when updates settle on different goroutines. A listener may
// call back into the Host; the emissions of that call are delivered after
// the listener returns.
//
// # Updates and validation
//
// Source.Update marks the Host busy at once, waits for the source's
// debounce window, applies the last value, and runs the Validator on a
// goroutine. Every applied update issues a new token for the source; a
// validation result whose token is no longer current is discarded, so a
// slow response can never overwrite the outcome of a newer value.
//
// If the Validator returns an error or panics, the source's errors become
// []string{FailureMarker} and the failure is reported via the
// ValidationFailed signal, LastError and ErrorHistory.
//
// # Watchers
//
// Bind feeds a source from a Watcher (ChannelWatcher, FileWatcher),
// decoding each payload with a Codec.
//
// # Observability
//
// Hosts emit capitan signals (see signals.go), call an optional
// MetricsProvider (pkg/prometheus provides one), and wrap each validator
// call in an OpenTelemetry span.
package formz
