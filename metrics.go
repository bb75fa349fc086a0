package formz

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus, StatsD, etc.
// Implement this interface to receive callbacks on key Host events.
type MetricsProvider interface {
	// OnSourceAdded is called when a source is registered.
	OnSourceAdded(name string)

	// OnSourceRemoved is called when a source is removed.
	OnSourceRemoved(name string)

	// OnUpdate is called when a value update is applied to a source.
	OnUpdate(name string)

	// OnValidation is called after each validator invocation. failed is
	// true when the validator returned an error or panicked.
	OnValidation(name string, duration time.Duration, failed bool)

	// OnStaleResult is called when a validation result is discarded
	// because a newer update was issued for the same source.
	OnStaleResult(name string)
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnSourceAdded(_ string)                         {}
func (NoOpMetricsProvider) OnSourceRemoved(_ string)                       {}
func (NoOpMetricsProvider) OnUpdate(_ string)                              {}
func (NoOpMetricsProvider) OnValidation(_ string, _ time.Duration, _ bool) {}
func (NoOpMetricsProvider) OnStaleResult(_ string)                         {}
