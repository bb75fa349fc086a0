package formz

import (
	"time"

	"github.com/zoobzio/clockz"
)

// DefaultDebounce is the interval used by sources added with Debounced().
const DefaultDebounce = 500 * time.Millisecond

// config holds configuration options for a Host.
type config struct {
	id             string
	filterCriteria []any
	debounce       time.Duration
	validator      Validator
	clock          clockz.Clock
	syncMode       bool
	metrics        MetricsProvider
	historySize    int
	concurrency    int
}

// Option configures a Host.
type Option func(*config)

// WithFilterCriteria sets the values excluded from the aggregate value map.
// Default: nil only.
func WithFilterCriteria(values ...any) Option {
	return func(c *config) {
		c.filterCriteria = append([]any(nil), values...)
	}
}

// WithDebounce sets the interval used by sources added with Debounced().
// Default: 500ms.
func WithDebounce(d time.Duration) Option {
	return func(c *config) {
		c.debounce = d
	}
}

// WithValidator sets the validator invoked after updates and on Validate.
// Default: NullValidator.
func WithValidator(v Validator) Option {
	return func(c *config) {
		c.validator = v
	}
}

// WithClock sets a custom clock for debounce timers.
// Use this with clockz.FakeClock for deterministic debounce testing.
func WithClock(clock clockz.Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithSyncMode enables synchronous processing for testing.
// In sync mode, updates are applied immediately without debouncing and
// validators run inline, so every operation has completed on return.
func WithSyncMode() Option {
	return func(c *config) {
		c.syncMode = true
	}
}

// WithMetrics sets a metrics provider for observability integration.
func WithMetrics(provider MetricsProvider) Option {
	return func(c *config) {
		c.metrics = provider
	}
}

// WithErrorHistory sets the number of recent validator failures to retain.
// When set, ErrorHistory() returns up to this many recent failures.
// Use 0 (default) to only retain the most recent failure via LastError().
func WithErrorHistory(n int) Option {
	return func(c *config) {
		c.historySize = n
	}
}

// WithValidationConcurrency limits how many validator calls a single
// Validate pass runs at once. Use 0 (default) for no limit.
func WithValidationConcurrency(n int) Option {
	return func(c *config) {
		c.concurrency = n
	}
}

// WithID sets the identifier attached to the Host's signals and spans.
// Default: a random UUID.
func WithID(id string) Option {
	return func(c *config) {
		c.id = id
	}
}

// sourceConfig holds per-source options.
type sourceConfig struct {
	debounce    time.Duration
	useHostRate bool
}

// SourceOption configures a source added with AddSource.
type SourceOption func(*sourceConfig)

// Debounced debounces the source's updates by the Host's interval
// (see WithDebounce).
func Debounced() SourceOption {
	return func(c *sourceConfig) {
		c.useHostRate = true
	}
}

// DebounceFor debounces the source's updates by d. A non-positive d
// applies updates immediately.
func DebounceFor(d time.Duration) SourceOption {
	return func(c *sourceConfig) {
		c.useHostRate = false
		c.debounce = d
	}
}
