// Package testing provides test utilities and helpers for formz hosts.
package testing

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/zoobzio/formz"
)

// WaitFor polls a condition until it returns true or timeout is reached.
// Returns true if the condition was met, false if timeout occurred.
func WaitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

// WaitForIdle waits until the host's aggregate is no longer busy.
func WaitForIdle(t *testing.T, h *formz.Host, timeout time.Duration) bool {
	t.Helper()
	return WaitFor(t, timeout, func() bool {
		return !h.State().Busy()
	})
}

// RequireErrors fails the test immediately if the host's aggregate errors
// differ from want.
func RequireErrors(t *testing.T, h *formz.Host, want formz.HostErrors) {
	t.Helper()
	if got := h.State().Errors(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected errors %v, got %v", want, got)
	}
}

// RequireValue fails the test if the named source does not hold want.
func RequireValue(t *testing.T, h *formz.Host, name string, want any) {
	t.Helper()
	props, ok := h.SourceProps(name)
	if !ok {
		t.Fatalf("expected source %q to be registered", name)
	}
	if !reflect.DeepEqual(props.Value, want) {
		t.Fatalf("expected %s = %v, got %v", name, want, props.Value)
	}
}

// NewTestHost creates a sync-mode host that is closed when the test ends.
func NewTestHost(t *testing.T, opts ...formz.Option) *formz.Host {
	t.Helper()
	h := formz.New(append([]formz.Option{formz.WithSyncMode()}, opts...)...)
	t.Cleanup(h.Close)
	return h
}

// Call is a validator invocation held by a GatedValidator.
type Call struct {
	Name  string
	Value any
	reply chan result
}

type result struct {
	errs []string
	err  error
}

// Respond releases the call with the given outcome.
func (c Call) Respond(errs []string, err error) {
	c.reply <- result{errs: errs, err: err}
}

// GatedValidator holds every validation until the test responds, so tests
// can resolve concurrent validations in any order.
type GatedValidator struct {
	calls chan Call
}

// NewGatedValidator creates a GatedValidator buffering up to 64 pending calls.
func NewGatedValidator() *GatedValidator {
	return &GatedValidator{calls: make(chan Call, 64)}
}

// Validate implements formz.Validator.
func (g *GatedValidator) Validate(ctx context.Context, name string, value any, _ map[string]any) ([]string, error) {
	c := Call{Name: name, Value: value, reply: make(chan result, 1)}
	select {
	case g.calls <- c:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case r := <-c.reply:
		return r.errs, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Next returns the next pending call, failing the test after timeout.
func (g *GatedValidator) Next(t *testing.T, timeout time.Duration) Call {
	t.Helper()
	select {
	case c := <-g.calls:
		return c
	case <-time.After(timeout):
		t.Fatalf("no validator call within %v", timeout)
		return Call{}
	}
}

var _ formz.Validator = (*GatedValidator)(nil)
