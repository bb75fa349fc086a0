package formz

import (
	"context"
	"sync"
	"testing"
	"time"
)

// waitFor polls condition until it holds or timeout elapses.
func waitFor(t *testing.T, timeout time.Duration, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timeout waiting for condition")
}

// gateCall is one validator invocation held until the test replies.
type gateCall struct {
	name  string
	value any
	reply chan gateReply
}

type gateReply struct {
	errs []string
	err  error
}

func (c gateCall) respond(errs []string, err error) {
	c.reply <- gateReply{errs: errs, err: err}
}

// gatedValidator blocks every call until the test responds to it.
type gatedValidator struct {
	calls chan gateCall
}

func newGatedValidator() *gatedValidator {
	return &gatedValidator{calls: make(chan gateCall, 16)}
}

func (g *gatedValidator) Validate(ctx context.Context, name string, value any, _ map[string]any) ([]string, error) {
	call := gateCall{name: name, value: value, reply: make(chan gateReply, 1)}
	g.calls <- call
	select {
	case r := <-call.reply:
		return r.errs, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (g *gatedValidator) next(t *testing.T) gateCall {
	t.Helper()
	select {
	case c := <-g.calls:
		return c
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for validator call")
		return gateCall{}
	}
}

// metricsRecorder counts MetricsProvider callbacks.
type metricsRecorder struct {
	mu          sync.Mutex
	added       []string
	removed     []string
	updates     int
	validations int
	failures    int
	stale       int
}

func (m *metricsRecorder) OnSourceAdded(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.added = append(m.added, name)
}

func (m *metricsRecorder) OnSourceRemoved(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, name)
}

func (m *metricsRecorder) OnUpdate(_ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
}

func (m *metricsRecorder) OnValidation(_ string, _ time.Duration, failed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validations++
	if failed {
		m.failures++
	}
}

func (m *metricsRecorder) OnStaleResult(_ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stale++
}

func (m *metricsRecorder) staleCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stale
}

func (m *metricsRecorder) updateCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updates
}

// emission is one listener delivery.
type emission struct {
	event  Event
	issuer string
}

// recorder collects listener deliveries.
type recorder[P any] struct {
	mu    sync.Mutex
	seen  []emission
	props []P
}

func (r *recorder[P]) listen(p P, event Event, issuer string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, emission{event: event, issuer: issuer})
	r.props = append(r.props, p)
}

func (r *recorder[P]) emissions() []emission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]emission(nil), r.seen...)
}

func (r *recorder[P]) last() P {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero P
	if len(r.props) == 0 {
		return zero
	}
	return r.props[len(r.props)-1]
}

func (r *recorder[P]) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}
