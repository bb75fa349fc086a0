package formz

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"golang.org/x/sync/errgroup"
)

// source is a registered source and its debouncer.
type source struct {
	name     string
	state    *State[SourceErrors, any]
	debounce *debouncer
}

// Host aggregates named sources into one host state, debounces their
// updates and validates them asynchronously.
//
// Every mutation runs under a single lock. Emissions are captured while the
// lock is held and delivered, in order, once it is released, so listeners
// may call back into the Host.
type Host struct {
	cfg       config
	validator Validator
	clock     clockz.Clock
	metrics   MetricsProvider

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	sources map[string]*source
	order   []string
	state   *State[HostErrors, map[string]any]
	tokens  map[string]uint64
	seq     uint64

	delivery  delivery
	failures  *failureLog
	inflight  sync.WaitGroup
}

// New creates a Host.
//
// Example:
//
//	host := formz.New(
//	    formz.WithValidator(formz.NewRuleValidator(map[string]string{
//	        "email": "required,email",
//	    })),
//	    formz.WithDebounce(300*time.Millisecond),
//	)
//	email, _ := host.AddSource("email", nil, formz.Debounced())
//	email.Update("a@b.com")
func New(opts ...Option) *Host {
	cfg := config{
		filterCriteria: []any{nil},
		debounce:       DefaultDebounce,
		validator:      NullValidator{},
		clock:          clockz.RealClock,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.id == "" {
		cfg.id = uuid.NewString()
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &Host{
		cfg:       cfg,
		validator: cfg.validator,
		clock:     cfg.clock,
		metrics:   cfg.metrics,
		ctx:       ctx,
		cancel:    cancel,
		sources:   make(map[string]*source),
		state:     newState[HostErrors, map[string]any](nil, cloneHostProps),
		tokens:    make(map[string]uint64),
		failures:  newFailureLog(cfg.historySize),
	}
	h.delivery.idle = sync.NewCond(&h.delivery.mu)
	return h
}

// ID returns the Host identifier used in signals and spans.
func (h *Host) ID() string {
	return h.cfg.id
}

// HasSource reports whether a source is registered under name.
func (h *Host) HasSource(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.sources[name]
	return ok
}

// Sources returns the registered source names in registration order.
func (h *Host) Sources() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.order)
}

// SourceProps returns a snapshot of the named source.
func (h *Host) SourceProps(name string) (SourceProps, bool) {
	h.mu.Lock()
	src, ok := h.sources[name]
	h.mu.Unlock()
	if !ok {
		return SourceProps{}, false
	}
	return src.state.Props(), true
}

// AddSource registers a source whose value starts at defaultValue and
// returns its actions. Without a debounce option, updates are applied
// immediately.
func (h *Host) AddSource(name string, defaultValue any, opts ...SourceOption) (*Source, error) {
	var sc sourceConfig
	for _, opt := range opts {
		opt(&sc)
	}
	delay := sc.debounce
	if sc.useHostRate {
		delay = h.cfg.debounce
	}
	if h.cfg.syncMode {
		delay = 0
	}

	h.mu.Lock()
	if _, ok := h.sources[name]; ok {
		h.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrSourceExists, name)
	}
	src := &source{
		name:  name,
		state: newState[SourceErrors, any](defaultValue, cloneSourceProps),
	}
	if delay > 0 {
		src.debounce = newDebouncer(h.clock, delay, func(value any) {
			h.apply(src, value)
		})
	}
	h.sources[name] = src
	h.order = append(h.order, name)
	h.mu.Unlock()

	capitan.Emit(h.ctx, SourceAdded,
		KeyHost.Field(h.cfg.id),
		KeySource.Field(name),
		KeyDebounce.Field(delay),
	)
	if h.metrics != nil {
		h.metrics.OnSourceAdded(name)
	}

	return &Source{host: h, src: src}, nil
}

// RemoveSource drops the named source. Pending debounced updates are
// discarded and in-flight validations for it no longer affect the Host.
func (h *Host) RemoveSource(name string) {
	h.mu.Lock()
	src, ok := h.sources[name]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(h.sources, name)
	delete(h.tokens, name)
	h.order = slices.DeleteFunc(h.order, func(n string) bool { return n == name })
	h.mu.Unlock()

	if src.debounce != nil {
		src.debounce.stop()
	}

	capitan.Emit(h.ctx, SourceRemoved,
		KeyHost.Field(h.cfg.id),
		KeySource.Field(name),
	)
	if h.metrics != nil {
		h.metrics.OnSourceRemoved(name)
	}
}

// Listen subscribes fn to event on the aggregate state.
func (h *Host) Listen(event Event, fn Listener[HostProps]) (Unsubscribe, error) {
	if !event.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEvent, event)
	}
	return h.state.Subscribe(event, fn), nil
}

// ListenSource subscribes fn to event on the named source.
func (h *Host) ListenSource(name string, event Event, fn Listener[SourceProps]) (Unsubscribe, error) {
	if !event.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEvent, event)
	}
	h.mu.Lock()
	src, ok := h.sources[name]
	h.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("failed to subscribe: %w: %q", ErrUnknownSource, name)
	}
	return src.state.Subscribe(event, fn), nil
}

// State returns read access to the aggregate state.
func (h *Host) State() Reader[HostErrors, map[string]any] {
	return h.state
}

// Init resets every source and applies the value supplied for it, if any.
// A name present in values with a nil value sets the source to nil.
func (h *Host) Init(values map[string]any) {
	h.mu.Lock()
	var out outbox
	for _, name := range h.order {
		src := h.sources[name]
		src.state.Reset()
		if v, ok := values[name]; ok {
			src.state.Update(func(p *SourceProps) { p.Value = v })
		}
		out.add(src.state.capture(EventInit, ""))
	}
	h.failures.reset()
	out.add(h.rebuild().capture(EventInit, ""))
	h.delivery.push(out)
	h.mu.Unlock()

	h.delivery.drain()
}

// Clear resets every source and sets its value to nil.
func (h *Host) Clear() {
	h.mu.Lock()
	var out outbox
	for _, name := range h.order {
		src := h.sources[name]
		src.state.Reset().Update(func(p *SourceProps) { p.Value = nil })
		out.add(src.state.capture(EventClear, ""))
	}
	h.failures.reset()
	out.add(h.rebuild().capture(EventClear, ""))
	h.delivery.push(out)
	h.mu.Unlock()

	h.delivery.drain()
}

// SetErrors replaces the errors of every source with errs[name], clearing
// errors of sources absent from errs.
func (h *Host) SetErrors(errs HostErrors) {
	h.mu.Lock()
	var out outbox
	for _, name := range h.order {
		src := h.sources[name]
		list := errs[name]
		src.state.Update(func(p *SourceProps) { p.Errors = slices.Clone(list) })
		out.add(src.state.capture(EventValidate, ""))
	}
	out.add(h.rebuild().capture(EventValidate, ""))
	h.delivery.push(out)
	h.mu.Unlock()

	h.delivery.drain()
}

// SetBusy sets the busy flag. Without names it overrides the aggregate
// flag only; with names it sets the flag on exactly those sources.
func (h *Host) SetBusy(busy bool, names ...string) {
	h.mu.Lock()
	var out outbox
	if len(names) == 0 {
		h.rebuild().Update(func(p *HostProps) { p.Busy = busy })
		out.add(h.state.capture(EventValidate, ""))
		h.delivery.push(out)
		h.mu.Unlock()
		h.delivery.drain()
		return
	}

	changed := false
	for _, name := range h.order {
		if !slices.Contains(names, name) {
			continue
		}
		src := h.sources[name]
		src.state.Update(func(p *SourceProps) { p.Busy = busy })
		out.add(src.state.capture(EventValidate, ""))
		changed = true
	}
	if changed {
		out.add(h.rebuild().capture(EventValidate, ""))
	}
	h.delivery.push(out)
	h.mu.Unlock()

	h.delivery.drain()
}

// Validate validates every source concurrently and invokes callback, if
// not nil, with the aggregate snapshot once all results are applied.
func (h *Host) Validate(callback func(HostProps)) error {
	return h.validate(callback, "")
}

// ValidateSource validates the named source and invokes callback, if not
// nil, with the aggregate snapshot once the result is applied.
func (h *Host) ValidateSource(name string, callback func(HostProps)) error {
	return h.validate(callback, name)
}

type target struct {
	src   *source
	value any
}

func (h *Host) validate(callback func(HostProps), name string) error {
	h.mu.Lock()
	var targets []target
	if name != "" {
		src, ok := h.sources[name]
		if !ok {
			h.mu.Unlock()
			return fmt.Errorf("failed to validate: %w: %q", ErrUnknownSource, name)
		}
		targets = append(targets, target{src: src, value: src.state.Value()})
	} else {
		for _, n := range h.order {
			src := h.sources[n]
			targets = append(targets, target{src: src, value: src.state.Value()})
		}
	}

	var out outbox
	h.state.Update(func(p *HostProps) { p.Busy = true })
	out.add(h.state.capture(EventValidate, ""))
	values := h.state.Value()
	if values == nil {
		values = map[string]any{}
	}
	h.delivery.push(out)
	h.mu.Unlock()
	h.delivery.drain()

	h.dispatch(func(ctx context.Context) {
		results := h.validateAll(ctx, targets, values)

		h.mu.Lock()
		var out outbox
		for _, n := range h.order {
			src := h.sources[n]
			errs, ok := results[src]
			if !ok {
				continue
			}
			src.state.Update(func(p *SourceProps) { p.Errors = errs })
			out.add(src.state.capture(EventValidate, ""))
		}
		out.add(h.rebuild().capture(EventValidate, name))
		if callback != nil {
			props := h.state.Props()
			out.add(func() { callback(props) })
		}
		h.delivery.push(out)
		h.mu.Unlock()
		h.delivery.drain()
	})
	return nil
}

// validateAll runs the validator over targets, at most
// WithValidationConcurrency at a time.
func (h *Host) validateAll(ctx context.Context, targets []target, values map[string]any) map[*source][]string {
	results := make(map[*source][]string, len(targets))
	var mu sync.Mutex

	var g errgroup.Group
	if h.cfg.concurrency > 0 {
		g.SetLimit(h.cfg.concurrency)
	}
	for _, t := range targets {
		g.Go(func() error {
			errs, err := h.invoke(ctx, t.src.name, t.value, values)
			if err != nil {
				h.recordFailure(t.src.name, err)
				errs = []string{FailureMarker}
			}
			mu.Lock()
			results[t.src] = errs
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // Failures are recorded per source
	return results
}

// apply performs the (debounced) update of src to value and starts its
// validation.
func (h *Host) apply(src *source, value any) {
	h.mu.Lock()
	if h.sources[src.name] != src {
		h.mu.Unlock()
		return
	}
	h.seq++
	token := h.seq
	h.tokens[src.name] = token

	var out outbox
	src.state.Update(func(p *SourceProps) {
		p.Value = value
		p.Busy = true
		p.Touched = true
	})
	out.add(src.state.capture(EventUpdate, ""))
	out.add(h.rebuild().capture(EventUpdate, src.name))
	values := h.state.Value()
	h.delivery.push(out)
	h.mu.Unlock()
	h.delivery.drain()

	capitan.Emit(h.ctx, SourceUpdated,
		KeyHost.Field(h.cfg.id),
		KeySource.Field(src.name),
		KeyToken.Field(int(token)), //nolint:gosec // Token counts updates
	)
	if h.metrics != nil {
		h.metrics.OnUpdate(src.name)
	}

	h.dispatch(func(ctx context.Context) {
		errs, err := h.invoke(ctx, src.name, value, values)
		h.settle(src, token, errs, err)
	})
}

// settle applies a validation result unless a newer update has been issued
// for the source since token.
func (h *Host) settle(src *source, token uint64, errs []string, err error) {
	h.mu.Lock()
	if h.sources[src.name] != src || h.tokens[src.name] != token {
		h.mu.Unlock()
		capitan.Emit(h.ctx, ValidationDiscarded,
			KeyHost.Field(h.cfg.id),
			KeySource.Field(src.name),
			KeyToken.Field(int(token)), //nolint:gosec // Token counts updates
		)
		if err != nil {
			h.recordFailure(src.name, err)
		}
		if h.metrics != nil {
			h.metrics.OnStaleResult(src.name)
		}
		return
	}

	if err != nil {
		errs = []string{FailureMarker}
	}
	var out outbox
	src.state.Update(func(p *SourceProps) {
		p.Errors = errs
		p.Busy = false
	})
	out.add(src.state.capture(EventUpdate, ""))
	out.add(h.rebuild().capture(EventUpdate, src.name))
	h.delivery.push(out)
	h.mu.Unlock()

	if err != nil {
		h.recordFailure(src.name, err)
	}
	h.delivery.drain()
}

// invoke runs the validator inside a span, turning panics into errors.
func (h *Host) invoke(ctx context.Context, name string, value any, values map[string]any) (errs []string, err error) {
	ctx, span := startValidateSpan(ctx, h.cfg.id, name)
	start := h.clock.Now()
	defer func() {
		if r := recover(); r != nil {
			errs, err = nil, fmt.Errorf("validator panicked: %v", r)
		}
		endValidateSpan(span, errs, err)
		if h.metrics != nil {
			h.metrics.OnValidation(name, h.clock.Since(start), err != nil)
		}
	}()
	return h.validator.Validate(ctx, name, value, values)
}

// recordFailure stores a validator failure and emits ValidationFailed.
func (h *Host) recordFailure(name string, err error) {
	f := &ValidationFailure{Source: name, Err: err}
	h.failures.record(f)
	capitan.Emit(h.ctx, ValidationFailed,
		KeyHost.Field(h.cfg.id),
		KeySource.Field(name),
		KeyError.Field(err.Error()),
	)
}

// dispatch runs fn inline in sync mode, otherwise on a tracked goroutine.
func (h *Host) dispatch(fn func(ctx context.Context)) {
	if h.cfg.syncMode {
		fn(h.ctx)
		return
	}
	h.inflight.Add(1)
	go func() {
		defer h.inflight.Done()
		fn(h.ctx)
	}()
}

// LastError returns the most recent validator failure since the last Init
// or Clear, or nil.
func (h *Host) LastError() error {
	return h.failures.last()
}

// ErrorHistory returns recent validator failures since the last Init or
// Clear, oldest first. Returns nil unless WithErrorHistory was set.
func (h *Host) ErrorHistory() []error {
	return h.failures.history()
}

// Wait blocks until all in-flight validations have completed and their
// emissions have been delivered. Updates still inside their debounce
// window are not waited for. Wait must not be called from a listener.
func (h *Host) Wait() {
	h.inflight.Wait()
	h.delivery.wait()
}

// Close cancels in-flight validations, discards pending debounced updates
// and waits for running validators to return.
func (h *Host) Close() {
	h.cancel()
	h.mu.Lock()
	for _, src := range h.sources {
		if src.debounce != nil {
			src.debounce.stop()
		}
	}
	h.mu.Unlock()
	h.inflight.Wait()
}
