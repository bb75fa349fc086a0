package formz

import "fmt"

// Source is the action bundle returned by AddSource. Once the source is
// removed from its Host, every action is a no-op.
type Source struct {
	host *Host
	src  *source
}

// Name returns the source name.
func (s *Source) Name() string {
	return s.src.name
}

// Props returns a snapshot of the source.
func (s *Source) Props() SourceProps {
	return s.src.state.Props()
}

// Listen subscribes fn to event on this source.
func (s *Source) Listen(event Event, fn Listener[SourceProps]) (Unsubscribe, error) {
	if !event.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEvent, event)
	}
	return s.src.state.Subscribe(event, fn), nil
}

// Update marks the Host busy at once, then applies value after the
// source's debounce window. Only the last value of a burst is applied.
func (s *Source) Update(value any) {
	if !s.registered() {
		return
	}

	// The Host stays busy until the debounced update and its validation settle.
	s.host.SetBusy(true)

	if s.src.debounce != nil {
		s.src.debounce.call(value)
		return
	}
	s.host.apply(s.src, value)
}

// SetBusy sets the busy flag of this source.
func (s *Source) SetBusy(busy bool) {
	if !s.registered() {
		return
	}
	s.host.SetBusy(busy, s.src.name)
}

// SetErrors replaces the errors of this source. Other sources keep theirs.
func (s *Source) SetErrors(errs []string) {
	h := s.host
	h.mu.Lock()
	if h.sources[s.src.name] != s.src {
		h.mu.Unlock()
		return
	}
	var out outbox
	s.src.state.Update(func(p *SourceProps) { p.Errors = append([]string(nil), errs...) })
	out.add(s.src.state.capture(EventValidate, ""))
	out.add(h.rebuild().capture(EventValidate, s.src.name))
	h.delivery.push(out)
	h.mu.Unlock()

	h.delivery.drain()
}

// Init resets this source to value without debouncing or validation and
// emits init on the source and on the Host.
func (s *Source) Init(value any) {
	h := s.host
	h.mu.Lock()
	if h.sources[s.src.name] != s.src {
		h.mu.Unlock()
		return
	}
	var out outbox
	s.src.state.Reset().Update(func(p *SourceProps) { p.Value = value })
	out.add(s.src.state.capture(EventInit, ""))
	out.add(h.rebuild().capture(EventInit, s.src.name))
	h.delivery.push(out)
	h.mu.Unlock()

	h.delivery.drain()
}

func (s *Source) registered() bool {
	s.host.mu.Lock()
	defer s.host.mu.Unlock()
	return s.host.sources[s.src.name] == s.src
}
