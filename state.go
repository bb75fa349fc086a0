package formz

import "sync"

// Props is an immutable snapshot of a state container.
//
// The zero value of E (a nil slice or map) means no errors are recorded.
type Props[E, V any] struct {
	Value   V    `json:"value"`
	Errors  E    `json:"errors"`
	Touched bool `json:"touched"`
	Busy    bool `json:"busy"`
}

// Listener receives a snapshot copy, the emitted event and the issuer tag.
// The issuer is empty unless the Host attributes the emission to a source.
type Listener[P any] func(props P, event Event, issuer string)

// Unsubscribe removes a listener. Calling it more than once is a no-op.
type Unsubscribe func()

// Reader is read access to a state container.
type Reader[E, V any] interface {
	Value() V
	Errors() E
	Touched() bool
	Busy() bool
	Props() Props[E, V]
	Subscribe(event Event, fn Listener[Props[E, V]]) Unsubscribe
}

type subscription[E, V any] struct {
	id uint64
	fn Listener[Props[E, V]]
}

// State holds the snapshot of one entity and the listeners interested in it.
// Update and Reset never notify; callers Emit explicitly so that several
// mutations can be batched into one notification.
type State[E, V any] struct {
	defaultValue V
	clone        func(Props[E, V]) Props[E, V]

	mu        sync.RWMutex
	props     Props[E, V]
	listeners map[Event][]subscription[E, V]
	nextID    uint64
}

// NewState creates a container whose value starts at, and resets to,
// defaultValue.
func NewState[E, V any](defaultValue V) *State[E, V] {
	return newState[E, V](defaultValue, nil)
}

// newState creates a container with a custom snapshot copier. The copier
// is applied to every snapshot that leaves the container.
func newState[E, V any](defaultValue V, clone func(Props[E, V]) Props[E, V]) *State[E, V] {
	return &State[E, V]{
		defaultValue: defaultValue,
		clone:        clone,
		props:        Props[E, V]{Value: defaultValue},
		listeners:    make(map[Event][]subscription[E, V]),
	}
}

// Value returns the current value.
func (s *State[E, V]) Value() V {
	return s.Props().Value
}

// Errors returns the current errors.
func (s *State[E, V]) Errors() E {
	return s.Props().Errors
}

// Touched reports whether a value update has been applied since the last reset.
func (s *State[E, V]) Touched() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.props.Touched
}

// Busy reports whether an update or validation is in flight.
func (s *State[E, V]) Busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.props.Busy
}

// Props returns a copy of the current snapshot.
func (s *State[E, V]) Props() Props[E, V] {
	s.mu.RLock()
	p := s.props
	s.mu.RUnlock()
	return s.copy(p)
}

// Subscribe registers fn for event. Listeners of the same event run in
// registration order.
func (s *State[E, V]) Subscribe(event Event, fn Listener[Props[E, V]]) Unsubscribe {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners[event] = append(s.listeners[event], subscription[E, V]{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		subs := s.listeners[event]
		for i, sub := range subs {
			if sub.id == id {
				s.listeners[event] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Update applies fn to a copy of the snapshot and replaces the snapshot
// with the result.
func (s *State[E, V]) Update(fn func(*Props[E, V])) *State[E, V] {
	s.mu.Lock()
	next := s.props
	fn(&next)
	s.props = next
	s.mu.Unlock()
	return s
}

// Reset restores the default value and clears errors, touched and busy.
func (s *State[E, V]) Reset() *State[E, V] {
	s.mu.Lock()
	s.props = Props[E, V]{Value: s.defaultValue}
	s.mu.Unlock()
	return s
}

// Emit synchronously notifies the listeners of event followed by the
// wildcard listeners.
func (s *State[E, V]) Emit(event Event, issuer string) {
	s.capture(event, issuer)()
}

// capture freezes the current snapshot and listener set for event and
// returns a function that delivers them. The Host captures while it holds
// its lock and delivers after releasing it.
func (s *State[E, V]) capture(event Event, issuer string) func() {
	s.mu.RLock()
	props := s.props
	groups := [][]subscription[E, V]{s.listeners[event]}
	if event != EventAny {
		groups = append(groups, s.listeners[EventAny])
	}
	var subs []subscription[E, V]
	for _, g := range groups {
		subs = append(subs, g...)
	}
	s.mu.RUnlock()

	return func() {
		for _, sub := range subs {
			sub.fn(s.copy(props), event, issuer)
		}
	}
}

func (s *State[E, V]) copy(p Props[E, V]) Props[E, V] {
	if s.clone == nil {
		return p
	}
	return s.clone(p)
}
