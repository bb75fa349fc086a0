package formz

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestState_InitialProps(t *testing.T) {
	s := NewState[[]string, string]("default")

	want := Props[[]string, string]{Value: "default"}
	if diff := cmp.Diff(want, s.Props()); diff != "" {
		t.Errorf("props mismatch (-want +got):\n%s", diff)
	}
}

func TestState_UpdateMergesWithoutNotifying(t *testing.T) {
	s := NewState[[]string, string]("")
	calls := 0
	s.Subscribe(EventAny, func(Props[[]string, string], Event, string) { calls++ })

	s.Update(func(p *Props[[]string, string]) { p.Value = "a" })
	s.Update(func(p *Props[[]string, string]) { p.Busy = true })

	if s.Value() != "a" {
		t.Errorf("expected value a, got %q", s.Value())
	}
	if !s.Busy() {
		t.Error("expected busy to survive a later partial update")
	}
	if calls != 0 {
		t.Errorf("expected no notifications, got %d", calls)
	}
}

func TestState_ResetRestoresDefaults(t *testing.T) {
	s := NewState[[]string, string]("default")
	s.Update(func(p *Props[[]string, string]) {
		p.Value = "changed"
		p.Errors = []string{"bad"}
		p.Touched = true
		p.Busy = true
	})

	s.Reset()

	want := Props[[]string, string]{Value: "default"}
	if diff := cmp.Diff(want, s.Props()); diff != "" {
		t.Errorf("props mismatch (-want +got):\n%s", diff)
	}
	if s.Errors() != nil {
		t.Errorf("expected nil errors, got %v", s.Errors())
	}
}

func TestState_UpdateChainsIntoEmit(t *testing.T) {
	s := NewState[[]string, int](0)
	var got int
	s.Subscribe(EventUpdate, func(p Props[[]string, int], _ Event, _ string) { got = p.Value })

	s.Update(func(p *Props[[]string, int]) { p.Value = 42 }).Emit(EventUpdate, "")

	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}

func TestState_EmitOrder(t *testing.T) {
	s := NewState[[]string, int](0)
	var order []string
	s.Subscribe(EventAny, func(Props[[]string, int], Event, string) { order = append(order, "any") })
	s.Subscribe(EventUpdate, func(Props[[]string, int], Event, string) { order = append(order, "update-1") })
	s.Subscribe(EventInit, func(Props[[]string, int], Event, string) { order = append(order, "init") })
	s.Subscribe(EventUpdate, func(Props[[]string, int], Event, string) { order = append(order, "update-2") })

	s.Emit(EventUpdate, "")

	want := []string{"update-1", "update-2", "any"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestState_EmitWildcardOnce(t *testing.T) {
	s := NewState[[]string, int](0)
	calls := 0
	s.Subscribe(EventAny, func(Props[[]string, int], Event, string) { calls++ })

	s.Emit(EventAny, "")

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestState_EmitPassesEventAndIssuer(t *testing.T) {
	s := NewState[[]string, int](0)
	var gotEvent Event
	var gotIssuer string
	s.Subscribe(EventAny, func(_ Props[[]string, int], e Event, issuer string) {
		gotEvent = e
		gotIssuer = issuer
	})

	s.Emit(EventClear, "email")

	if gotEvent != EventClear {
		t.Errorf("expected clear, got %s", gotEvent)
	}
	if gotIssuer != "email" {
		t.Errorf("expected issuer email, got %q", gotIssuer)
	}
}

func TestState_Unsubscribe(t *testing.T) {
	s := NewState[[]string, int](0)
	first, second := 0, 0
	unsubscribe := s.Subscribe(EventUpdate, func(Props[[]string, int], Event, string) { first++ })
	s.Subscribe(EventUpdate, func(Props[[]string, int], Event, string) { second++ })

	unsubscribe()
	unsubscribe()
	s.Emit(EventUpdate, "")

	if first != 0 {
		t.Errorf("expected removed listener not to run, ran %d times", first)
	}
	if second != 1 {
		t.Errorf("expected remaining listener to run once, ran %d times", second)
	}
}

func TestState_UnsubscribeSameFunctionTwice(t *testing.T) {
	s := NewState[[]string, int](0)
	calls := 0
	fn := func(Props[[]string, int], Event, string) { calls++ }
	unsubscribe := s.Subscribe(EventUpdate, fn)
	s.Subscribe(EventUpdate, fn)

	unsubscribe()
	s.Emit(EventUpdate, "")

	if calls != 1 {
		t.Errorf("expected exactly one registration removed, got %d calls", calls)
	}
}

func TestState_PropsIsACopy(t *testing.T) {
	s := newState[SourceErrors, any](nil, cloneSourceProps)
	s.Update(func(p *SourceProps) { p.Errors = []string{"required"} })

	p := s.Props()
	p.Errors[0] = "mutated"
	p.Value = "mutated"

	if s.Errors()[0] != "required" {
		t.Errorf("expected internal errors untouched, got %v", s.Errors())
	}
	if s.Value() != nil {
		t.Errorf("expected internal value untouched, got %v", s.Value())
	}
}

func TestState_ListenerReceivesCopy(t *testing.T) {
	s := newState[HostErrors, map[string]any](nil, cloneHostProps)
	s.Update(func(p *HostProps) {
		p.Value = map[string]any{"email": "a@b.com"}
		p.Errors = HostErrors{"email": {"taken"}}
	})
	s.Subscribe(EventAny, func(p HostProps, _ Event, _ string) {
		p.Value["email"] = "mutated"
		p.Errors["email"][0] = "mutated"
	})

	s.Emit(EventValidate, "")

	if s.Value()["email"] != "a@b.com" {
		t.Errorf("expected value untouched, got %v", s.Value()["email"])
	}
	if s.Errors()["email"][0] != "taken" {
		t.Errorf("expected errors untouched, got %v", s.Errors()["email"])
	}
}

func TestState_ListenerMayReenter(t *testing.T) {
	s := NewState[[]string, int](0)
	s.Subscribe(EventUpdate, func(p Props[[]string, int], _ Event, _ string) {
		if p.Value < 3 {
			s.Update(func(next *Props[[]string, int]) { next.Value = p.Value + 1 }).Emit(EventUpdate, "")
		}
	})

	s.Update(func(p *Props[[]string, int]) { p.Value = 1 }).Emit(EventUpdate, "")

	if s.Value() != 3 {
		t.Errorf("expected 3, got %d", s.Value())
	}
}
