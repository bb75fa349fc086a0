package formz

import (
	"errors"
	"testing"
)

func failure(msg string) *ValidationFailure {
	return &ValidationFailure{Source: "email", Err: errors.New(msg)}
}

func TestFailureLog_NoHistory(t *testing.T) {
	l := newFailureLog(0)
	f := failure("a")
	l.record(f)

	if l.history() != nil {
		t.Error("expected nil history without a limit")
	}
	if l.last() != error(f) {
		t.Errorf("expected latest failure, got %v", l.last())
	}
}

func TestFailureLog_Empty(t *testing.T) {
	l := newFailureLog(3)
	if got := l.history(); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	if got := l.last(); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestFailureLog_DropsOldest(t *testing.T) {
	l := newFailureLog(2)
	a, b, c := failure("a"), failure("b"), failure("c")
	l.record(a)
	l.record(b)
	l.record(c)

	got := l.history()
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0] != error(b) || got[1] != error(c) {
		t.Errorf("expected [b c], got %v", got)
	}
}

func TestFailureLog_Reset(t *testing.T) {
	l := newFailureLog(2)
	l.record(failure("a"))
	l.reset()

	if l.last() != nil || l.history() != nil {
		t.Errorf("expected empty log, got %v / %v", l.last(), l.history())
	}

	b := failure("b")
	l.record(b)
	if got := l.history(); len(got) != 1 || got[0] != error(b) {
		t.Errorf("expected [b], got %v", got)
	}
}

func TestValidationFailure_Error(t *testing.T) {
	f := failure("timeout")
	if f.Error() != `validation of source "email" failed: timeout` {
		t.Errorf("unexpected message %q", f.Error())
	}
	if f.Unwrap().Error() != "timeout" {
		t.Errorf("expected wrapped timeout, got %v", f.Unwrap())
	}
}
