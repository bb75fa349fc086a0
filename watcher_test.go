package formz

import (
	"context"
	"testing"
	"time"
)

func TestChannelWatcher_Forwards(t *testing.T) {
	ch := make(chan []byte, 2)
	ch <- []byte("a")
	ch <- []byte("b")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out, err := NewChannelWatcher(ch).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	for _, want := range []string{"a", "b"} {
		select {
		case got := <-out:
			if string(got) != want {
				t.Errorf("expected %q, got %q", want, got)
			}
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for %q", want)
		}
	}
}

func TestChannelWatcher_ClosesWithSource(t *testing.T) {
	ch := make(chan []byte)
	close(ch)

	out, err := NewChannelWatcher(ch).Watch(context.Background())
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	select {
	case _, ok := <-out:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for close")
	}
}

func TestChannelWatcher_ClosesOnCancel(t *testing.T) {
	ch := make(chan []byte)
	ctx, cancel := context.WithCancel(context.Background())

	out, err := NewChannelWatcher(ch).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	cancel()

	select {
	case _, ok := <-out:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for close")
	}
}
