package formz

import (
	"sync"
	"time"

	"github.com/zoobzio/clockz"
)

// debouncer coalesces rapid calls into one trailing invocation of fn with
// the last value, fired once delay has elapsed without a new call.
type debouncer struct {
	clock clockz.Clock
	delay time.Duration
	fn    func(value any)

	mu      sync.Mutex
	pending any
	cancel  chan struct{}
	stopped bool
}

func newDebouncer(clock clockz.Clock, delay time.Duration, fn func(any)) *debouncer {
	return &debouncer{clock: clock, delay: delay, fn: fn}
}

// call records value and restarts the quiet window.
func (d *debouncer) call(value any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.pending = value
	if d.cancel != nil {
		close(d.cancel)
	}
	cancel := make(chan struct{})
	d.cancel = cancel

	timer := d.clock.NewTimer(d.delay)
	go d.wait(timer, cancel)
}

// wait fires fn when timer expires unless the window was restarted or the
// debouncer stopped first.
func (d *debouncer) wait(timer clockz.Timer, cancel chan struct{}) {
	select {
	case <-cancel:
		timer.Stop()
		return
	case <-timer.C():
	}

	d.mu.Lock()
	if d.cancel != cancel {
		// Restarted between expiry and here.
		d.mu.Unlock()
		return
	}
	value := d.pending
	d.pending = nil
	d.cancel = nil
	d.mu.Unlock()

	d.fn(value)
}

// stop discards any pending call. Later calls are ignored.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.pending = nil
	if d.cancel != nil {
		close(d.cancel)
		d.cancel = nil
	}
}
