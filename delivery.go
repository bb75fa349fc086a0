package formz

import "sync"

// outbox collects captured emissions of one operation.
type outbox []func()

func (o *outbox) add(deliver func()) {
	*o = append(*o, deliver)
}

func (o outbox) flush() {
	for _, deliver := range o {
		deliver()
	}
}

// delivery hands outboxes to listeners in the order they were pushed.
// Outboxes are pushed while h.mu is held, so that order is the order in
// which the snapshots were taken. One goroutine at a time drains the queue;
// a goroutine that finds the queue already being drained leaves its outbox
// to the drainer. A listener that calls back into the Host therefore sees
// its own emissions delivered after it returns.
type delivery struct {
	mu       sync.Mutex
	idle     *sync.Cond
	queue    []outbox
	draining bool
}

// push queues out. Callers must hold h.mu.
func (d *delivery) push(out outbox) {
	if len(out) == 0 {
		return
	}
	d.mu.Lock()
	d.queue = append(d.queue, out)
	d.mu.Unlock()
}

// drain delivers queued outboxes until the queue is empty, unless another
// goroutine is already doing so. Callers must not hold h.mu.
func (d *delivery) drain() {
	d.mu.Lock()
	if d.draining {
		d.mu.Unlock()
		return
	}
	d.draining = true
	for len(d.queue) > 0 {
		next := d.queue[0]
		d.queue[0] = nil
		d.queue = d.queue[1:]
		d.mu.Unlock()
		d.deliver(next)
		d.mu.Lock()
	}
	d.draining = false
	d.idle.Broadcast()
	d.mu.Unlock()
}

// deliver flushes out, releasing the drain if a listener panics.
func (d *delivery) deliver(out outbox) {
	done := false
	defer func() {
		if !done {
			d.mu.Lock()
			d.draining = false
			d.idle.Broadcast()
			d.mu.Unlock()
		}
	}()
	out.flush()
	done = true
}

// wait blocks until the queue is empty and nobody is draining it.
func (d *delivery) wait() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for d.draining || len(d.queue) > 0 {
		if !d.draining {
			d.mu.Unlock()
			d.drain()
			d.mu.Lock()
			continue
		}
		d.idle.Wait()
	}
}
