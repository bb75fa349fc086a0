package formz

import "context"

// Watcher observes an external feed for a source and emits raw bytes on a
// channel. Implementations should emit the current value immediately upon
// Watch() being called so the bound source starts populated.
type Watcher interface {
	// Watch begins observing and returns a channel that emits raw bytes
	// when the feed changes. The channel is closed when the context is
	// canceled or the feed ends.
	Watch(ctx context.Context) (<-chan []byte, error)
}

// ChannelWatcher adapts an existing byte channel as a Watcher.
// Useful for testing and for feeds that already produce bytes.
type ChannelWatcher struct {
	ch <-chan []byte
}

// NewChannelWatcher creates a ChannelWatcher reading from ch.
func NewChannelWatcher(ch <-chan []byte) *ChannelWatcher {
	return &ChannelWatcher{ch: ch}
}

// Watch forwards values from the wrapped channel until it closes or ctx
// is canceled.
func (w *ChannelWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	out := make(chan []byte)
	go func() {
		defer close(out)
		for {
			var raw []byte
			var ok bool
			select {
			case <-ctx.Done():
				return
			case raw, ok = <-w.ch:
				if !ok {
					return
				}
			}
			select {
			case out <- raw:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
