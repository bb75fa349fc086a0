package formz

import (
	"context"
	"fmt"

	"github.com/zoobzio/capitan"
)

// Bind drives the named source from a Watcher. Every payload is decoded
// with codec and passed to the source's Update action, so it is debounced
// and validated like any other update. Payloads that fail to decode are
// skipped and reported with WatcherDecodeFailed.
//
// Binding stops when ctx is canceled, the watcher closes its channel, the
// Host is closed, or the source is removed.
func (h *Host) Bind(ctx context.Context, name string, watcher Watcher, codec Codec) error {
	h.mu.Lock()
	src, ok := h.sources[name]
	h.mu.Unlock()
	if !ok {
		return fmt.Errorf("failed to bind: %w: %q", ErrUnknownSource, name)
	}
	if codec == nil {
		codec = JSONCodec{}
	}

	changes, err := watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	actions := &Source{host: h, src: src}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-h.ctx.Done():
				return
			case raw, ok := <-changes:
				if !ok {
					return
				}
				if !actions.registered() {
					return
				}
				var value any
				if err := codec.Unmarshal(raw, &value); err != nil {
					capitan.Emit(ctx, WatcherDecodeFailed,
						KeyHost.Field(h.cfg.id),
						KeySource.Field(name),
						KeyError.Field(err.Error()),
					)
					continue
				}
				actions.Update(value)
			}
		}
	}()

	return nil
}
