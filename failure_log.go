package formz

import "sync"

// failureLog keeps the latest validator failure of a Host and, when a
// limit is set, the most recent failures oldest first. Init and Clear
// start a new session and reset it.
type failureLog struct {
	mu     sync.Mutex
	latest *ValidationFailure
	recent []*ValidationFailure
	limit  int
}

func newFailureLog(limit int) *failureLog {
	return &failureLog{limit: max(limit, 0)}
}

// record stores f as the latest failure and appends it to the history,
// dropping the oldest entry once the limit is reached.
func (l *failureLog) record(f *ValidationFailure) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.latest = f
	if l.limit == 0 {
		return
	}
	if len(l.recent) == l.limit {
		copy(l.recent, l.recent[1:])
		l.recent = l.recent[:l.limit-1]
	}
	l.recent = append(l.recent, f)
}

func (l *failureLog) last() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.latest == nil {
		return nil
	}
	return l.latest
}

func (l *failureLog) history() []error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.recent) == 0 {
		return nil
	}
	out := make([]error, len(l.recent))
	for i, f := range l.recent {
		out[i] = f
	}
	return out
}

func (l *failureLog) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.latest = nil
	l.recent = l.recent[:0]
}
