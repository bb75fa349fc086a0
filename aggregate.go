package formz

import (
	"maps"
	"reflect"
	"slices"
)

// SourceErrors is the error list of a single source. nil means no errors.
type SourceErrors = []string

// HostErrors maps source names to their errors. nil means no source has
// errors.
type HostErrors = map[string][]string

// SourceProps is the snapshot of a source.
type SourceProps = Props[SourceErrors, any]

// HostProps is the snapshot of the aggregate.
type HostProps = Props[HostErrors, map[string]any]

// rebuild recomputes the aggregate from all current source snapshots and
// writes it to the host container in one update. It does not emit.
// Callers must hold h.mu.
func (h *Host) rebuild() *State[HostErrors, map[string]any] {
	value := make(map[string]any, len(h.order))
	var errs HostErrors
	var touched, busy bool

	for _, name := range h.order {
		p := h.sources[name].state.Props()
		value[name] = p.Value
		touched = touched || p.Touched
		busy = busy || p.Busy
		if p.Errors != nil {
			if errs == nil {
				errs = make(HostErrors)
			}
			errs[name] = p.Errors
		}
	}

	for name, v := range value {
		if h.filtered(v) {
			delete(value, name)
		}
	}

	return h.state.Update(func(p *HostProps) {
		p.Value = value
		p.Errors = errs
		p.Touched = touched
		p.Busy = busy
	})
}

// filtered reports whether v matches one of the configured filter criteria.
func (h *Host) filtered(v any) bool {
	for _, c := range h.cfg.filterCriteria {
		if sameValue(v, c) {
			return true
		}
	}
	return false
}

// sameValue compares two values by identity for comparable types. Values of
// non-comparable types (slices, maps, funcs) never match a criterion.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	defer func() {
		// Comparable struct or array types can still hold non-comparable
		// interface values.
		_ = recover()
	}()
	return a == b
}

func cloneSourceProps(p SourceProps) SourceProps {
	p.Errors = slices.Clone(p.Errors)
	return p
}

func cloneHostProps(p HostProps) HostProps {
	p.Value = maps.Clone(p.Value)
	if p.Errors != nil {
		errs := make(HostErrors, len(p.Errors))
		for name, list := range p.Errors {
			errs[name] = slices.Clone(list)
		}
		p.Errors = errs
	}
	return p
}
