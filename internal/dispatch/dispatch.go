// Package dispatch invokes batches of user callbacks, supplying each
// callback with the subset of a candidate argument list that matches its
// declared parameter types.
package dispatch

import (
	"fmt"
	"reflect"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// entry is one registered callback with its parameter metadata captured
// at registration time.
type entry struct {
	fn     reflect.Value
	params []reflect.Type
}

// List is an ordered collection of callbacks of one kind. The zero value
// is ready to use. Registration appends; it never replaces.
type List struct {
	entries []entry
}

// Add registers one or more callbacks. Each argument may be a single
// function or a slice of functions (nested arbitrarily deep); everything
// is flattened into registration order. A callback may return nothing or
// a single error. Anything that is not a function is rejected.
func (l *List) Add(cbs ...any) error {
	for _, cb := range cbs {
		if err := l.add(reflect.ValueOf(cb)); err != nil {
			return err
		}
	}
	return nil
}

func (l *List) add(v reflect.Value) error {
	if !v.IsValid() {
		return fmt.Errorf("cannot register nil callback")
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			el := v.Index(i)
			if el.Kind() == reflect.Interface {
				el = el.Elem()
			}
			if err := l.add(el); err != nil {
				return err
			}
		}
		return nil

	case reflect.Func:
		if v.IsNil() {
			return fmt.Errorf("cannot register nil callback")
		}
		t := v.Type()
		if t.IsVariadic() {
			return fmt.Errorf("cannot register variadic callback %s", t)
		}
		if t.NumOut() > 1 || (t.NumOut() == 1 && !t.Out(0).Implements(errType)) {
			return fmt.Errorf("callback %s must return nothing or a single error", t)
		}

		params := make([]reflect.Type, t.NumIn())
		for i := range params {
			params[i] = t.In(i)
		}
		l.entries = append(l.entries, entry{fn: v, params: params})
		return nil

	default:
		return fmt.Errorf("cannot register %s as callback, want a function", v.Type())
	}
}

// Len returns the number of registered callbacks.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// Invoke calls each registered callback in order. The candidate argument
// values are matched against each callback's parameters in declared order:
// a parameter consumes the first remaining candidate whose type is
// assignable to it. Callbacks whose parameters cannot all be satisfied
// are skipped silently. A non-nil error return aborts the batch and is
// returned; panics propagate to the caller.
func (l *List) Invoke(args ...any) error {
	if l == nil {
		return nil
	}

	candidates := make([]reflect.Value, 0, len(args))
	for _, a := range args {
		v := reflect.ValueOf(a)
		if v.IsValid() {
			candidates = append(candidates, v)
		}
	}

	for _, e := range l.entries {
		in, ok := matchArgs(e.params, candidates)
		if !ok {
			continue
		}

		out := e.fn.Call(in)
		if len(out) == 1 && !out[0].IsNil() {
			return out[0].Interface().(error)
		}
	}
	return nil
}

// matchArgs selects, in order, one candidate per parameter. Candidates
// are consumed left to right; a candidate that does not fit the current
// parameter stays available for later parameters only if it was never
// passed over — i.e. matching is a strictly ordered subset selection.
func matchArgs(params []reflect.Type, candidates []reflect.Value) ([]reflect.Value, bool) {
	in := make([]reflect.Value, 0, len(params))
	next := 0

	for _, p := range params {
		found := false
		for i := next; i < len(candidates); i++ {
			if candidates[i].Type().AssignableTo(p) {
				in = append(in, candidates[i])
				next = i + 1
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}
	}
	return in, true
}
