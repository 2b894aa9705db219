package retry

// Callback registration. Each method accepts a single function, several
// functions, or nested slices of functions, flattened into one ordered
// sequence per kind; repeated calls append rather than replace.
//
// At dispatch time each callback receives the subset of the candidate
// arguments that matches its parameter types, in declared order; a
// callback whose parameters cannot be satisfied is skipped. Candidate
// arguments per kind:
//
//	success:        value T, *Attempt (the accepted one), []*Attempt
//	failure:        error (last), *Attempt (last), []*Attempt
//	invalid result: value T, *Attempt, bool (will retry), []*Attempt
//	finally:        []*Attempt
//
// A callback may return nothing or a single error; a non-nil error (or
// a panic) aborts the rest of the batch and propagates to the Do
// caller after the attempt's outcome has been logged.

// OnSuccess registers callbacks fired once, on the attempt that
// produced the accepted value.
func (r *Retrier[T]) OnSuccess(cbs ...any) *Retrier[T] {
	r.ensureUnstarted("OnSuccess")
	if err := r.cbSuccess.Add(cbs...); err != nil {
		panic(&InitError{Reason: "success callback", Err: err})
	}
	return r
}

// OnFailure registers callbacks fired once, only when the run stops
// with every attempt failed and no default value accepted.
func (r *Retrier[T]) OnFailure(cbs ...any) *Retrier[T] {
	r.ensureUnstarted("OnFailure")
	if err := r.cbFailure.Add(cbs...); err != nil {
		panic(&InitError{Reason: "failure callback", Err: err})
	}
	return r
}

// OnFallback is an alias for OnFailure.
func (r *Retrier[T]) OnFallback(cbs ...any) *Retrier[T] {
	r.ensureUnstarted("OnFallback")
	if err := r.cbFailure.Add(cbs...); err != nil {
		panic(&InitError{Reason: "fallback callback", Err: err})
	}
	return r
}

// OnInvalidResult registers callbacks fired on every attempt whose
// value was rejected by the result predicate, once per such attempt.
func (r *Retrier[T]) OnInvalidResult(cbs ...any) *Retrier[T] {
	r.ensureUnstarted("OnInvalidResult")
	if err := r.cbInvalid.Add(cbs...); err != nil {
		panic(&InitError{Reason: "invalid-result callback", Err: err})
	}
	return r
}

// OnFinally registers callbacks fired exactly once per run regardless
// of outcome, after the success or failure batch.
func (r *Retrier[T]) OnFinally(cbs ...any) *Retrier[T] {
	r.ensureUnstarted("OnFinally")
	if err := r.cbFinally.Add(cbs...); err != nil {
		panic(&InitError{Reason: "finally callback", Err: err})
	}
	return r
}
