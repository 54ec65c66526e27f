package cata

// Result is the outcome of a fold step that may fail.
type Result[A any] struct {
	Value A
	Err   error
}

// Ok is a successful result.
func Ok[A any](v A) Result[A] {
	return Result[A]{Value: v}
}

// Fail is a failed result.
func Fail[A any](err error) Result[A] {
	return Result[A]{Err: err}
}

// Failed reports whether r carries an error.
func (r Result[A]) Failed() bool {
	return r.Err != nil
}

// Get splits r into its value and error.
func (r Result[A]) Get() (A, error) {
	return r.Value, r.Err
}

// Bind continues with f when r succeeded and propagates the failure
// otherwise.
func Bind[A, B any](r Result[A], f func(A) Result[B]) Result[B] {
	if r.Err != nil {
		return Fail[B](r.Err)
	}
	return f(r.Value)
}

// Bind2 continues with f when both results succeeded. The first failure, in
// argument order, is propagated.
func Bind2[A, B, C any](ra Result[A], rb Result[B], f func(A, B) Result[C]) Result[C] {
	if ra.Err != nil {
		return Fail[C](ra.Err)
	}
	if rb.Err != nil {
		return Fail[C](rb.Err)
	}
	return f(ra.Value, rb.Value)
}
