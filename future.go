package versioncall

import "sync"

// Future is the deferred result of an invocation. It settles exactly once,
// with either a result or an error.
type Future struct {
	done   chan struct{}
	once   sync.Once
	result any
	err    error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// settle records the outcome. Only the first call has any effect.
func (f *Future) settle(result any, err error) {
	f.once.Do(func() {
		f.result = result
		f.err = err
		close(f.done)
	})
}

// Done returns a channel closed when the future has settled.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future settles and returns its outcome.
func (f *Future) Await() (any, error) {
	<-f.done
	return f.result, f.err
}
