package versioncall

// Call invokes the worker under a runtime version satisfying constraint and
// returns a Future that resolves with the result or rejects with the error.
// Resolution is computed fresh for each Call; use Bind to reuse it.
func Call(constraint string, workerRef string, opts Options, args ...any) *Future {
	f := newFuture()
	binding, err := newBinding(constraint, workerRef, opts)
	if err != nil {
		f.settle(nil, err)
		return f
	}
	go func() {
		f.settle(binding.Execute(args))
	}()
	return f
}

// CallSync invokes the worker and blocks the calling goroutine for the full
// round trip, returning the result or the error directly. It is the surface
// for callers that cannot suspend on a Future.
func CallSync(constraint string, workerRef string, opts Options, args ...any) (any, error) {
	binding, err := newBinding(constraint, workerRef, opts)
	if err != nil {
		return nil, err
	}
	return binding.Execute(args)
}
