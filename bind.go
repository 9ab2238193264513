package versioncall

// Callback receives an invocation outcome: a non-nil error on failure, or
// the result with a nil error on success. It is invoked exactly once.
type Callback func(err error, result any)

// BoundCaller invokes a pre-configured binding. When the trailing argument
// is a Callback (or any func(error, any)), the call runs to completion and
// delivers the outcome through it before returning; otherwise the returned
// Future carries the outcome. The returned Future is settled in both modes.
type BoundCaller func(args ...any) *Future

// BoundSyncCaller invokes a pre-configured binding synchronously. Trailing
// callback detection never applies to this surface.
type BoundSyncCaller func(args ...any) (any, error)

// Bind creates a caller that closes over a fresh binding. Binding creation
// captures the configuration and environment snapshot; the local-versus-
// remote resolution happens on the first invocation and is stable across
// every later call through this caller. A creation failure is delivered on
// the first invocation, through the trailing callback when one is supplied.
func Bind(constraint string, workerRef string, opts Options) BoundCaller {
	binding, bindErr := newBinding(constraint, workerRef, opts)
	return func(args ...any) *Future {
		f := newFuture()
		rest, callback, ok := splitCallback(args)
		if bindErr != nil {
			// A trailing callback hears every outcome exactly once,
			// including a failed binding.
			f.settle(nil, bindErr)
			if ok {
				callback(bindErr, nil)
			}
			return f
		}

		if ok {
			// Callback style means delivery via callback, not asynchronous
			// scheduling: the invocation completes before this returns.
			result, err := binding.Execute(rest)
			f.settle(result, err)
			callback(err, result)
			return f
		}

		go func() {
			f.settle(binding.Execute(args))
		}()
		return f
	}
}

// BindSync creates a synchronous caller over a fresh binding, sharing the
// same one-time resolution semantics as Bind.
func BindSync(constraint string, workerRef string, opts Options) BoundSyncCaller {
	binding, bindErr := newBinding(constraint, workerRef, opts)
	return func(args ...any) (any, error) {
		if bindErr != nil {
			return nil, bindErr
		}
		return binding.Execute(args)
	}
}

// splitCallback implements the trailing-callback convention in one place:
// when the last argument is a Callback-shaped function it is popped off the
// argument list. Function values elsewhere in the list are ordinary
// arguments and cross the wire as opaque placeholders.
func splitCallback(args []any) ([]any, Callback, bool) {
	if len(args) == 0 {
		return args, nil, false
	}
	switch cb := args[len(args)-1].(type) {
	case Callback:
		return args[:len(args)-1], cb, true
	case func(error, any):
		return args[:len(args)-1], cb, true
	}
	return args, nil, false
}
