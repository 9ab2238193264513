// Package worker holds the process-wide worker registry and the serve loop
// a spawned worker process runs. Every binary of the family registers the
// same workers, so a dispatching parent and a located sibling binary resolve
// a worker reference to the same code.
package worker

import (
	"fmt"
	"sync"

	"github.com/kmalakoff/node-version-call-local/internal/messages"
)

// Func is a plain worker: it receives the decoded argument list and returns
// a result or an error.
type Func func(args []any) (any, error)

// CallbackFunc is a callback-style worker: it delivers its outcome through
// done instead of returning. done must be invoked exactly once.
type CallbackFunc func(args []any, done func(err error, result any))

type registry struct {
	mu       sync.RWMutex
	plain    map[string]Func
	callback map[string]CallbackFunc
}

var workers = &registry{
	plain:    make(map[string]Func),
	callback: make(map[string]CallbackFunc),
}

// Register binds a plain worker to ref, replacing any previous registration.
func Register(ref string, fn Func) {
	workers.mu.Lock()
	defer workers.mu.Unlock()
	workers.plain[ref] = fn
}

// RegisterCallback binds a callback-style worker to ref, replacing any
// previous registration.
func RegisterCallback(ref string, fn CallbackFunc) {
	workers.mu.Lock()
	defer workers.mu.Unlock()
	workers.callback[ref] = fn
}

// Invoke runs the worker registered under ref in the current process.
// callbackStyle selects which registration shape is required; a mismatch is
// an error rather than a silent adaptation.
func Invoke(ref string, args []any, callbackStyle bool) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf(messages.WorkerPanicFmt, ref, r)
		}
	}()

	if callbackStyle {
		fn, ok := lookupCallback(ref)
		if !ok {
			if _, plain := lookupPlain(ref); plain {
				return nil, fmt.Errorf(messages.WorkerNotCallbackFmt, ref)
			}
			return nil, fmt.Errorf(messages.WorkerNotFoundFmt, ref)
		}
		return runCallback(fn, args)
	}

	fn, ok := lookupPlain(ref)
	if !ok {
		if _, cb := lookupCallback(ref); cb {
			return nil, fmt.Errorf(messages.WorkerNotPlainFmt, ref)
		}
		return nil, fmt.Errorf(messages.WorkerNotFoundFmt, ref)
	}
	return fn(args)
}

// runCallback adapts a callback-style worker to a synchronous return. The
// first done invocation wins; later invocations are ignored.
func runCallback(fn CallbackFunc, args []any) (any, error) {
	var (
		once   sync.Once
		called bool
		result any
		err    error
	)
	fn(args, func(cbErr error, cbResult any) {
		once.Do(func() {
			called = true
			err = cbErr
			result = cbResult
		})
	})
	if !called {
		return nil, fmt.Errorf(messages.WorkerCallbackReturnedNil)
	}
	return result, err
}

func lookupPlain(ref string) (Func, bool) {
	workers.mu.RLock()
	defer workers.mu.RUnlock()
	fn, ok := workers.plain[ref]
	return fn, ok
}

func lookupCallback(ref string) (CallbackFunc, bool) {
	workers.mu.RLock()
	defer workers.mu.RUnlock()
	fn, ok := workers.callback[ref]
	return fn, ok
}
