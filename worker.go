package versioncall

import "github.com/kmalakoff/node-version-call-local/internal/worker"

// WorkerFunc is a plain worker: it receives the argument list and returns a
// result or an error.
type WorkerFunc = worker.Func

// CallbackWorkerFunc is a callback-style worker: it delivers its outcome
// through done instead of returning.
type CallbackWorkerFunc = worker.CallbackFunc

// RegisterWorker binds a plain worker to ref. Every binary of the family
// registers the same workers so remote dispatch resolves identically.
func RegisterWorker(ref string, fn WorkerFunc) {
	worker.Register(ref, fn)
}

// RegisterCallbackWorker binds a callback-style worker to ref.
func RegisterCallbackWorker(ref string, fn CallbackWorkerFunc) {
	worker.RegisterCallback(ref, fn)
}

// MaybeServeWorker inspects argv for the worker-serve marker a dispatching
// process passes when it spawns this binary. Host applications call it at
// the top of main, before any CLI parsing, and exit when served is true.
func MaybeServeWorker(args []string) (served bool, err error) {
	return worker.MaybeServe(args)
}
