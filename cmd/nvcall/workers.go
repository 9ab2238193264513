package main

import (
	"runtime"

	versioncall "github.com/kmalakoff/node-version-call-local"
)

// registerWorkers installs the built-in workers. Every nvcall binary
// registers the same set, so a parent dispatching to an older installed
// version resolves the same references.
func registerWorkers() {
	versioncall.RegisterWorker("workers/echo", echoWorker)
	versioncall.RegisterWorker("workers/hostinfo", hostinfoWorker)
	versioncall.RegisterCallbackWorker("workers/echo-cb", echoCallbackWorker)
}

// echoWorker returns its arguments unchanged.
func echoWorker(args []any) (any, error) {
	return args, nil
}

// echoCallbackWorker mirrors echoWorker through the callback convention.
func echoCallbackWorker(args []any, done func(err error, result any)) {
	done(nil, args)
}

// hostinfoWorker reports the identity of the process that actually ran the
// invocation, which makes local-versus-remote dispatch observable.
func hostinfoWorker(_ []any) (any, error) {
	name, version := versioncall.CurrentRuntime()
	return map[string]any{
		"runtime": name,
		"version": version,
		"os":      runtime.GOOS,
		"arch":    runtime.GOARCH,
		"go":      runtime.Version(),
	}, nil
}
