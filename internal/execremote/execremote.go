// Package execremote runs a worker in a separate process. It writes the
// invocation request to a scratch file, spawns the target executable in
// worker-serve mode, and awaits the committed response while polling at a
// bounded interval.
package execremote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"time"

	"github.com/kmalakoff/node-version-call-local/internal/messages"
	"github.com/kmalakoff/node-version-call-local/internal/wire"
	"github.com/kmalakoff/node-version-call-local/internal/worker"
)

// DefaultPollInterval bounds how often the executor re-checks a spawned
// worker for completion. There is no overall deadline; a hung worker hangs
// the caller.
const DefaultPollInterval = 25 * time.Millisecond

// Options configures one remote execution.
type Options struct {
	// ExecPath is the target executable, already resolved by the caller.
	ExecPath string
	// PollInterval overrides DefaultPollInterval when positive.
	PollInterval time.Duration
	// CallbackStyle selects the callback-style worker registration in the
	// spawned process.
	CallbackStyle bool
	// Env is the full environment for the spawned process. The process
	// receives a flattened copy, never a live view.
	Env map[string]string
}

// Executor spawns worker processes. The zero value is usable.
type Executor struct{}

// Execute runs the referenced worker in a process spawned from opts.ExecPath
// and returns its decoded result. Worker errors come back verbatim;
// transport failures carry spawn or protocol context.
func (Executor) Execute(opts Options, workerRef string, args []any) (any, error) {
	if opts.ExecPath == "" {
		return nil, fmt.Errorf(messages.ExecExecutableMissing)
	}

	encoded, err := wire.EncodeValues(args)
	if err != nil {
		return nil, fmt.Errorf(messages.ExecEncodeRequestFmt, err)
	}
	payload, err := json.Marshal(wire.Request{
		Worker:        workerRef,
		Args:          encoded,
		CallbackStyle: opts.CallbackStyle,
	})
	if err != nil {
		return nil, fmt.Errorf(messages.ExecEncodeRequestFmt, err)
	}

	dir, err := os.MkdirTemp("", "version-call-*")
	if err != nil {
		return nil, fmt.Errorf(messages.ExecTempDirFmt, err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	requestPath := filepath.Join(dir, "request.json")
	responsePath := filepath.Join(dir, "response.json")
	if err := os.WriteFile(requestPath, payload, 0o600); err != nil {
		return nil, fmt.Errorf(messages.ExecWriteRequestFmt, requestPath, err)
	}

	raw, err := spawnAndAwait(opts, requestPath, responsePath)
	if err != nil {
		return nil, err
	}

	var resp wire.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf(messages.ExecParseResponseFmt, responsePath, err)
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	result, err := wire.DecodeValue(resp.Result)
	if err != nil {
		return nil, fmt.Errorf(messages.ExecDecodeResultFmt, err)
	}
	return result, nil
}

// spawnAndAwait starts the worker process and polls until it exits and the
// response file has been committed.
func spawnAndAwait(opts Options, requestPath string, responsePath string) ([]byte, error) {
	cmd := exec.Command(opts.ExecPath, worker.ServeFlag, requestPath, responsePath)
	cmd.Env = flattenEnv(opts.Env)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	slog.Debug("spawning worker process", "exec", opts.ExecPath, "callbackStyle", opts.CallbackStyle)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf(messages.ExecSpawnFmt, opts.ExecPath, err)
	}

	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	var waitErr error
	for exited := false; !exited; {
		select {
		case waitErr = <-done:
			exited = true
		case <-ticker.C:
			// The response commits via rename before the process exits;
			// the tick only bounds how long the wait loop sleeps.
		}
	}

	raw, readErr := os.ReadFile(responsePath)
	if waitErr != nil {
		return nil, fmt.Errorf(messages.ExecExitFmt, opts.ExecPath, waitErr, stderrSuffix(&stderr))
	}
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return nil, fmt.Errorf(messages.ExecNoResponseFmt, opts.ExecPath)
		}
		return nil, fmt.Errorf(messages.ExecWaitFmt, opts.ExecPath, readErr)
	}
	return raw, nil
}

func stderrSuffix(buf *bytes.Buffer) string {
	text := bytes.TrimSpace(buf.Bytes())
	if len(text) == 0 {
		return ""
	}
	return fmt.Sprintf(messages.ExecStderrSuffixFmt, text)
}

// flattenEnv converts an environment map to sorted KEY=VALUE form.
func flattenEnv(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
