package worker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kmalakoff/node-version-call-local/internal/messages"
	"github.com/kmalakoff/node-version-call-local/internal/wire"
)

// ServeFlag is the argv marker a dispatching process passes to run a family
// binary in worker-serve mode. It is deliberately unlikely to collide with
// real CLI surface.
const ServeFlag = "__version-call-worker"

// MaybeServe inspects argv and, when it carries the worker-serve marker,
// runs the requested worker and reports true. Host applications call this at
// the top of main, before any CLI parsing.
func MaybeServe(args []string) (bool, error) {
	if len(args) < 4 || args[1] != ServeFlag {
		return false, nil
	}
	return true, Serve(args[2], args[3])
}

// Serve reads the invocation request, runs the worker, and commits the
// response. Worker failures are reported inside the response; only transport
// problems (unreadable request, unwritable response) return an error.
func Serve(requestPath string, responsePath string) error {
	data, err := os.ReadFile(requestPath)
	if err != nil {
		return fmt.Errorf(messages.ServeReadRequestFmt, requestPath, err)
	}
	var req wire.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf(messages.ServeParseRequestFmt, requestPath, err)
	}

	resp := run(req)
	return commitResponse(responsePath, resp)
}

// run executes the requested worker and folds every outcome, including
// argument decode failures, into a wire response.
func run(req wire.Request) wire.Response {
	args, err := wire.DecodeValues(req.Args)
	if err != nil {
		return errorResponse(fmt.Errorf(messages.ServeDecodeArgsFmt, err))
	}

	result, err := Invoke(req.Worker, args, req.CallbackStyle)
	if err != nil {
		return errorResponse(err)
	}

	encoded, err := wire.EncodeValue(result)
	if err != nil {
		return errorResponse(fmt.Errorf(messages.ServeEncodeResultFmt, err))
	}
	return wire.Response{Result: encoded}
}

func errorResponse(err error) wire.Response {
	return wire.Response{Error: &wire.ErrorDetail{Message: err.Error()}}
}

// commitResponse writes the response to a sibling temp file and renames it
// into place so the dispatching process never observes a partial write.
func commitResponse(responsePath string, resp wire.Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf(messages.ServeEncodeResultFmt, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(responsePath), filepath.Base(responsePath)+".tmp-*")
	if err != nil {
		return fmt.Errorf(messages.ServeWriteResponseFmt, responsePath, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf(messages.ServeWriteResponseFmt, responsePath, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf(messages.ServeWriteResponseFmt, responsePath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf(messages.ServeWriteResponseFmt, responsePath, err)
	}
	if err := os.Rename(tmpName, responsePath); err != nil {
		return fmt.Errorf(messages.ServeCommitResponseFmt, responsePath, err)
	}
	committed = true
	return nil
}
