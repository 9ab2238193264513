package dispatch

import (
	"fmt"
	"sync"

	"github.com/kmalakoff/node-version-call-local/internal/messages"
)

// resolutionState is the binding lifecycle: unresolved until first use, then
// local or remote, terminal once reached.
type resolutionState int

const (
	stateUnresolved resolutionState = iota
	stateLocal
	stateRemote
)

// resolution is the frozen local-versus-remote decision.
type resolution struct {
	state       resolutionState
	execPath    string
	installRoot string
}

// Binding is a reusable invocation target: one constraint, one worker, one
// configuration, and a memoized resolution. It is immutable after creation
// except for the resolution slot, which is written exactly once.
type Binding struct {
	d          *Dispatcher
	constraint string
	workerRef  string
	cfg        Config

	once   sync.Once
	res    resolution
	resErr error
}

// Execute runs one invocation through the binding. The first call computes
// the resolution; concurrent first calls serialize on that computation and
// share its outcome, including failure. Later calls never re-resolve, even
// if the environment changes.
func (b *Binding) Execute(args []any) (any, error) {
	if b.constraint == "" {
		return nil, fmt.Errorf(messages.DispatchConstraintRequired)
	}
	if b.workerRef == "" {
		return nil, fmt.Errorf(messages.DispatchWorkerRequired)
	}

	b.once.Do(func() {
		b.res, b.resErr = b.d.resolveOnce(b.constraint, b.cfg)
	})
	if b.resErr != nil {
		return nil, b.resErr
	}
	return b.d.dispatch(b.res, b.workerRef, b.cfg, args)
}
