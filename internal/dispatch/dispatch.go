// Package dispatch decides whether an invocation runs in the current
// process or in a separately installed runtime version, and routes it
// accordingly. The decision is made at most once per binding and frozen.
package dispatch

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kmalakoff/node-version-call-local/internal/execremote"
	"github.com/kmalakoff/node-version-call-local/internal/locate"
	"github.com/kmalakoff/node-version-call-local/internal/messages"
	"github.com/kmalakoff/node-version-call-local/internal/semver"
)

// Runtime identifies the running binary: its family name, build version,
// and executable path. The executable path re-enters the current binary in
// worker-serve mode for local callback-style workers.
type Runtime struct {
	Name     string
	Version  string
	ExecPath string
}

// Locator finds an installed executable satisfying a constraint.
type Locator interface {
	Locate(constraint string, env map[string]string) (path string, found bool, err error)
}

// EnvBuilder produces the spawn environment for a selected installation.
type EnvBuilder interface {
	Build(installRoot string, base execremote.Options) execremote.Options
}

// Executor runs a worker in a spawned process.
type Executor interface {
	Execute(opts execremote.Options, workerRef string, args []any) (any, error)
}

// LocalRunner runs a registered worker in the current process.
type LocalRunner interface {
	Invoke(ref string, args []any, callbackStyle bool) (any, error)
}

// Config is the per-binding invocation configuration, with all defaults
// already resolved by the caller.
type Config struct {
	// CallbackStyleWorker marks the target worker as callback-style.
	CallbackStyleWorker bool
	// UseSpawnEnvironment applies the spawn environment overrides to
	// remote executions.
	UseSpawnEnvironment bool
	// Env is the execution environment, captured once at binding creation.
	Env map[string]string
	// PollInterval bounds the executor's completion polling.
	PollInterval time.Duration
}

// Dispatcher routes invocations for one runtime identity.
type Dispatcher struct {
	rt    Runtime
	loc   Locator
	envb  EnvBuilder
	exec  Executor
	local LocalRunner
}

// New returns a Dispatcher with every collaborator injected.
func New(rt Runtime, loc Locator, envb EnvBuilder, exec Executor, local LocalRunner) *Dispatcher {
	return &Dispatcher{rt: rt, loc: loc, envb: envb, exec: exec, local: local}
}

// Invoke runs a one-shot invocation: resolution is computed fresh and not
// reused across calls.
func (d *Dispatcher) Invoke(constraint string, workerRef string, cfg Config, args []any) (any, error) {
	return d.Bind(constraint, workerRef, cfg).Execute(args)
}

// Bind creates a Binding whose resolution is computed on first Execute and
// frozen for the Binding's lifetime. Bind itself performs no I/O.
func (d *Dispatcher) Bind(constraint string, workerRef string, cfg Config) *Binding {
	return &Binding{d: d, constraint: constraint, workerRef: workerRef, cfg: cfg}
}

// resolveOnce computes the local-versus-remote decision for a constraint.
func (d *Dispatcher) resolveOnce(constraint string, cfg Config) (resolution, error) {
	if d.rt.Name == "" || d.rt.Version == "" {
		return resolution{}, fmt.Errorf(messages.DispatchRuntimeRequired)
	}
	if satisfiedLocally(d.rt.Version, constraint) {
		slog.Debug("resolved local", "constraint", constraint, "version", d.rt.Version)
		return resolution{state: stateLocal}, nil
	}

	path, found, err := d.loc.Locate(constraint, cfg.Env)
	if err != nil {
		return resolution{}, err
	}
	if !found {
		return resolution{}, &VersionNotFoundError{Constraint: constraint}
	}
	root := locate.InstallRoot(path)
	slog.Debug("resolved remote", "constraint", constraint, "exec", path, "root", root)
	return resolution{state: stateRemote, execPath: path, installRoot: root}, nil
}

// dispatch routes one invocation according to a frozen resolution.
func (d *Dispatcher) dispatch(res resolution, workerRef string, cfg Config, args []any) (any, error) {
	if res.state == stateLocal {
		if !cfg.CallbackStyleWorker {
			return d.local.Invoke(workerRef, args, false)
		}
		// A local callback-style worker still goes through the executor,
		// re-entering this binary, so callback workers observe one uniform
		// contract regardless of resolution.
		if _, ok := locate.LookupEnv(cfg.Env, locate.PathVar()); !ok {
			return nil, &MissingEnvError{Key: locate.PathVar()}
		}
		if d.rt.ExecPath == "" {
			return nil, fmt.Errorf(messages.DispatchExecutableFmt, errUnknownExecutable)
		}
		opts := execremote.Options{
			ExecPath:      d.rt.ExecPath,
			PollInterval:  cfg.PollInterval,
			CallbackStyle: true,
			Env:           cfg.Env,
		}
		return d.exec.Execute(opts, workerRef, args)
	}

	opts := execremote.Options{
		ExecPath:      res.execPath,
		PollInterval:  cfg.PollInterval,
		CallbackStyle: cfg.CallbackStyleWorker,
		Env:           cfg.Env,
	}
	if cfg.UseSpawnEnvironment {
		opts = d.envb.Build(res.installRoot, opts)
	}
	return d.exec.Execute(opts, workerRef, args)
}

// satisfiedLocally reports whether the current version satisfies the
// constraint. An exact string match short-circuits before any semver
// parsing.
func satisfiedLocally(current string, constraint string) bool {
	if constraint == current {
		return true
	}
	v, err := semver.ParseVersion(current)
	if err != nil {
		return false
	}
	c, err := semver.ParseConstraint(constraint)
	if err != nil {
		return false
	}
	return semver.Satisfies(v, c)
}
