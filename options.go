package versioncall

import (
	"os"
	"strings"
	"time"

	"github.com/kmalakoff/node-version-call-local/internal/dispatch"
)

// Options configures an invocation or a binding. The zero value selects the
// defaults: a plain-return worker, spawn environment overrides applied, and
// the current process environment.
type Options struct {
	// CallbackStyleWorker marks the target worker as callback-style: it
	// delivers its outcome through a trailing completion function instead
	// of returning a value.
	CallbackStyleWorker bool
	// UseSpawnEnvironment controls whether remote executions receive the
	// spawn environment overrides needed when the worker itself spawns
	// child processes. nil means true.
	UseSpawnEnvironment *bool
	// Env is the environment for remote executions. nil means a snapshot
	// of the current process environment, taken once at bind or call time.
	Env map[string]string
	// PollInterval overrides the bounded subprocess polling interval.
	PollInterval time.Duration
}

// resolve freezes opts into a dispatch configuration, capturing the
// environment snapshot and folding in discovered project settings.
func (o Options) resolve() (dispatch.Config, error) {
	cfg := dispatch.Config{
		CallbackStyleWorker: o.CallbackStyleWorker,
		UseSpawnEnvironment: o.UseSpawnEnvironment == nil || *o.UseSpawnEnvironment,
		PollInterval:        o.PollInterval,
	}

	settings := loadSettings()
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = settings.PollInterval()
	}

	if o.Env != nil {
		cfg.Env = cloneEnv(o.Env)
		return cfg, nil
	}
	env, err := settings.Environment(environMap())
	if err != nil {
		return dispatch.Config{}, err
	}
	cfg.Env = env
	return cfg, nil
}

// environMap snapshots the process environment as a map.
func environMap() map[string]string {
	environ := os.Environ()
	out := make(map[string]string, len(environ))
	for _, kv := range environ {
		if i := strings.Index(kv, "="); i > 0 {
			out[kv[:i]] = kv[i+1:]
		}
	}
	return out
}

func cloneEnv(env map[string]string) map[string]string {
	out := make(map[string]string, len(env))
	for k, v := range env {
		out[k] = v
	}
	return out
}
