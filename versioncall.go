package versioncall

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kmalakoff/node-version-call-local/internal/config"
	"github.com/kmalakoff/node-version-call-local/internal/dispatch"
	"github.com/kmalakoff/node-version-call-local/internal/execremote"
	"github.com/kmalakoff/node-version-call-local/internal/locate"
	"github.com/kmalakoff/node-version-call-local/internal/spawnenv"
	"github.com/kmalakoff/node-version-call-local/internal/worker"
)

var (
	runtimeMu sync.RWMutex
	current   = detectRuntime()

	settingsOnce sync.Once
	settings     config.Settings
)

// SetRuntime registers the running binary's family name and build version.
// Host applications call this once at startup; the version is what local
// satisfaction checks compare constraints against.
func SetRuntime(name string, version string) {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()
	current.Name = name
	current.Version = version
}

// CurrentRuntime returns the registered family name and version.
func CurrentRuntime() (name string, version string) {
	runtimeMu.RLock()
	defer runtimeMu.RUnlock()
	return current.Name, current.Version
}

// detectRuntime derives the family name from the executable; the version
// stays empty until SetRuntime provides it.
func detectRuntime() dispatch.Runtime {
	rt := dispatch.Runtime{}
	if exe, err := os.Executable(); err == nil {
		rt.ExecPath = exe
		rt.Name = strings.TrimSuffix(filepath.Base(exe), ".exe")
	}
	return rt
}

// loadSettings discovers project settings once, from the working directory
// upward. A missing or undiscoverable config yields the zero settings.
func loadSettings() config.Settings {
	settingsOnce.Do(func() {
		cwd, err := os.Getwd()
		if err != nil {
			return
		}
		if s, found, err := config.Discover(cwd); err == nil && found {
			settings = s
		}
	})
	return settings
}

// newDispatcher assembles a dispatcher over the real collaborators and the
// currently registered runtime.
func newDispatcher() (*dispatch.Dispatcher, error) {
	runtimeMu.RLock()
	rt := current
	runtimeMu.RUnlock()

	roots, err := loadSettings().ResolveRoots()
	if err != nil {
		return nil, err
	}
	return dispatch.New(
		rt,
		locate.New(rt.Name, roots),
		spawnenv.Builder{},
		execremote.Executor{},
		localRunner{},
	), nil
}

// newBinding resolves options and creates a fresh binding.
func newBinding(constraint string, workerRef string, opts Options) (*dispatch.Binding, error) {
	cfg, err := opts.resolve()
	if err != nil {
		return nil, err
	}
	d, err := newDispatcher()
	if err != nil {
		return nil, err
	}
	return d.Bind(constraint, workerRef, cfg), nil
}

// Which returns the executable path of the best installed version
// satisfying constraint, without invoking anything. The current process is
// not considered a candidate.
func Which(constraint string) (string, error) {
	runtimeMu.RLock()
	rt := current
	runtimeMu.RUnlock()

	roots, err := loadSettings().ResolveRoots()
	if err != nil {
		return "", err
	}
	path, found, err := locate.New(rt.Name, roots).Locate(constraint, environMap())
	if err != nil {
		return "", err
	}
	if !found {
		return "", &VersionNotFoundError{Constraint: constraint}
	}
	return path, nil
}

// localRunner adapts the worker registry to the dispatcher's LocalRunner.
type localRunner struct{}

func (localRunner) Invoke(ref string, args []any, callbackStyle bool) (any, error) {
	return worker.Invoke(ref, args, callbackStyle)
}
