// Package spawnenv builds the environment overrides that make a spawned
// worker process, and any grandchildren it spawns, resolve the same runtime
// installation the dispatcher selected.
package spawnenv

import (
	"path/filepath"
	"runtime"

	"github.com/kmalakoff/node-version-call-local/internal/execremote"
	"github.com/kmalakoff/node-version-call-local/internal/locate"
)

// EnvInstallDir names the variable carrying the selected install root, so
// package-manager-style subcommands run by the worker see which installation
// is active.
const EnvInstallDir = "VERSION_CALL_INSTALL_DIR"

var goosFunc = func() string { return runtime.GOOS }

// Builder produces spawn environments. The zero value is usable.
type Builder struct{}

// Build returns a copy of base whose environment prepends the installation's
// executable directory to the search path and records the install root. The
// base options are never mutated.
func (Builder) Build(installRoot string, base execremote.Options) execremote.Options {
	out := base
	out.Env = cloneEnv(base.Env)

	binDir := installBinDir(installRoot)
	pathVar := locate.PathVar()
	if current, ok := locate.LookupEnv(out.Env, pathVar); ok && current != "" {
		out.Env[pathVar] = binDir + string(filepath.ListSeparator) + current
	} else {
		out.Env[pathVar] = binDir
	}
	out.Env[EnvInstallDir] = installRoot
	return out
}

// installBinDir returns the directory holding an installation's executables:
// the root itself on Windows, root/bin elsewhere.
func installBinDir(installRoot string) string {
	if goosFunc() == "windows" {
		return installRoot
	}
	return filepath.Join(installRoot, "bin")
}

func cloneEnv(env map[string]string) map[string]string {
	out := make(map[string]string, len(env)+2)
	for k, v := range env {
		out[k] = v
	}
	return out
}
