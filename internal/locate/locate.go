// Package locate finds installed runtime versions satisfying a semver
// constraint. It scans the executable-search-path of the supplied
// environment plus any configured install roots laid out as
// <root>/versions/<vX.Y.Z>.
package locate

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/kmalakoff/node-version-call-local/internal/messages"
	"github.com/kmalakoff/node-version-call-local/internal/semver"
)

var goosFunc = func() string { return runtime.GOOS }

// Locator scans for installations of one binary family.
type Locator struct {
	family     string
	extraRoots []string
	sys        System
}

// candidate is a discovered installation.
type candidate struct {
	version  semver.Version
	execPath string
}

// New returns a Locator for the named family. extraRoots lists additional
// install roots to scan beyond the environment's search path.
func New(family string, extraRoots []string) *Locator {
	return NewWithSystem(RealSystem{}, family, extraRoots)
}

// NewWithSystem returns a Locator backed by the provided System.
func NewWithSystem(sys System, family string, extraRoots []string) *Locator {
	return &Locator{family: family, extraRoots: extraRoots, sys: sys}
}

// Locate returns the executable path of the best installed version
// satisfying constraint, searching env's path variable and the configured
// install roots. found is false when no installation qualifies. A malformed
// constraint is an error.
func (l *Locator) Locate(constraint string, env map[string]string) (path string, found bool, err error) {
	if l.sys == nil {
		return "", false, fmt.Errorf(messages.LocateSystemRequired)
	}
	c, err := semver.ParseConstraint(constraint)
	if err != nil {
		return "", false, fmt.Errorf(messages.LocateInvalidConstraintFmt, constraint, err)
	}

	candidates := l.scanSearchPath(env)
	for _, root := range l.extraRoots {
		more, err := l.scanRoot(root)
		if err != nil {
			return "", false, err
		}
		candidates = append(candidates, more...)
	}

	best, ok := pick(c, candidates)
	if !ok {
		return "", false, nil
	}
	slog.Debug("located installation", "constraint", constraint, "version", best.version.String(), "path", best.execPath)
	return best.execPath, true, nil
}

// scanSearchPath collects candidates from the path variable of env, falling
// back to the ambient environment when env is nil. Entries whose directory
// chain carries no parseable version component are skipped.
func (l *Locator) scanSearchPath(env map[string]string) []candidate {
	value, ok := LookupEnv(env, PathVar())
	if !ok {
		if env != nil {
			return nil
		}
		value = l.sys.Getenv(PathVar())
	}

	var out []candidate
	for _, dir := range filepath.SplitList(value) {
		if dir == "" {
			continue
		}
		execPath := filepath.Join(dir, ExecName(l.family))
		if !l.isRegular(execPath) {
			continue
		}
		version, ok := versionFromPath(dir)
		if !ok {
			continue
		}
		out = append(out, candidate{version: version, execPath: execPath})
	}
	return out
}

// scanRoot collects candidates from an nvm-style install root. A missing
// root is not an error; an unreadable versions directory is.
func (l *Locator) scanRoot(root string) ([]candidate, error) {
	versionsDir := filepath.Join(root, "versions")
	if _, err := l.sys.Stat(versionsDir); err != nil {
		return nil, nil
	}
	entries, err := l.sys.ReadDir(versionsDir)
	if err != nil {
		return nil, fmt.Errorf(messages.LocateReadRootFmt, root, err)
	}

	var out []candidate
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		version, err := semver.ParseVersion(entry.Name())
		if err != nil {
			continue
		}
		execPath := installExecPath(filepath.Join(versionsDir, entry.Name()), l.family, goosFunc())
		if !l.isRegular(execPath) {
			continue
		}
		out = append(out, candidate{version: version, execPath: execPath})
	}
	return out, nil
}

func (l *Locator) isRegular(path string) bool {
	info, err := l.sys.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// pick returns the highest candidate satisfying c. When several candidates
// carry the same version, the earliest discovered wins.
func pick(c semver.Constraint, candidates []candidate) (candidate, bool) {
	versions := make([]semver.Version, len(candidates))
	for i, cand := range candidates {
		versions[i] = cand.version
	}
	best, ok := semver.MaxSatisfying(c, versions)
	if !ok {
		return candidate{}, false
	}
	for _, cand := range candidates {
		if semver.Compare(cand.version, best) == 0 {
			return cand, true
		}
	}
	return candidate{}, false
}

// versionFromPath extracts a semantic version from the deepest path
// component that parses as one.
func versionFromPath(dir string) (semver.Version, bool) {
	rest := filepath.Clean(dir)
	for {
		parent, component := filepath.Split(rest)
		// Strict parsing only: loose coercion would treat bare numeric
		// directory names as versions.
		if semver.IsVersion(component) {
			if v, err := semver.ParseVersion(component); err == nil {
				return v, true
			}
		}
		parent = strings.TrimRight(parent, string(filepath.Separator))
		if parent == "" || parent == rest {
			return semver.Version{}, false
		}
		rest = parent
	}
}

// installExecPath returns where an installation under dir keeps its
// executable: directly in the root on Windows, under bin elsewhere.
func installExecPath(dir string, family string, goos string) string {
	if goos == "windows" {
		return filepath.Join(dir, ExecName(family))
	}
	return filepath.Join(dir, "bin", ExecName(family))
}

// InstallRoot derives the installation root from an executable path: the
// parent directory on Windows, the grandparent (above bin) elsewhere.
func InstallRoot(execPath string) string {
	return installRootFor(execPath, goosFunc())
}

func installRootFor(execPath string, goos string) string {
	if goos == "windows" {
		return filepath.Dir(execPath)
	}
	return filepath.Dir(filepath.Dir(execPath))
}

// ExecName returns the platform executable filename for a family.
func ExecName(family string) string {
	if goosFunc() == "windows" {
		return family + ".exe"
	}
	return family
}

// PathVar returns the name of the executable-search-path variable for the
// current platform.
func PathVar() string {
	switch goosFunc() {
	case "windows":
		return "Path"
	case "plan9":
		return "path"
	default:
		return "PATH"
	}
}

// LookupEnv finds key in env, matching case-insensitively on Windows where
// environment variable names are folded.
func LookupEnv(env map[string]string, key string) (string, bool) {
	if env == nil {
		return "", false
	}
	if v, ok := env[key]; ok {
		return v, true
	}
	if goosFunc() == "windows" {
		for k, v := range env {
			if strings.EqualFold(k, key) {
				return v, true
			}
		}
	}
	return "", false
}
