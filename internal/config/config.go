// Package config loads project settings for version-constrained invocation:
// extra install roots to scan, the subprocess poll interval, and an optional
// env file merged into spawn environments. Settings live in
// version-call.toml, discovered by walking upward from a starting directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/kmalakoff/node-version-call-local/internal/envfile"
	"github.com/kmalakoff/node-version-call-local/internal/messages"
)

// FileName is the settings file discovered in a project root.
const FileName = "version-call.toml"

// Settings is the parsed content of version-call.toml. The zero value is a
// valid configuration.
type Settings struct {
	// InstallRoots lists extra nvm-style install roots to scan. Entries may
	// start with ~ for the current user's home directory.
	InstallRoots []string `toml:"install_roots"`
	// PollIntervalMS overrides the subprocess poll interval when positive.
	PollIntervalMS int `toml:"poll_interval_ms"`
	// EnvFile names a .env file, relative to the config directory, merged
	// into spawn environments.
	EnvFile string `toml:"env_file"`

	dir string
}

// Load reads version-call.toml from dir. found is false when the file does
// not exist.
func Load(dir string) (Settings, bool, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Settings{}, false, nil
		}
		return Settings{}, false, fmt.Errorf(messages.ConfigReadFmt, path, err)
	}

	var s Settings
	if err := toml.Unmarshal(data, &s); err != nil {
		return Settings{}, false, fmt.Errorf(messages.ConfigParseFmt, path, err)
	}
	if s.PollIntervalMS < 0 {
		return Settings{}, false, fmt.Errorf(messages.ConfigPollIntervalFmt, s.PollIntervalMS)
	}
	s.dir = dir
	return s, true, nil
}

// Discover walks upward from start looking for version-call.toml and loads
// the first one found.
func Discover(start string) (Settings, bool, error) {
	if start == "" {
		return Settings{}, false, fmt.Errorf(messages.ConfigStartRequired)
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return Settings{}, false, err
	}
	for {
		info, err := os.Stat(filepath.Join(dir, FileName))
		if err == nil {
			if !info.Mode().IsRegular() {
				return Settings{}, false, fmt.Errorf(messages.ConfigRootNotDirectory, filepath.Join(dir, FileName))
			}
			return Load(dir)
		}
		if !errors.Is(err, os.ErrNotExist) {
			return Settings{}, false, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Settings{}, false, nil
		}
		dir = parent
	}
}

// ResolveRoots expands the configured install roots, resolving ~ prefixes.
func (s Settings) ResolveRoots() ([]string, error) {
	out := make([]string, 0, len(s.InstallRoots))
	for _, root := range s.InstallRoots {
		expanded, err := homedir.Expand(root)
		if err != nil {
			return nil, fmt.Errorf(messages.ConfigExpandRootFmt, root, err)
		}
		out = append(out, expanded)
	}
	return out, nil
}

// PollInterval returns the configured poll interval, or zero when unset.
func (s Settings) PollInterval() time.Duration {
	if s.PollIntervalMS <= 0 {
		return 0
	}
	return time.Duration(s.PollIntervalMS) * time.Millisecond
}

// Environment merges the configured env file, when present, over base.
// base is returned unchanged when no env file is configured.
func (s Settings) Environment(base map[string]string) (map[string]string, error) {
	if s.EnvFile == "" {
		return base, nil
	}
	path := s.EnvFile
	if !filepath.IsAbs(path) && s.dir != "" {
		path = filepath.Join(s.dir, path)
	}
	overlay, err := envfile.Load(path)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigEnvFileFmt, path, err)
	}
	return envfile.Merge(base, overlay), nil
}
