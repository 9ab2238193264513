// Package testutil provides helpers for exercising version resolution and
// worker dispatch against stub executables.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteStub writes an executable shell stub that exits successfully.
// t is the active test; dir is the output directory; name is the executable file name.
func WriteStub(t *testing.T, dir string, name string) string {
	t.Helper()
	return WriteStubScript(t, dir, name, "#!/bin/sh\nexit 0\n")
}

// WriteWorkerStub writes an executable shell stub that mimics a worker
// process: invoked as `stub <flag> <request> <response>`, it writes the
// provided response JSON to the response path and exits successfully.
func WriteWorkerStub(t *testing.T, dir string, name string, responseJSON string) string {
	t.Helper()
	script := fmt.Sprintf("#!/bin/sh\nprintf '%%s' '%s' > \"$3\"\n", responseJSON)
	return WriteStubScript(t, dir, name, script)
}

// WriteFailingStub writes an executable shell stub that prints to stderr
// and exits with the provided code without producing a response.
func WriteFailingStub(t *testing.T, dir string, name string, stderr string, exitCode int) string {
	t.Helper()
	script := fmt.Sprintf("#!/bin/sh\necho '%s' >&2\nexit %d\n", stderr, exitCode)
	return WriteStubScript(t, dir, name, script)
}

// WriteStubScript writes an executable file with the provided script body
// and returns its path.
func WriteStubScript(t *testing.T, dir string, name string, script string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

// WriteInstall lays out an nvm-style installation under root for the given
// family and version and returns the executable path.
func WriteInstall(t *testing.T, root string, family string, version string) string {
	t.Helper()
	binDir := filepath.Join(root, "versions", version, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir install: %v", err)
	}
	return WriteStub(t, binDir, family)
}

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool {
	return &v
}
