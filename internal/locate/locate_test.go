package locate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kmalakoff/node-version-call-local/internal/semver"
	"github.com/kmalakoff/node-version-call-local/internal/testutil"
)

func withGOOS(t *testing.T, goos string) {
	t.Helper()
	prev := goosFunc
	goosFunc = func() string { return goos }
	t.Cleanup(func() { goosFunc = prev })
}

func TestLocateFromSearchPath(t *testing.T) {
	withGOOS(t, "linux")
	root := t.TempDir()
	oldDir := filepath.Join(root, "versions", "v12.22.0", "bin")
	newDir := filepath.Join(root, "versions", "v14.17.0", "bin")
	for _, dir := range []string{oldDir, newDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		testutil.WriteStub(t, dir, "node")
	}

	env := map[string]string{
		"PATH": strings.Join([]string{oldDir, newDir}, string(filepath.ListSeparator)),
	}
	loc := New("node", nil)
	path, found, err := loc.Locate(">=12", env)
	if err != nil {
		t.Fatalf("Locate error: %v", err)
	}
	if !found {
		t.Fatalf("expected a match")
	}
	if path != filepath.Join(newDir, "node") {
		t.Fatalf("expected highest version picked, got %q", path)
	}
}

func TestLocateSearchPathSkipsUnversionedEntries(t *testing.T) {
	withGOOS(t, "linux")
	dir := filepath.Join(t.TempDir(), "plain", "bin")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	testutil.WriteStub(t, dir, "node")

	loc := New("node", nil)
	_, found, err := loc.Locate(">=0", map[string]string{"PATH": dir})
	if err != nil {
		t.Fatalf("Locate error: %v", err)
	}
	if found {
		t.Fatalf("expected no match for unversioned path entry")
	}
}

func TestLocateFromInstallRoot(t *testing.T) {
	withGOOS(t, "linux")
	root := t.TempDir()
	testutil.WriteInstall(t, root, "node", "v14.17.0")
	testutil.WriteInstall(t, root, "node", "v16.3.0")
	testutil.WriteInstall(t, root, "node", "v18.1.0")

	loc := New("node", []string{root})
	path, found, err := loc.Locate(">=14 <17", map[string]string{"PATH": ""})
	if err != nil {
		t.Fatalf("Locate error: %v", err)
	}
	if !found {
		t.Fatalf("expected a match")
	}
	want := filepath.Join(root, "versions", "v16.3.0", "bin", "node")
	if path != want {
		t.Fatalf("expected %q, got %q", want, path)
	}
}

func TestLocateInstallRootSkipsNonDirAndInvalidNames(t *testing.T) {
	withGOOS(t, "linux")
	root := t.TempDir()
	versionsDir := filepath.Join(root, "versions")
	if err := os.MkdirAll(filepath.Join(versionsDir, "not-a-version"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(versionsDir, "v9.9.9"), []byte("file, not dir"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	testutil.WriteInstall(t, root, "node", "v14.17.0")

	loc := New("node", []string{root})
	path, found, err := loc.Locate(">=0", map[string]string{"PATH": ""})
	if err != nil {
		t.Fatalf("Locate error: %v", err)
	}
	if !found {
		t.Fatalf("expected a match")
	}
	if !strings.Contains(path, "v14.17.0") {
		t.Fatalf("expected v14.17.0 picked, got %q", path)
	}
}

func TestLocateMissingRootIsNotAnError(t *testing.T) {
	withGOOS(t, "linux")
	loc := New("node", []string{filepath.Join(t.TempDir(), "does-not-exist")})
	_, found, err := loc.Locate(">=0", map[string]string{"PATH": ""})
	if err != nil {
		t.Fatalf("Locate error: %v", err)
	}
	if found {
		t.Fatalf("expected no match")
	}
}

func TestLocateInvalidConstraint(t *testing.T) {
	loc := New("node", nil)
	_, _, err := loc.Locate("not a constraint", map[string]string{"PATH": ""})
	if err == nil {
		t.Fatalf("expected error for malformed constraint")
	}
}

func TestLocateNoMatch(t *testing.T) {
	withGOOS(t, "linux")
	root := t.TempDir()
	testutil.WriteInstall(t, root, "node", "v14.17.0")

	loc := New("node", []string{root})
	_, found, err := loc.Locate(">=20", map[string]string{"PATH": ""})
	if err != nil {
		t.Fatalf("Locate error: %v", err)
	}
	if found {
		t.Fatalf("expected no match for unsatisfiable constraint")
	}
}

func TestPickEarliestWinsOnEqualVersions(t *testing.T) {
	c, err := semver.ParseConstraint(">=1")
	if err != nil {
		t.Fatalf("parse constraint: %v", err)
	}
	v, err := semver.ParseVersion("2.0.0")
	if err != nil {
		t.Fatalf("parse version: %v", err)
	}
	candidates := []candidate{
		{version: v, execPath: "first"},
		{version: v, execPath: "second"},
	}
	best, ok := pick(c, candidates)
	if !ok {
		t.Fatalf("expected a match")
	}
	if best.execPath != "first" {
		t.Fatalf("expected earliest candidate kept, got %q", best.execPath)
	}
}

func TestVersionFromPath(t *testing.T) {
	cases := []struct {
		dir  string
		want string
		ok   bool
	}{
		{filepath.Join("home", ".nvm", "versions", "v14.17.0", "bin"), "14.17.0", true},
		{filepath.Join("opt", "v1.2.3"), "1.2.3", true},
		{filepath.Join("usr", "local", "bin"), "", false},
		{filepath.Join("v2.0.0", "nested", "bin"), "2.0.0", true},
	}
	for _, tc := range cases {
		v, ok := versionFromPath(tc.dir)
		if ok != tc.ok {
			t.Fatalf("versionFromPath(%q) ok = %v, want %v", tc.dir, ok, tc.ok)
		}
		if ok && v.String() != tc.want {
			t.Fatalf("versionFromPath(%q) = %q, want %q", tc.dir, v.String(), tc.want)
		}
	}
}

func TestVersionFromPathPicksDeepestComponent(t *testing.T) {
	dir := filepath.Join("v1.0.0", "versions", "v2.0.0", "bin")
	v, ok := versionFromPath(dir)
	if !ok {
		t.Fatalf("expected a version")
	}
	if v.String() != "2.0.0" {
		t.Fatalf("expected deepest component to win, got %q", v.String())
	}
}

func TestInstallRootFor(t *testing.T) {
	exec := filepath.Join("root", "versions", "v14.17.0", "bin", "node")
	if got := installRootFor(exec, "linux"); got != filepath.Join("root", "versions", "v14.17.0") {
		t.Fatalf("unexpected linux install root: %q", got)
	}
	winExec := filepath.Join("root", "versions", "v14.17.0", "node.exe")
	if got := installRootFor(winExec, "windows"); got != filepath.Join("root", "versions", "v14.17.0") {
		t.Fatalf("unexpected windows install root: %q", got)
	}
}

func TestInstallExecPath(t *testing.T) {
	dir := filepath.Join("root", "versions", "v14.17.0")
	if got := installExecPath(dir, "node", "linux"); got != filepath.Join(dir, "bin", "node") {
		t.Fatalf("unexpected linux exec path: %q", got)
	}
	withGOOS(t, "windows")
	if got := installExecPath(dir, "node", "windows"); got != filepath.Join(dir, "node.exe") {
		t.Fatalf("unexpected windows exec path: %q", got)
	}
}

func TestPathVar(t *testing.T) {
	cases := []struct {
		goos string
		want string
	}{
		{"linux", "PATH"},
		{"darwin", "PATH"},
		{"windows", "Path"},
		{"plan9", "path"},
	}
	for _, tc := range cases {
		withGOOS(t, tc.goos)
		if got := PathVar(); got != tc.want {
			t.Fatalf("PathVar on %s = %q, want %q", tc.goos, got, tc.want)
		}
	}
}

func TestLookupEnvCaseInsensitiveOnWindows(t *testing.T) {
	env := map[string]string{"PATH": "/usr/bin"}

	withGOOS(t, "linux")
	if _, ok := LookupEnv(env, "Path"); ok {
		t.Fatalf("expected case-sensitive lookup on linux")
	}

	withGOOS(t, "windows")
	v, ok := LookupEnv(env, "Path")
	if !ok || v != "/usr/bin" {
		t.Fatalf("expected case-insensitive lookup on windows, got %q %v", v, ok)
	}
}

func TestLookupEnvNilMap(t *testing.T) {
	if _, ok := LookupEnv(nil, "PATH"); ok {
		t.Fatalf("expected no match for nil env")
	}
}
