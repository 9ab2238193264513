package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	versioncall "github.com/kmalakoff/node-version-call-local"
)

func runCLI(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := 0
	runMain(append([]string{"nvcall"}, args...), &stdout, &stderr, func(c int) { code = c })
	return stdout.String(), stderr.String(), code
}

func TestCallEchoLocal(t *testing.T) {
	stdout, stderr, code := runCLI(t, "call", Version, "workers/echo", `"hello"`, "42")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}
	var result []any
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("parse output %q: %v", stdout, err)
	}
	if len(result) != 2 || result[0] != "hello" {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestCallSyncFlag(t *testing.T) {
	stdout, stderr, code := runCLI(t, "call", "--sync", Version, "workers/echo", `"x"`)
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, `"x"`) {
		t.Fatalf("unexpected output: %q", stdout)
	}
}

func TestCallHostinfo(t *testing.T) {
	stdout, stderr, code := runCLI(t, "call", Version, "workers/hostinfo")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}
	var result map[string]any
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("parse output %q: %v", stdout, err)
	}
	if result["runtime"] != familyName {
		t.Fatalf("expected runtime %q, got %#v", familyName, result["runtime"])
	}
}

func TestCallVersionNotFound(t *testing.T) {
	_, stderr, code := runCLI(t, "call", ">=999", "workers/echo", "--env", "PATH=")
	if code == 0 {
		t.Fatalf("expected failure")
	}
	if !strings.Contains(stderr, ">=999") {
		t.Fatalf("expected constraint in error, got %q", stderr)
	}
}

func TestCallRejectsBadEnvFlag(t *testing.T) {
	_, _, code := runCLI(t, "call", Version, "workers/echo", "--env", "NOEQUALS")
	if code == 0 {
		t.Fatalf("expected failure for malformed --env")
	}
}

func TestCallTooFewArgs(t *testing.T) {
	_, _, code := runCLI(t, "call", ">=1")
	if code == 0 {
		t.Fatalf("expected usage failure")
	}
}

func TestWhichNotFound(t *testing.T) {
	_, stderr, code := runCLI(t, "which", ">=999")
	if code == 0 {
		t.Fatalf("expected failure")
	}
	if !strings.Contains(stderr, ">=999") {
		t.Fatalf("expected constraint in error, got %q", stderr)
	}
}

func TestParseJSONArgs(t *testing.T) {
	args, err := parseJSONArgs([]string{`"quoted"`, "42", "true", `{"k":1}`, "bare string"})
	if err != nil {
		t.Fatalf("parseJSONArgs error: %v", err)
	}
	if args[0] != "quoted" {
		t.Fatalf("expected quoted string parsed, got %#v", args[0])
	}
	if n, ok := args[1].(json.Number); !ok || n.String() != "42" {
		t.Fatalf("expected number, got %#v", args[1])
	}
	if args[2] != true {
		t.Fatalf("expected bool, got %#v", args[2])
	}
	if _, ok := args[3].(map[string]any); !ok {
		t.Fatalf("expected object, got %#v", args[3])
	}
	if args[4] != "bare string" {
		t.Fatalf("expected unparseable input kept as string, got %#v", args[4])
	}
}

func TestParseEnvFlags(t *testing.T) {
	env, err := parseEnvFlags([]string{"A=1", "B=x=y"})
	if err != nil {
		t.Fatalf("parseEnvFlags error: %v", err)
	}
	if env["A"] != "1" || env["B"] != "x=y" {
		t.Fatalf("unexpected env: %#v", env)
	}
	if _, err := parseEnvFlags([]string{"NOEQUALS"}); err == nil {
		t.Fatalf("expected error for missing separator")
	}
	if _, err := parseEnvFlags([]string{"=value"}); err == nil {
		t.Fatalf("expected error for empty key")
	}
}

func TestVersionString(t *testing.T) {
	if !strings.Contains(versionString(), Version) {
		t.Fatalf("expected version embedded, got %q", versionString())
	}
}

func TestRuntimeRegisteredOnRun(t *testing.T) {
	runCLI(t, "call", Version, "workers/echo")
	name, version := versioncall.CurrentRuntime()
	if name != familyName || version != Version {
		t.Fatalf("unexpected runtime identity: %q %q", name, version)
	}
}
