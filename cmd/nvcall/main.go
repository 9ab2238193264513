package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"

	versioncall "github.com/kmalakoff/node-version-call-local"
	"github.com/kmalakoff/node-version-call-local/internal/terminal"
)

// Version, Commit, and BuildDate are overridden at build time.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

const familyName = "nvcall"

func main() {
	runMain(os.Args, os.Stdout, os.Stderr, os.Exit)
}

// runMain registers the runtime identity and workers, handles worker-serve
// dispatch, and executes the CLI, exiting on fatal errors.
func runMain(args []string, stdout io.Writer, stderr io.Writer, exit func(int)) {
	setupLogging(os.Getenv)
	versioncall.SetRuntime(familyName, Version)
	registerWorkers()

	// Worker-serve mode runs before any CLI parsing so a dispatching parent
	// never races cobra's flag handling.
	if served, err := versioncall.MaybeServeWorker(args); served {
		if err != nil {
			printError(stderr, err)
			exit(1)
		}
		return
	}

	if err := execute(args, stdout, stderr); err != nil {
		printError(stderr, err)
		exit(1)
	}
}

// execute runs the CLI command with the provided args and output writers.
func execute(args []string, stdout io.Writer, stderr io.Writer) error {
	cmd := newRootCmd()
	cmd.Version = versionString()
	if len(args) > 1 {
		cmd.SetArgs(args[1:])
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SilenceErrors = true
	return cmd.Execute()
}

// setupLogging installs a debug logger when NVCALL_DEBUG is set; otherwise
// library debug records stay below the default level.
func setupLogging(getenv func(string) string) {
	if getenv("NVCALL_DEBUG") == "" {
		return
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: familyName,
		Level:  log.DebugLevel,
	})
	slog.SetDefault(slog.New(logger))
}

func printError(stderr io.Writer, err error) {
	if terminal.UseColor(stderr, os.Getenv) {
		_, _ = color.New(color.FgRed).Fprintln(stderr, err)
		return
	}
	_, _ = fmt.Fprintln(stderr, err)
}

func versionString() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate)
}
