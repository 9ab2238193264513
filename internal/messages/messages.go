// Package messages centralizes user-facing and error message strings.
package messages

// Dispatch messages for version resolution and invocation routing.
const (
	// DispatchVersionNotFoundFmt formats the locate failure. The constraint
	// string is embedded verbatim; callers pattern-match on it.
	DispatchVersionNotFoundFmt = "no version matching %s was found on this system"

	// DispatchMissingEnvFmt formats the missing required environment variable error.
	DispatchMissingEnvFmt = "required environment variable %s is missing from the configured environment"

	DispatchConstraintRequired = "version constraint is required"
	DispatchWorkerRequired     = "worker reference is required"
	DispatchRuntimeRequired    = "runtime identity is required; call SetRuntime before invoking"
	DispatchExecutableFmt      = "resolve current executable: %w"
)

// Locate messages for installation scanning.
const (
	// LocateInvalidConstraintFmt formats constraint parse failures.
	LocateInvalidConstraintFmt = "invalid version constraint %q: %w"

	LocateSystemRequired = "locate system is required"
	LocateReadRootFmt    = "read install root %s: %w"
)

// Worker messages for the registry and the serve loop.
const (
	// WorkerNotFoundFmt formats a lookup miss in the worker registry.
	WorkerNotFoundFmt = "no worker registered for %s"

	WorkerNotCallbackFmt      = "worker %s is not callback-style"
	WorkerNotPlainFmt         = "worker %s is callback-style; set CallbackStyleWorker to invoke it"
	WorkerPanicFmt            = "worker %s panicked: %v"
	WorkerCallbackReturnedNil = "callback-style worker completed without invoking its callback"

	ServeReadRequestFmt    = "read worker request %s: %w"
	ServeParseRequestFmt   = "parse worker request %s: %w"
	ServeDecodeArgsFmt     = "decode worker arguments: %w"
	ServeEncodeResultFmt   = "encode worker result: %w"
	ServeWriteResponseFmt  = "write worker response %s: %w"
	ServeCommitResponseFmt = "commit worker response %s: %w"
)

// Exec messages for the subprocess transport.
const (
	// ExecSpawnFmt formats process start failures.
	ExecSpawnFmt = "spawn %s: %w"

	ExecEncodeRequestFmt  = "encode invocation request: %w"
	ExecTempDirFmt        = "create invocation workspace: %w"
	ExecWriteRequestFmt   = "write invocation request %s: %w"
	ExecWaitFmt           = "worker process %s: %w"
	ExecExitFmt           = "worker process %s exited: %w%s"
	ExecNoResponseFmt     = "worker process %s produced no response"
	ExecParseResponseFmt  = "parse worker response %s: %w"
	ExecDecodeResultFmt   = "decode worker result: %w"
	ExecStderrSuffixFmt   = "\nstderr:\n%s"
	ExecExecutableMissing = "executable path is required"
)

// Config messages for settings discovery and parsing.
const (
	// ConfigParseFmt formats TOML parse failures.
	ConfigParseFmt = "parse %s: %w"

	ConfigReadFmt          = "read config %s: %w"
	ConfigStartRequired    = "config search start directory is required"
	ConfigExpandRootFmt    = "expand install root %s: %w"
	ConfigPollIntervalFmt  = "poll_interval_ms must be positive, got %d"
	ConfigEnvFileFmt       = "load env file %s: %w"
	ConfigRootNotDirectory = "config marker %s is not a regular file"
)

// Envfile messages for .env parsing.
const (
	// EnvfileLineErrorFmt formats a parse failure with its line number.
	EnvfileLineErrorFmt = "line %d: %w"

	EnvfileReadFailedFmt     = "read env content: %w"
	EnvfileMissingKeyFmt     = "missing key before %q"
	EnvfileInvalidKeyFmt     = "invalid key %q"
	EnvfileUnterminatedQuote = "unterminated quoted value"
)

// Wire messages for the value codec.
const (
	// WireUnsupportedFmt formats an encode failure for an unsupported Go type.
	WireUnsupportedFmt = "cannot encode value of type %T"

	WireDecodeFmt      = "decode wire value: %w"
	WireBadTagFmt      = "malformed %q wire value"
	WireUnknownTagFmt  = "unknown wire tag %q"
	WireMapKeyFmt      = "cannot encode map key of type %T"
	WireInvalidURLFmt  = "invalid wire url %q: %w"
	WireInvalidTimeFmt = "invalid wire timestamp %q: %w"
)
