package versioncall

import "github.com/kmalakoff/node-version-call-local/internal/dispatch"

// VersionNotFoundError reports that no installed version satisfies the
// requested constraint. Its message embeds the constraint verbatim.
type VersionNotFoundError = dispatch.VersionNotFoundError

// MissingEnvError reports a required environment variable missing from a
// caller-supplied environment. It is raised before any process is spawned.
type MissingEnvError = dispatch.MissingEnvError
