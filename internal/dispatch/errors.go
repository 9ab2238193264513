package dispatch

import (
	"errors"
	"fmt"

	"github.com/kmalakoff/node-version-call-local/internal/messages"
)

var errUnknownExecutable = errors.New("unknown current executable")

// VersionNotFoundError reports that no installed version satisfies a
// constraint. The message embeds the constraint string verbatim; callers
// pattern-match on it.
type VersionNotFoundError struct {
	Constraint string
}

func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf(messages.DispatchVersionNotFoundFmt, e.Constraint)
}

// MissingEnvError reports a required environment variable absent from the
// configured environment. It is raised before any process is spawned.
type MissingEnvError struct {
	Key string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf(messages.DispatchMissingEnvFmt, e.Key)
}
