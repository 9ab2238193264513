// Package terminal provides terminal detection for CLI output decisions.
package terminal

import (
	"io"
	"os"

	"golang.org/x/term"
)

// UseColor reports whether colored output should be written to w, honoring
// the NO_COLOR convention and requiring w to be a terminal.
func UseColor(w io.Writer, getenv func(string) string) bool {
	if getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
