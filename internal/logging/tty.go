package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

type fder interface{ Fd() uintptr }

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	if f, ok := w.(fder); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// IsInteractive returns true if r is a terminal, e.g. stdin attached to a shell.
func IsInteractive(r io.Reader) bool {
	if f, ok := r.(fder); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// SupportsColor returns true if w accepts ANSI colour codes. It is false
// when w is not a TTY, NO_COLOR is set, or TERM is "dumb".
func SupportsColor(w io.Writer) bool {
	return supportsColor(IsTTY(w))
}

func supportsColor(isTTY bool) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTTY
}
