package review

import (
	"os"

	"golang.org/x/term"
)

// IsTTY checks if the given file descriptor is a terminal.
func IsTTY(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// IsOutputTerminal checks if stdout is a TTY. Used to pick the default log
// format: human-readable in a terminal, JSON when redirected (e.g. CI).
func IsOutputTerminal() bool {
	return IsTTY(os.Stdout.Fd())
}
