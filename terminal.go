package mdtty

import (
	"io"
	"os"
	"strconv"

	"golang.org/x/term"
)

const (
	// DefaultWidth is the layout width used when no width is known.
	DefaultWidth = 80
	// MaxWidth caps the layout width for readability on wide terminals.
	MaxWidth = 80
)

// LayoutWidth resolves the width used for rules, tables and code boxes: the
// requested width if positive, else the terminal width of w, else $COLUMNS,
// else DefaultWidth. The result never exceeds MaxWidth.
func LayoutWidth(requested int, w io.Writer) int {
	width := requested
	if width <= 0 {
		width = TerminalWidth(w)
	}
	if width <= 0 {
		if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
			width = n
		}
	}
	if width <= 0 {
		width = DefaultWidth
	}
	return min(width, MaxWidth)
}

// TerminalWidth returns the column count of w when it is a terminal, or 0.
func TerminalWidth(w io.Writer) int {
	fd, ok := terminalFd(w)
	if !ok {
		return 0
	}
	cols, _, err := term.GetSize(fd)
	if err != nil || cols <= 0 {
		return 0
	}
	return cols
}

// IsTerminal reports whether w is connected to a terminal.
func IsTerminal(w io.Writer) bool {
	_, ok := terminalFd(w)
	return ok
}

func terminalFd(w io.Writer) (int, bool) {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	return fd, term.IsTerminal(fd)
}
