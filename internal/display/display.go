// Package display renders what ftext shows on a terminal: the file-info
// header printed before a run and the progress line of each transform.
package display

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// DefaultWidth is used when the terminal size cannot be read.
const DefaultWidth = 80

var (
	clrLabel   = lipgloss.Color("75")  // sky blue
	clrBar     = lipgloss.Color("114") // sage green
	clrPercent = lipgloss.Color("189") // lavender
	clrKey     = lipgloss.Color("147") // periwinkle
	clrValue   = lipgloss.Color("252")
	clrMuted   = lipgloss.Color("244")
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// TerminalWidth returns the column count of the terminal behind f, or
// DefaultWidth.
func TerminalWidth(f *os.File) int {
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		return w
	}
	return DefaultWidth
}

// truncate shortens s to at most w columns, marking the cut with "…".
func truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= w {
		return s
	}
	return runewidth.Truncate(s, w, "…")
}

// centre pads s with spaces on both sides to w columns.
func centre(s string, w int) string {
	s = truncate(s, w)
	gap := w - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	left := gap / 2
	return runewidth.FillRight(runewidth.FillLeft(s, left+runewidth.StringWidth(s)), w)
}
