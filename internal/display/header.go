package display

import (
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// keyWidth is the right-aligned column the header keys are printed in.
const keyWidth = 22

// Permissions renders the permission bits of mode the way ls does for a
// regular file, with s or S in the execute slot of a set-ID bit.
func Permissions(mode fs.FileMode) string {
	var b strings.Builder
	b.WriteByte('-')

	bit := func(set bool, c byte) {
		if set {
			b.WriteByte(c)
		} else {
			b.WriteByte('-')
		}
	}
	exec := func(x, id bool) {
		switch {
		case x && id:
			b.WriteByte('s')
		case id:
			b.WriteByte('S')
		case x:
			b.WriteByte('x')
		default:
			b.WriteByte('-')
		}
	}

	perm := mode.Perm()
	bit(perm&0400 != 0, 'r')
	bit(perm&0200 != 0, 'w')
	exec(perm&0100 != 0, mode&fs.ModeSetuid != 0)
	bit(perm&0040 != 0, 'r')
	bit(perm&0020 != 0, 'w')
	exec(perm&0010 != 0, mode&fs.ModeSetgid != 0)
	bit(perm&0004 != 0, 'r')
	bit(perm&0002 != 0, 'w')
	bit(perm&0001 != 0, 'x')

	return b.String()
}

// Header writes the file-info block: name, modification time, permissions
// and size, one per line, keys right-aligned. now is used for the relative
// age of the file.
func Header(w io.Writer, name string, fi fs.FileInfo, width int, now time.Time) error {
	r := lipgloss.NewRenderer(w)
	key := r.NewStyle().Foreground(clrKey).Bold(true)
	value := r.NewStyle().Foreground(clrValue)
	muted := r.NewStyle().Foreground(clrMuted)

	room := width - keyWidth - 1
	mtime := fi.ModTime().UTC()

	rows := []struct {
		key, value, note string
	}{
		{"FILENAME", truncate(name, room), ""},
		{"MODIFIED", mtime.Format("Monday 02 January 2006 at 15:04:05 MST"), humanize.RelTime(mtime, now, "ago", "from now")},
		{"PERMISSIONS", Permissions(fi.Mode()), ""},
		{"SIZE", humanize.IBytes(uint64(fi.Size())), humanize.Comma(fi.Size()) + " bytes"},
	}

	for _, row := range rows {
		line := key.Render(fmt.Sprintf("%*s", keyWidth, row.key)) + " " + value.Render(row.value)
		if row.note != "" {
			line += " " + muted.Render("("+row.note+")")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
