//go:build linux

package ftext

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// allocate reserves n bytes of disk at offset and extends the file to
// cover them. Filesystems without fallocate get a plain truncate, which
// extends the file with a hole.
func allocate(f *os.File, offset, n int64) error {
	err := unix.Fallocate(int(f.Fd()), 0, offset, n)
	if errors.Is(err, unix.EOPNOTSUPP) || errors.Is(err, unix.ENOSYS) {
		return f.Truncate(offset + n)
	}
	return err
}
