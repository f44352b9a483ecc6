//go:build linux || darwin

package ftext

import (
	"errors"
	"io/fs"
	"os"

	"golang.org/x/sys/unix"
)

// Validate checks that path names an existing regular file the process may
// read and write. Symbolic links are rejected rather than followed.
func Validate(path string) error {
	fi, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return WrapError(ErrNotExist, err)
		}
		return WrapError(ErrNotReadable, err)
	}

	if err := unix.Access(path, unix.R_OK); err != nil {
		return WrapError(ErrNotReadable, err)
	}
	if err := unix.Access(path, unix.W_OK); err != nil {
		return WrapError(ErrNotWritable, err)
	}

	if !fi.Mode().IsRegular() {
		return NewError(ErrNotRegular)
	}
	return nil
}
