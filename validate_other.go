//go:build !linux && !darwin

package ftext

import (
	"errors"
	"io/fs"
	"os"
)

// Validate checks that path names an existing regular file.
func Validate(path string) error {
	fi, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return WrapError(ErrNotExist, err)
		}
		return WrapError(ErrNotReadable, err)
	}
	if !fi.Mode().IsRegular() {
		return NewError(ErrNotRegular)
	}
	return nil
}
