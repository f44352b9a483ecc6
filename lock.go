//go:build linux || darwin

package ftext

import (
	"errors"

	"golang.org/x/sys/unix"
)

// lock takes the exclusive writer lock without blocking. A second process
// formatting the same file fails here instead of racing on the mapping.
func (f *File) lock() error {
	err := unix.Flock(int(f.file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err != nil {
		if errors.Is(err, unix.EWOULDBLOCK) {
			return NewError(ErrLocked)
		}
		return WrapError(ErrLocked, err)
	}
	f.locked = true
	return nil
}

// unlock releases the writer lock.
func (f *File) unlock() error {
	if !f.locked {
		return nil
	}
	err := unix.Flock(int(f.file.Fd()), unix.LOCK_UN)
	if err != nil {
		return WrapError(ErrLocked, err)
	}
	f.locked = false
	return nil
}
