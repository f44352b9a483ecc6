//go:build !linux

package ftext

import "os"

// allocate extends the file to offset+n bytes.
func allocate(f *os.File, offset, n int64) error {
	return f.Truncate(offset + n)
}
