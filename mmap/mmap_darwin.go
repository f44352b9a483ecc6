//go:build darwin

package mmap

import "golang.org/x/sys/unix"

// reserveFlags describe the anonymous mapping that holds address space for
// growth.
const reserveFlags = unix.MAP_PRIVATE | unix.MAP_ANON
