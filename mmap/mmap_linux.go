//go:build linux

package mmap

import "golang.org/x/sys/unix"

// reserveFlags describe the anonymous mapping that holds address space for
// growth. MAP_NORESERVE keeps the kernel from charging it against overcommit.
const reserveFlags = unix.MAP_PRIVATE | unix.MAP_ANONYMOUS | unix.MAP_NORESERVE
