//go:build linux || darwin

package mmap

import (
	"errors"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

var pageSize = int64(os.Getpagesize())

func pageUp(n int64) int64 {
	return (n + pageSize - 1) &^ (pageSize - 1)
}

func pageDown(n int64) int64 {
	return n &^ (pageSize - 1)
}

// New reserves capacity bytes of address space and maps the first length
// bytes of fd at its start. A capacity of zero selects CapacityFor(length).
// A zero length is allowed; nothing is backed until the first Remap.
func New(fd int, length, capacity int64, writable bool) (*Map, error) {
	if length < 0 {
		return nil, ErrInvalidSize
	}
	if capacity <= 0 {
		capacity = CapacityFor(length)
	}
	if capacity < length {
		return nil, ErrInvalidSize
	}
	capacity = pageUp(capacity)

	base, err := unix.MmapPtr(-1, 0, nil, uintptr(capacity), unix.PROT_NONE, reserveFlags)
	if err != nil {
		return nil, &Error{Op: "reserve", Err: err}
	}

	m := &Map{
		base:     base,
		fd:       fd,
		capacity: capacity,
		writable: writable,
	}

	if length > 0 {
		if err := m.mapRange(0, length); err != nil {
			unix.MunmapPtr(base, uintptr(capacity))
			return nil, err
		}
	}
	m.setSize(length)

	return m, nil
}

func (m *Map) prot() int {
	prot := unix.PROT_READ
	if m.writable {
		prot |= unix.PROT_WRITE
	}
	return prot
}

func (m *Map) setSize(n int64) {
	m.size = n
	m.data = unsafe.Slice((*byte)(m.base), int(n))
}

// mapRange backs [from, to) with the file. The start is rounded down to a
// page boundary because file offsets passed to mmap must be page aligned.
func (m *Map) mapRange(from, to int64) error {
	off := pageDown(from)
	addr := unsafe.Add(m.base, off)

	p, err := unix.MmapPtr(m.fd, off, addr, uintptr(to-off), m.prot(), unix.MAP_SHARED|unix.MAP_FIXED)
	if err != nil {
		return &Error{Op: "mmap", Err: err}
	}
	if p != addr {
		return &Error{Op: "mmap", Err: errors.New("fixed mapping placed at a different address")}
	}
	return nil
}

// releaseRange hands the page-aligned range [from, to) back to the
// reservation.
func (m *Map) releaseRange(from, to int64) error {
	if to <= from {
		return nil
	}
	addr := unsafe.Add(m.base, from)

	if _, err := unix.MmapPtr(-1, 0, addr, uintptr(to-from), unix.PROT_NONE, reserveFlags|unix.MAP_FIXED); err != nil {
		return &Error{Op: "release", Err: err}
	}
	return nil
}

// Remap changes the size of the mapping without moving it. The caller is
// responsible for the file being at least newSize bytes long; touching a
// mapped page past end of file raises SIGBUS.
func (m *Map) Remap(newSize int64) error {
	if m.base == nil {
		return ErrNotMapped
	}

	if newSize < 0 {
		return ErrInvalidSize
	}

	if newSize == m.size {
		return nil
	}

	if newSize > m.capacity {
		return ErrMapFull
	}

	if newSize > m.size {
		if err := m.mapRange(m.size, newSize); err != nil {
			return err
		}
	} else if err := m.releaseRange(pageUp(newSize), pageUp(m.size)); err != nil {
		return err
	}

	m.setSize(newSize)
	return nil
}

// Sync flushes changes to disk synchronously.
func (m *Map) Sync() error {
	if m.base == nil {
		return ErrNotMapped
	}
	if m.size == 0 {
		return nil
	}
	return unix.Msync(m.data, unix.MS_SYNC)
}

// SyncRange flushes a specific range to disk.
func (m *Map) SyncRange(offset, length int64) error {
	if m.base == nil {
		return ErrNotMapped
	}
	if offset < 0 || length < 0 || offset+length > m.size {
		return ErrInvalidRange
	}
	if length == 0 {
		return nil
	}
	start := pageDown(offset)
	return unix.Msync(m.data[start:offset+length], unix.MS_SYNC)
}

// Close releases the mapping and the whole reservation. The file
// descriptor is left open.
func (m *Map) Close() error {
	if m.base == nil {
		return nil
	}

	err := unix.MunmapPtr(m.base, uintptr(m.capacity))
	m.base = nil
	m.data = nil
	m.size = 0
	m.capacity = 0
	if err != nil {
		return &Error{Op: "munmap", Err: err}
	}
	return nil
}

// Advise provides hints to the kernel about memory usage patterns.
func (m *Map) Advise(advice int) error {
	if m.base == nil {
		return ErrNotMapped
	}
	if m.size == 0 {
		return nil
	}
	return unix.Madvise(m.data, advice)
}

// AdviseSequential hints that pages will be accessed sequentially.
func (m *Map) AdviseSequential() error {
	return m.Advise(unix.MADV_SEQUENTIAL)
}
