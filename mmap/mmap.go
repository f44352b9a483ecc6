// Package mmap provides a shared, writable file mapping whose base address
// stays fixed while the mapped length follows the file through growth and
// truncation.
//
// The mapping lives at the start of an address-space reservation taken when
// the Map is created. Remap only ever changes how much of the reservation is
// backed by the file, so offsets and addresses taken before a Remap remain
// valid after it.
package mmap

import "unsafe"

// DefaultMinCapacity is the smallest address-space reservation made for a
// mapping. Reservations are PROT_NONE and cost no memory until backed.
const DefaultMinCapacity = 1 << 30

// DefaultGrowthFactor sizes the reservation relative to the initial file size.
const DefaultGrowthFactor = 128

// maxCapacity bounds automatically computed reservations.
const maxCapacity = 1 << 44

// Map represents a memory-mapped file region.
type Map struct {
	data     []byte         // Mapped memory region, len(data) == size
	base     unsafe.Pointer // Start of the reservation
	fd       int            // File descriptor
	size     int64          // Current mapped size
	capacity int64          // Reserved address space (can be larger than size)
	writable bool           // True if mapped with write permission
}

// Data returns the mapped byte slice.
func (m *Map) Data() []byte {
	return m.data
}

// Size returns the current mapped size.
func (m *Map) Size() int64 {
	return m.size
}

// Capacity returns the reserved address space capacity.
func (m *Map) Capacity() int64 {
	return m.capacity
}

// Base returns the address the mapping starts at. It does not change for
// the lifetime of the Map.
func (m *Map) Base() uintptr {
	return uintptr(m.base)
}

// CapacityFor returns the reservation used for a file of the given size
// when the caller does not ask for a specific one.
func CapacityFor(size int64) int64 {
	c := size * DefaultGrowthFactor
	if size > 0 && c/size != DefaultGrowthFactor {
		c = maxCapacity
	}
	if c < DefaultMinCapacity {
		c = DefaultMinCapacity
	}
	if c > maxCapacity {
		c = maxCapacity
	}
	if c < size {
		c = size
	}
	return c
}

// Error represents an mmap error.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return "mmap: " + e.Op + ": " + e.Err.Error()
	}
	return "mmap: " + e.Op
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Common errors
var (
	ErrInvalidSize  = &Error{Op: "invalid size"}
	ErrInvalidRange = &Error{Op: "invalid range"}
	ErrNotMapped    = &Error{Op: "not mapped"}
	ErrMapFull      = &Error{Op: "reservation exhausted"}
	ErrUnsupported  = &Error{Op: "fixed-address remapping not supported on this platform"}
)
