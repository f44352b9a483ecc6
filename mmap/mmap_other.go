//go:build !linux && !darwin

package mmap

// New is not available: the platform cannot replace part of a mapping at a
// fixed address.
func New(fd int, length, capacity int64, writable bool) (*Map, error) {
	return nil, ErrUnsupported
}

// Remap is not available on this platform.
func (m *Map) Remap(newSize int64) error { return ErrUnsupported }

// Sync is not available on this platform.
func (m *Map) Sync() error { return ErrUnsupported }

// SyncRange is not available on this platform.
func (m *Map) SyncRange(offset, length int64) error { return ErrUnsupported }

// Close is a no-op on this platform.
func (m *Map) Close() error { return nil }

// Advise is not available on this platform.
func (m *Map) Advise(advice int) error { return ErrUnsupported }

// AdviseSequential is not available on this platform.
func (m *Map) AdviseSequential() error { return ErrUnsupported }
