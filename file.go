package ftext

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/Giulio2002/ftext/mmap"
)

// OpKind identifies one of the three primitives that change a File's length.
type OpKind uint8

const (
	// OpCollapse removes a byte range.
	OpCollapse OpKind = iota + 1
	// OpExtend grows the file and the mapping at the tail.
	OpExtend
	// OpShift moves a byte range towards the tail, opening a zeroed gap.
	OpShift
)

func (k OpKind) String() string {
	switch k {
	case OpCollapse:
		return "collapse"
	case OpExtend:
		return "extend"
	case OpShift:
		return "shift"
	default:
		return "unknown"
	}
}

// Op describes one primitive applied to a File.
type Op struct {
	Kind   OpKind
	Offset int
	Range  int
	Size   int // file size after the operation
}

// Recorder receives every primitive applied to a File, after it succeeded.
type Recorder interface {
	Record(op Op) error
}

// Options configures Open. A nil *Options selects the defaults.
type Options struct {
	// Capacity is the address space reserved for growth. Zero selects
	// mmap.CapacityFor(size).
	Capacity int64

	// NoLock skips the exclusive advisory lock on the file.
	NoLock bool

	// Recorder, if set, is told about every primitive.
	Recorder Recorder

	// Logger receives stage and failure records. Nil discards them.
	Logger *slog.Logger
}

func (o *Options) logger() *slog.Logger {
	if o == nil || o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

// File is a regular file mapped read-write into memory. Its length only
// ever changes through Collapse, Extend and Shift, and after each of them
// the mapping is exactly as long as the file.
type File struct {
	path         string
	file         *os.File
	m            *mmap.Map
	originalSize int
	spare        int // zero bytes at the tail added by Extend, not yet used by Shift
	dirty        int // lowest offset written since the last Sync
	locked       bool
	recorder     Recorder
	log          *slog.Logger
}

// Open maps the regular file at path for in-place editing.
func Open(path string, opts *Options) (*File, error) {
	osf, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, WrapError(statCode(err), err)
	}

	fi, err := osf.Stat()
	if err != nil {
		osf.Close()
		return nil, WrapError(statCode(err), err)
	}
	if !fi.Mode().IsRegular() {
		osf.Close()
		return nil, NewError(ErrNotRegular)
	}

	f := &File{
		path:         path,
		file:         osf,
		originalSize: int(fi.Size()),
		dirty:        int(fi.Size()),
		log:          opts.logger(),
	}
	if opts != nil {
		f.recorder = opts.Recorder
	}

	if opts == nil || !opts.NoLock {
		if err := f.lock(); err != nil {
			osf.Close()
			return nil, err
		}
	}

	var capacity int64
	if opts != nil {
		capacity = opts.Capacity
	}
	m, err := mmap.New(int(osf.Fd()), fi.Size(), capacity, true)
	if err != nil {
		f.unlock()
		osf.Close()
		return nil, opError(ErrMap, "map", 0, f.originalSize, err)
	}
	f.m = m

	// Every transform is a forward scan.
	_ = m.AdviseSequential()

	return f, nil
}

// Path returns the path the file was opened with.
func (f *File) Path() string {
	return f.path
}

// OriginalSize returns the size of the file when it was opened.
func (f *File) OriginalSize() int {
	return f.originalSize
}

// Len returns the current size of the file, which is also the size of the
// mapping.
func (f *File) Len() int {
	if f.m == nil {
		return 0
	}
	return int(f.m.Size())
}

// Spare returns how many bytes added by Extend have not yet been consumed
// by Shift.
func (f *File) Spare() int {
	return f.spare
}

// data exposes the mapping to the scanners in this package. The slice is
// invalidated by any primitive.
func (f *File) data() []byte {
	if f.m == nil {
		return nil
	}
	return f.m.Data()
}

// At returns the byte at i, or 0 when i lies outside the file.
func (f *File) At(i int) byte {
	d := f.data()
	if i < 0 || i >= len(d) {
		return 0
	}
	return d[i]
}

// Set overwrites the byte at i. It panics if i lies outside the file.
func (f *File) Set(i int, b byte) {
	f.data()[i] = b
	f.touch(i)
}

// Fill overwrites n bytes starting at offset with b.
func (f *File) Fill(offset, n int, b byte) {
	d := f.data()[offset : offset+n]
	for i := range d {
		d[i] = b
	}
	f.touch(offset)
}

func (f *File) touch(offset int) {
	if offset < f.dirty {
		f.dirty = offset
	}
}

// IndexByte returns the offset of the first c in [from, to), or -1.
func (f *File) IndexByte(from, to int, c byte) int {
	d := f.data()
	if to > len(d) {
		to = len(d)
	}
	if from < 0 {
		from = 0
	}
	if from >= to {
		return -1
	}
	i := bytes.IndexByte(d[from:to], c)
	if i < 0 {
		return -1
	}
	return from + i
}

// Bytes returns a copy of the file contents.
func (f *File) Bytes() []byte {
	return bytes.Clone(f.data())
}

// Collapse deletes n bytes at offset: the bytes after the range move down,
// the vacated tail is zeroed, the mapping shrinks and the file is truncated.
func (f *File) Collapse(offset, n int) error {
	if f.m == nil {
		return NewError(ErrClosed)
	}

	size := f.Len()
	if offset < 0 || n < 0 || offset >= size || offset+n > size {
		return opError(ErrRange, "collapse", offset, n, nil)
	}
	if n == 0 {
		return nil
	}

	data := f.m.Data()
	copy(data[offset:], data[offset+n:])
	clear(data[size-n:])
	f.touch(offset)

	newSize := size - n
	if err := f.m.Remap(int64(newSize)); err != nil {
		return f.fail(remapCode(err), "collapse", offset, n, err)
	}
	if err := f.file.Truncate(int64(newSize)); err != nil {
		return f.fail(ErrTruncate, "collapse", offset, n, err)
	}

	// Spare bytes that were collapsed away are gone.
	if tail := size - f.spare; offset+n > tail {
		cut := offset + n - tail
		if cut > n {
			cut = n
		}
		f.spare -= cut
	}

	return f.record(Op{Kind: OpCollapse, Offset: offset, Range: n, Size: newSize})
}

// Extend grows the file by n zero bytes at its end and the mapping with it,
// keeping the mapping's base address. n <= 0 is a no-op.
func (f *File) Extend(n int) error {
	if f.m == nil {
		return NewError(ErrClosed)
	}
	if n <= 0 {
		return nil
	}

	size := f.Len()
	if int64(size+n) > f.m.Capacity() {
		return f.fail(ErrMapFull, "extend", size, n, mmap.ErrMapFull)
	}

	if err := allocate(f.file, int64(size), int64(n)); err != nil {
		return f.fail(ErrAllocate, "extend", size, n, err)
	}
	if err := f.m.Remap(int64(size + n)); err != nil {
		// Put the file back to the size of the mapping.
		_ = f.file.Truncate(int64(size))
		return f.fail(remapCode(err), "extend", size, n, err)
	}
	f.spare += n
	f.touch(size)

	return f.record(Op{Kind: OpExtend, Offset: size, Range: n, Size: size + n})
}

// Shift moves [offset, Len()-n) to [offset+n, Len()) and zeroes the gap
// [offset, offset+n). The n bytes pushed off the end must be spare bytes
// from an earlier Extend.
func (f *File) Shift(offset, n int) error {
	if f.m == nil {
		return NewError(ErrClosed)
	}
	if n == 0 {
		return nil
	}

	size := f.Len()
	if n < 0 || offset < 0 || offset > size-f.spare {
		return opError(ErrRange, "shift", offset, n, nil)
	}
	if n > f.spare {
		return opError(ErrRange, "shift", offset, n, errors.New("not enough room at the tail; extend first"))
	}

	data := f.m.Data()
	copy(data[offset+n:], data[offset:size-n])
	clear(data[offset : offset+n])
	f.spare -= n
	f.touch(offset)

	return f.record(Op{Kind: OpShift, Offset: offset, Range: n, Size: size})
}

// Sync flushes the mapping to disk from the lowest offset written since
// the previous Sync. Every transform is a forward pass, so everything
// before that offset is unchanged.
func (f *File) Sync() error {
	if f.m == nil {
		return NewError(ErrClosed)
	}
	size := f.Len()
	from := min(f.dirty, size)
	if err := f.m.SyncRange(int64(from), int64(size-from)); err != nil {
		return opError(ErrSync, "sync", from, size-from, err)
	}
	f.dirty = size
	return nil
}

// Close unmaps the file, releases the lock and closes the descriptor. The
// file keeps whatever content the last successful primitive left.
func (f *File) Close() error {
	if f.m == nil {
		return nil
	}

	var errs []error
	if err := f.m.Close(); err != nil {
		errs = append(errs, err)
	}
	f.m = nil
	if err := f.unlock(); err != nil {
		errs = append(errs, err)
	}
	if err := f.file.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (f *File) record(op Op) error {
	if f.recorder == nil {
		return nil
	}
	if err := f.recorder.Record(op); err != nil {
		return opError(ErrJournal, op.Kind.String(), op.Offset, op.Range, err)
	}
	return nil
}

func (f *File) fail(code ErrorCode, op string, offset, n int, err error) error {
	e := opError(code, op, offset, n, err)
	f.log.Error("primitive failed", "op", op, "offset", offset, "range", n, "size", f.Len(), "err", err)
	return e
}

func remapCode(err error) ErrorCode {
	if errors.Is(err, mmap.ErrMapFull) {
		return ErrMapFull
	}
	return ErrRemap
}

func statCode(err error) ErrorCode {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return ErrNotExist
	case errors.Is(err, os.ErrPermission):
		return ErrNotWritable
	default:
		return ErrMap
	}
}
