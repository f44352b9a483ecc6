package ftext

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// writeTemp creates a file holding content in a fresh temporary directory.
func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "text.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func openTemp(t *testing.T, content string) (*File, string) {
	t.Helper()
	path := writeTemp(t, content)
	f, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f, path
}

// transform runs fn over content in a mapped file and returns what ends
// up on disk.
func transform(t *testing.T, content string, fn func(*File) error) string {
	t.Helper()
	f, path := openTemp(t, content)
	if err := fn(f); err != nil {
		t.Fatalf("transform failed: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	return string(got)
}

type opLog []Op

func (l *opLog) Record(op Op) error {
	*l = append(*l, op)
	return nil
}

func TestOpenClose(t *testing.T) {
	f, path := openTemp(t, "hello\n")

	if f.Path() != path {
		t.Errorf("Path mismatch: got %q, want %q", f.Path(), path)
	}
	if f.Len() != 6 || f.OriginalSize() != 6 {
		t.Errorf("expected size 6, got Len %d OriginalSize %d", f.Len(), f.OriginalSize())
	}
	if got := string(f.Bytes()); got != "hello\n" {
		t.Errorf("Bytes mismatch: got %q", got)
	}

	if err := f.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// Second close is a no-op.
	if err := f.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
	if f.Len() != 0 {
		t.Errorf("closed file reports length %d", f.Len())
	}
}

func TestOpenEmpty(t *testing.T) {
	got := transform(t, "", func(f *File) error {
		if f.Len() != 0 {
			t.Errorf("expected empty file, got %d bytes", f.Len())
		}
		return Format(f, Config{Width: 10, Mode: ModeJustify}, nil)
	})
	if got != "" {
		t.Errorf("empty file changed to %q", got)
	}
}

func TestOpenErrors(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing"), nil); Code(err) != ErrNotExist {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestAtOutOfRange(t *testing.T) {
	f, _ := openTemp(t, "ab")
	if f.At(-1) != 0 || f.At(2) != 0 {
		t.Error("At outside the file should return 0")
	}
	if f.At(1) != 'b' {
		t.Errorf("At(1) = %q", f.At(1))
	}
}

func TestIndexByte(t *testing.T) {
	f, _ := openTemp(t, "a b c")

	tests := []struct {
		from, to int
		want     int
	}{
		{0, 5, 1},
		{2, 5, 3},
		{4, 5, -1},
		{3, 3, -1},
		{-4, 100, 1},
	}
	for _, tt := range tests {
		if got := f.IndexByte(tt.from, tt.to, ' '); got != tt.want {
			t.Errorf("IndexByte(%d, %d) = %d, want %d", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestCollapse(t *testing.T) {
	f, path := openTemp(t, "abcdef")

	if err := f.Collapse(1, 2); err != nil {
		t.Fatalf("Collapse failed: %v", err)
	}
	if got := string(f.Bytes()); got != "adef" {
		t.Errorf("after Collapse got %q, want %q", got, "adef")
	}

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Size() != 4 {
		t.Errorf("file size %d, want 4", fi.Size())
	}

	// Collapsing to nothing leaves a valid, empty file.
	if err := f.Collapse(0, 4); err != nil {
		t.Fatalf("Collapse to empty failed: %v", err)
	}
	if f.Len() != 0 {
		t.Errorf("expected empty file, got %d bytes", f.Len())
	}
}

func TestCollapseRange(t *testing.T) {
	f, _ := openTemp(t, "abcdef")

	for _, c := range []struct{ offset, n int }{
		{-1, 1},
		{6, 1},
		{5, 2},
		{0, -1},
	} {
		err := f.Collapse(c.offset, c.n)
		if Code(err) != ErrRange {
			t.Errorf("Collapse(%d, %d): expected ErrRange, got %v", c.offset, c.n, err)
		}
	}
	if got := string(f.Bytes()); got != "abcdef" {
		t.Errorf("rejected Collapse changed the file to %q", got)
	}
}

func TestExtend(t *testing.T) {
	f, path := openTemp(t, "abc")

	if err := f.Extend(3); err != nil {
		t.Fatalf("Extend failed: %v", err)
	}
	if f.Len() != 6 {
		t.Errorf("Len %d, want 6", f.Len())
	}
	if f.Spare() != 3 {
		t.Errorf("Spare %d, want 3", f.Spare())
	}
	if got := f.Bytes(); !bytes.Equal(got, []byte("abc\x00\x00\x00")) {
		t.Errorf("after Extend got %q", got)
	}

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Size() != 6 {
		t.Errorf("file size %d, want 6", fi.Size())
	}

	if err := f.Extend(0); err != nil {
		t.Errorf("Extend(0) failed: %v", err)
	}
	if f.Len() != 6 {
		t.Errorf("Extend(0) changed the length to %d", f.Len())
	}
}

func TestExtendKeepsBase(t *testing.T) {
	f, _ := openTemp(t, "abc")
	base := f.m.Base()

	// Cross several page boundaries.
	for i := 0; i < 4; i++ {
		if err := f.Extend(5000); err != nil {
			t.Fatalf("Extend failed: %v", err)
		}
		if f.m.Base() != base {
			t.Fatalf("base moved from %#x to %#x", base, f.m.Base())
		}
	}
	if err := f.Collapse(3, 19000); err != nil {
		t.Fatalf("Collapse failed: %v", err)
	}
	if f.m.Base() != base {
		t.Fatalf("base moved after Collapse")
	}
	if f.Spare() != 1000 {
		t.Errorf("Spare %d, want 1000", f.Spare())
	}
}

func TestExtendBeyondCapacity(t *testing.T) {
	path := writeTemp(t, "abc")
	f, err := Open(path, &Options{Capacity: 4096})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	err = f.Extend(1 << 20)
	if Code(err) != ErrMapFull {
		t.Fatalf("expected ErrMapFull, got %v", err)
	}
	if f.Len() != 3 {
		t.Errorf("failed Extend changed the length to %d", f.Len())
	}
}

func TestShift(t *testing.T) {
	f, _ := openTemp(t, "abcdef")

	if err := f.Extend(2); err != nil {
		t.Fatal(err)
	}
	if err := f.Shift(1, 2); err != nil {
		t.Fatalf("Shift failed: %v", err)
	}
	if got := f.Bytes(); !bytes.Equal(got, []byte("a\x00\x00bcdef")) {
		t.Errorf("after Shift got %q", got)
	}
	if f.Spare() != 0 {
		t.Errorf("Spare %d, want 0", f.Spare())
	}
}

func TestShiftNeedsSpare(t *testing.T) {
	f, _ := openTemp(t, "abcdef")

	err := f.Shift(1, 1)
	if Code(err) != ErrRange {
		t.Fatalf("expected ErrRange without spare bytes, got %v", err)
	}
	if got := string(f.Bytes()); got != "abcdef" {
		t.Errorf("rejected Shift changed the file to %q", got)
	}

	if err := f.Extend(1); err != nil {
		t.Fatal(err)
	}
	if err := f.Shift(0, 2); Code(err) != ErrRange {
		t.Errorf("expected ErrRange when shifting more than spare, got %v", err)
	}
	if err := f.Shift(7, 1); Code(err) != ErrRange {
		t.Errorf("expected ErrRange when shifting past the text, got %v", err)
	}
	if err := f.Shift(6, 1); err != nil {
		t.Errorf("Shift at the end of the text failed: %v", err)
	}
}

func TestUseAfterClose(t *testing.T) {
	f, _ := openTemp(t, "abc")
	f.Close()

	if err := f.Extend(1); Code(err) != ErrClosed {
		t.Errorf("Extend: expected ErrClosed, got %v", err)
	}
	if err := f.Collapse(0, 1); Code(err) != ErrClosed {
		t.Errorf("Collapse: expected ErrClosed, got %v", err)
	}
	if err := f.Shift(0, 1); Code(err) != ErrClosed {
		t.Errorf("Shift: expected ErrClosed, got %v", err)
	}
	if err := f.Sync(); Code(err) != ErrClosed {
		t.Errorf("Sync: expected ErrClosed, got %v", err)
	}
}

func TestRecorder(t *testing.T) {
	path := writeTemp(t, "abcdef")
	var ops opLog
	f, err := Open(path, &Options{Recorder: &ops})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := f.Collapse(0, 1); err != nil {
		t.Fatal(err)
	}
	if err := f.Extend(2); err != nil {
		t.Fatal(err)
	}
	if err := f.Shift(1, 2); err != nil {
		t.Fatal(err)
	}
	// Rejected calls are not recorded.
	_ = f.Shift(0, 1)

	want := opLog{
		{Kind: OpCollapse, Offset: 0, Range: 1, Size: 5},
		{Kind: OpExtend, Offset: 5, Range: 2, Size: 7},
		{Kind: OpShift, Offset: 1, Range: 2, Size: 7},
	}
	if len(ops) != len(want) {
		t.Fatalf("recorded %d ops, want %d: %+v", len(ops), len(want), ops)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("op %d: got %+v, want %+v", i, ops[i], want[i])
		}
	}
}

func TestOpKindString(t *testing.T) {
	for k, want := range map[OpKind]string{
		OpCollapse: "collapse",
		OpExtend:   "extend",
		OpShift:    "shift",
		OpKind(9):  "unknown",
	} {
		if got := k.String(); got != want {
			t.Errorf("OpKind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestSyncFromLowestWrite(t *testing.T) {
	f, path := openTemp(t, "hello world\n")
	if f.dirty != f.Len() {
		t.Fatalf("fresh file dirty from %d, want %d", f.dirty, f.Len())
	}

	f.Set(6, 'W')
	if f.dirty != 6 {
		t.Errorf("dirty from %d after Set(6), want 6", f.dirty)
	}
	if err := f.Collapse(0, 1); err != nil {
		t.Fatal(err)
	}
	if f.dirty != 0 {
		t.Errorf("dirty from %d after Collapse(0, 1), want 0", f.dirty)
	}

	if err := f.Sync(); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if f.dirty != f.Len() {
		t.Errorf("dirty from %d after Sync, want %d", f.dirty, f.Len())
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "ello World\n" {
		t.Errorf("on disk after Sync: %q", got)
	}

	// Nothing written since the last flush.
	if err := f.Sync(); err != nil {
		t.Errorf("second Sync failed: %v", err)
	}
}
