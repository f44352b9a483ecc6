package ftext

import "bytes"

// Bytes the engine treats specially. Everything else is an ordinary
// character.
const (
	sp     = 0x20
	tab    = 0x09
	lf     = 0x0a
	cr     = 0x0d
	hyphen = 0x2d
)

func isBlank(c byte) bool {
	return c == sp || c == tab
}

// span is one line of text followed by the run of line feeds ending it.
// A run of two or more is a paragraph boundary.
type span struct {
	start, end int // text is [start, end)
	breaks     int // line feeds following end
}

func (s span) len() int {
	return s.end - s.start
}

// lineScanner walks a File line by line. It is forward only; a caller that
// grows the current line reports it with grow so the next line is found
// where it now starts.
type lineScanner struct {
	f   *File
	pos int
}

func (s *lineScanner) next() (span, bool) {
	size := s.f.Len()
	if s.pos >= size {
		return span{}, false
	}

	ln := span{start: s.pos}
	ln.end = s.f.IndexByte(s.pos, size, lf)
	if ln.end < 0 {
		ln.end = size
	}
	ln.breaks = runLength(s.f, ln.end, lf)

	s.pos = ln.end + ln.breaks
	return ln, true
}

func (s *lineScanner) grow(n int) {
	s.pos += n
}

// runLength counts consecutive c bytes starting at i.
func runLength(f *File, i int, c byte) int {
	n := 0
	for f.At(i+n) == c {
		n++
	}
	return n
}

// CountLines returns the number of line feeds in the file.
func CountLines(f *File) int {
	return bytes.Count(f.data(), []byte{lf})
}

// LongestLine returns the length of the longest line as it will read once
// normalized: leading and trailing blanks are ignored and every run of
// spaces counts as one.
func LongestLine(f *File) int {
	d := f.data()
	longest := 0

	for i := 0; i < len(d); {
		if d[i] == lf {
			i++
			continue
		}
		for i < len(d) && isBlank(d[i]) {
			i++
		}

		n := 0
		gap := false
		for i < len(d) && d[i] != lf {
			if d[i] == sp {
				gap = true
				i++
				continue
			}
			if gap {
				n++
				gap = false
			}
			n++
			i++
		}

		if n > longest {
			longest = n
		}
	}

	return longest
}
