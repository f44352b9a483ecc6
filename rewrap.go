package ftext

// Rewrap reflows the text so that no line is longer than width bytes.
// Single line feeds inside a paragraph become spaces, lines are broken at
// the last space that fits, and a word longer than the whole width is
// split with a hyphen. Runs of two or more line feeds are kept exactly.
//
// The file only grows when a word has to be hyphenated. Progress counts
// every line feed consumed or produced, up to the line count taken at the
// start.
func Rewrap(f *File, width int, p *Progress) error {
	if width <= 0 {
		return NewError(ErrBadWidth)
	}
	p.Begin(StageRewrap, CountLines(f))

	for pos := 0; pos < f.Len(); {
		// Paragraph boundary, or blank lines at the top of the file.
		if f.At(pos) == lf {
			n := runLength(f, pos, lf)
			p.Add(n)
			pos += n
			continue
		}

		lineStart := pos
		size := f.Len()

		lineEnd := lineStart + width
		if lineEnd >= size {
			lineEnd = size
		} else if !isBreak(f.At(lineEnd)) {
			for lineEnd > lineStart+1 && !isBreak(f.At(lineEnd)) {
				lineEnd--
			}
		}

		paragraph := false
		for pos < lineEnd {
			if f.At(pos) != lf {
				pos++
				continue
			}
			if pos+1 == size {
				p.Add(1)
				pos++
				break
			}
			if f.At(pos+1) == lf {
				paragraph = true
				break
			}
			f.Set(pos, sp)
			p.Add(1)
			pos++
		}
		if paragraph || pos >= f.Len() {
			continue
		}

		if !isBreak(f.At(pos)) {
			if width < 2 {
				// No room for a hyphen: the word overruns to its own end.
				for pos < f.Len() && !isBreak(f.At(pos)) {
					pos++
				}
				if pos >= f.Len() {
					break
				}
			} else {
				next, err := hyphenate(f, lineStart+width-1)
				if err != nil {
					return err
				}
				p.Add(1)
				pos = next
				continue
			}
		}

		if f.At(pos) == sp {
			f.Set(pos, lf)
			p.Add(1)
			pos++
			continue
		}

		// The line already ends here. A longer run is a paragraph boundary
		// and is consumed whole so no line feed of it is folded.
		n := runLength(f, pos, lf)
		p.Add(n)
		pos += n
	}

	p.Finish()
	return nil
}

func isBreak(c byte) bool {
	return c == sp || c == lf
}

// hyphenate ends the line inside a word at brk, the last column of the
// line. It writes "-\n" there, or just "\n" when the word already has a
// hyphen at that point, and returns where the next line starts.
func hyphenate(f *File, brk int) (int, error) {
	n := 2
	switch {
	case f.At(brk) == hyphen:
		n = 1
		brk++
	case f.At(brk-1) == hyphen:
		n = 1
	}

	if err := f.Extend(n); err != nil {
		return 0, err
	}
	if err := f.Shift(brk, n); err != nil {
		return 0, err
	}

	if n == 2 {
		f.Set(brk, hyphen)
		f.Set(brk+1, lf)
	} else {
		f.Set(brk, lf)
	}
	return brk + n, nil
}
