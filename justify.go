package ftext

// Justify pads lines with spaces between words until each is exactly width
// bytes long. A width of zero uses the longest line in the file.
//
// Lines already at width, lines no longer than half the width, and lines
// with no space in them are left alone. Extra spaces go into every gap
// evenly first; what remains is handed out one at a time, alternating
// between the leftmost unfilled gap and the rightmost one.
func Justify(f *File, width int, p *Progress) error {
	p.Begin(StageJustify, CountLines(f))
	if width <= 0 {
		width = LongestLine(f)
	}
	threshold := width / 2

	sc := lineScanner{f: f}
	for {
		ln, ok := sc.next()
		if !ok {
			break
		}
		p.Add(ln.breaks)

		n := ln.len()
		if n == width || n <= threshold {
			continue
		}
		if n > width {
			return invariantError("justify", "line at offset %d is %d bytes, wider than %d", ln.start, n, width)
		}

		holes := 0
		for i := ln.start; i < ln.end; i++ {
			if f.At(i) == sp {
				holes++
			}
		}
		if holes == 0 {
			continue
		}

		delta := width - n
		if err := spread(f, ln, delta, holes); err != nil {
			return err
		}
		sc.grow(delta)
	}

	p.Finish()
	return nil
}

// spread inserts delta spaces into the gaps of ln.
func spread(f *File, ln span, delta, holes int) error {
	quotient, remainder := delta/holes, delta%holes

	if err := f.Extend(delta); err != nil {
		return err
	}

	start, end := ln.start, ln.end

	for ; quotient > 0; quotient-- {
		for i := start; ; {
			gap := f.IndexByte(i, end, sp)
			if gap < 0 {
				break
			}
			if err := insertSpace(f, gap); err != nil {
				return err
			}
			end++
			i = gap + 1
			for f.At(i) == sp {
				i++
			}
		}
	}

	left, right := start, end-1
	rightward := true
	misses := 0
	for remainder > 0 {
		// Three empty sweeps in a row means the line has no gap at all.
		if misses > 2 {
			return invariantError("justify", "no gap left in line at offset %d for %d spaces", start, remainder)
		}

		if rightward {
			gap := f.IndexByte(left, right, sp)
			if gap < 0 {
				left, right = start, end-1
				rightward = false
				misses++
				continue
			}
			if err := insertSpace(f, gap); err != nil {
				return err
			}
			end++
			right++
			remainder--
			misses = 0
			rightward = false

			left = gap + 1
			for f.At(left) == sp {
				left++
			}
			continue
		}

		gap := right
		for f.At(gap) != sp && gap > left {
			gap--
		}
		if gap == left {
			left, right = start, end-1
			rightward = true
			misses++
			continue
		}
		if err := insertSpace(f, gap); err != nil {
			return err
		}
		end++
		remainder--
		misses = 0
		rightward = true

		right = gap - 1
		for right > start && f.At(right) == sp {
			right--
		}
	}

	return nil
}

// insertSpace opens a one byte gap at i and puts a space in it.
func insertSpace(f *File, i int) error {
	if err := f.Shift(i, 1); err != nil {
		return err
	}
	f.Set(i, sp)
	return nil
}
