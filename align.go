package ftext

// AlignRight pads every line on the left so it ends at column width. A
// width of zero uses the longest line in the file.
func AlignRight(f *File, width int, p *Progress) error {
	return pad(f, StageRightAlign, width, p, func(delta int) int { return delta })
}

// AlignCentre pads every line on both sides so it is centred in width
// columns. When the padding is odd the extra space goes in front.
func AlignCentre(f *File, width int, p *Progress) error {
	return pad(f, StageCentreAlign, width, p, func(delta int) int { return (delta + 1) / 2 })
}

// pad grows each non-empty line to width, putting lead(delta) spaces before
// the text and the rest between the text and its line feed.
func pad(f *File, stage string, width int, p *Progress, lead func(delta int) int) error {
	p.Begin(stage, CountLines(f))
	if width <= 0 {
		width = LongestLine(f)
	}

	sc := lineScanner{f: f}
	for {
		ln, ok := sc.next()
		if !ok {
			break
		}
		p.Add(ln.breaks)

		n := ln.len()
		if n == 0 || n == width {
			continue
		}
		delta := width - n
		if delta < 0 {
			return invariantError(stage, "line at offset %d is %d bytes, wider than %d", ln.start, n, width)
		}

		if err := f.Extend(delta); err != nil {
			return err
		}

		front := lead(delta)
		if err := f.Shift(ln.start, front); err != nil {
			return err
		}
		f.Fill(ln.start, front, sp)

		if back := delta - front; back > 0 {
			end := ln.end + front
			if err := f.Shift(end, back); err != nil {
				return err
			}
			f.Fill(end, back, sp)
		}

		sc.grow(delta)
	}

	p.Finish()
	return nil
}

// AlignLeft leaves every line flush left with single spaces between words.
// On normalized text this changes nothing.
func AlignLeft(f *File, p *Progress) error {
	p.Begin(StageLeftAlign, CountLines(f))
	if err := trimLines(f); err != nil {
		return err
	}
	if err := Dejustify(f); err != nil {
		return err
	}
	p.Finish()
	return nil
}

// Unjustify removes the padding Justify inserts.
func Unjustify(f *File, p *Progress) error {
	p.Begin(StageUnjustify, CountLines(f))
	if err := Dejustify(f); err != nil {
		return err
	}
	p.Finish()
	return nil
}
