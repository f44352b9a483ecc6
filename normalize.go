package ftext

// Normalize prepares text for reflowing. In order it removes carriage
// returns, trims blanks from both ends of every line, collapses runs of
// spaces to one, and rejoins words split by a soft break ("-\n").
// Running it on normalized text changes nothing.
func Normalize(f *File) error {
	stages := []struct {
		name string
		run  func(*File) error
	}{
		{"strip carriage returns", stripCR},
		{"trim lines", trimLines},
		{"dejustify", Dejustify},
		{"merge soft breaks", mergeSoftBreaks},
	}

	for _, st := range stages {
		if err := st.run(f); err != nil {
			return err
		}
		f.log.Debug("normalize stage done", "stage", st.name, "size", f.Len())
	}
	return nil
}

func stripCR(f *File) error {
	for i := 0; ; {
		i = f.IndexByte(i, f.Len(), cr)
		if i < 0 {
			return nil
		}
		if err := f.Collapse(i, runLength(f, i, cr)); err != nil {
			return err
		}
	}
}

// trimLines removes spaces and tabs at the start and end of each line. The
// size of the file shrinks under the cursor, so line ends are looked up
// again after every collapse.
func trimLines(f *File) error {
	for pos := 0; pos < f.Len(); {
		lead := 0
		for isBlank(f.At(pos + lead)) {
			lead++
		}
		if lead > 0 {
			if err := f.Collapse(pos, lead); err != nil {
				return err
			}
		}

		end := f.IndexByte(pos, f.Len(), lf)
		if end < 0 {
			end = f.Len()
		}

		trail := 0
		for end-trail-1 >= pos && isBlank(f.At(end-trail-1)) {
			trail++
		}
		if trail > 0 {
			if err := f.Collapse(end-trail, trail); err != nil {
				return err
			}
			end -= trail
		}

		pos = end + 1
	}
	return nil
}

// Dejustify collapses every run of two or more spaces to a single space.
func Dejustify(f *File) error {
	for pos := 0; ; {
		i := f.IndexByte(pos, f.Len(), sp)
		if i < 0 {
			return nil
		}
		if extra := runLength(f, i+1, sp); extra > 0 {
			if err := f.Collapse(i+1, extra); err != nil {
				return err
			}
		}
		pos = i + 1
	}
}

// mergeSoftBreaks rejoins a word split as "word-\npart" and moves the line
// break to the space before the rejoined word. When the word already starts
// its line, or no space precedes it, the line is simply left longer.
// A hyphen before a paragraph boundary or at the very end of the file is
// not a soft break.
func mergeSoftBreaks(f *File) error {
	for pos := 0; ; {
		i := f.IndexByte(pos, f.Len(), hyphen)
		if i < 0 {
			return nil
		}

		if f.At(i+1) != lf || i+2 >= f.Len() || f.At(i+2) == lf {
			pos = i + 1
			continue
		}

		if err := f.Collapse(i, 2); err != nil {
			return err
		}

		j := i - 1
		for j >= 0 && f.At(j) != sp && f.At(j) != lf {
			j--
		}
		// A break after a hyphen would read as another soft break.
		if j >= 0 && f.At(j) == sp && f.At(j-1) != hyphen {
			f.Set(j, lf)
		}

		pos = i
	}
}
