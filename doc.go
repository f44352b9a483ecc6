// Package ftext reformats a plain-text file in place.
//
// The file is memory-mapped read-write and edited through three primitives
// on File: Collapse removes a byte range, Extend grows the file and mapping
// at the tail, and Shift moves bytes towards the tail to open a gap. The
// mapping always has exactly the file's size and never moves, and the file
// keeps its inode and creation time because no replacement is written.
//
// On top of the primitives sit a normalization pass (carriage returns,
// surrounding blanks, repeated spaces and soft hyphen breaks are removed)
// and the transforms: Rewrap to a line width with hyphenation, Justify,
// AlignRight, AlignCentre, AlignLeft and Unjustify. Paragraph boundaries,
// runs of two or more line feeds, are never changed by any of them.
//
// Only ASCII spaces, tabs, line feeds, carriage returns and hyphens are
// treated specially; every other byte is part of a word.
//
// Basic usage:
//
//	cfg, err := ftext.ResolveFlags(ftext.Flags{Width: 72, Justify: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	var progress ftext.Progress
//	if err := ftext.Reformat("/path/to/file.txt", cfg, nil, &progress); err != nil {
//	    log.Fatal(err)
//	}
//
// A failure part way through leaves the file with every change made before
// it; there is no rollback.
package ftext
