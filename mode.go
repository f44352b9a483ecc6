package ftext

import (
	"fmt"
	"strings"
)

// Stage labels published through Progress.
const (
	StageRewrap      = "Changing line length"
	StageJustify     = "Justifying lines"
	StageUnjustify   = "Unjustifying lines"
	StageLeftAlign   = "Left aligning lines"
	StageRightAlign  = "Right aligning lines"
	StageCentreAlign = "Centering lines"
)

// Mode selects the transform applied after normalization.
type Mode uint8

const (
	// ModeLeftAlign normalizes only, leaving text flush left.
	ModeLeftAlign Mode = iota
	// ModeRewrap changes the line length and nothing else.
	ModeRewrap
	// ModeJustify pads lines to the full width.
	ModeJustify
	// ModeUnjustify removes justification padding.
	ModeUnjustify
	// ModeRightAlign pads lines on the left.
	ModeRightAlign
	// ModeCentreAlign pads lines on both sides.
	ModeCentreAlign
)

var modeNames = map[Mode]string{
	ModeLeftAlign:   "left",
	ModeRewrap:      "rewrap",
	ModeJustify:     "justify",
	ModeUnjustify:   "unjustify",
	ModeRightAlign:  "right",
	ModeCentreAlign: "centre",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// ParseMode accepts the names returned by Mode.String, plus "center".
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "center" {
		return ModeCentreAlign, nil
	}
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	e := NewError(ErrModeConflict)
	e.Message = fmt.Sprintf("unknown mode %q", s)
	return 0, e
}

// Config is a resolved request: an optional width and exactly one mode.
type Config struct {
	// Width is the target line length. Zero means none was given; the
	// alignment transforms then use the longest line.
	Width int
	Mode  Mode
}

// Validate checks the combinations the transforms rely on.
func (c Config) Validate() error {
	if c.Width < 0 || c.Width == 1 {
		e := NewError(ErrBadWidth)
		e.Message = fmt.Sprintf("invalid line width %d (must be at least 2)", c.Width)
		return e
	}
	if _, ok := modeNames[c.Mode]; !ok {
		e := NewError(ErrModeConflict)
		e.Message = fmt.Sprintf("unknown mode %d", c.Mode)
		return e
	}
	if c.Mode == ModeRewrap && c.Width == 0 {
		e := NewError(ErrBadWidth)
		e.Message = "rewrap needs a line width"
		return e
	}
	if c.Mode == ModeUnjustify && c.Width > 0 {
		e := NewError(ErrModeConflict)
		e.Message = "a line width cannot be combined with unjustify"
		return e
	}
	return nil
}

// Flags are the raw mode switches of the command line.
type Flags struct {
	Width     int
	Justify   bool
	Unjustify bool
	Left      bool
	Right     bool
	Centre    bool
}

// ResolveFlags turns command-line switches into a Config. Justify and
// unjustify exclude each other, justify excludes every alignment, at most
// one alignment may be given, and a width overrides unjustify. With no
// switch at all the text is left aligned.
func ResolveFlags(fl Flags) (Config, error) {
	conflict := func(msg string) (Config, error) {
		e := NewError(ErrModeConflict)
		e.Message = msg
		return Config{}, e
	}

	if fl.Justify && fl.Unjustify {
		return conflict("justify and unjustify are mutually exclusive")
	}

	aligns := 0
	for _, set := range []bool{fl.Left, fl.Right, fl.Centre} {
		if set {
			aligns++
		}
	}
	if fl.Justify && aligns > 0 || aligns > 1 {
		return conflict("can only specify one alignment type")
	}

	if fl.Width > 0 {
		fl.Unjustify = false
	}

	cfg := Config{Width: fl.Width}
	switch {
	case fl.Justify:
		cfg.Mode = ModeJustify
	case fl.Unjustify:
		cfg.Mode = ModeUnjustify
	case fl.Right:
		cfg.Mode = ModeRightAlign
	case fl.Centre:
		cfg.Mode = ModeCentreAlign
	default:
		cfg.Mode = ModeLeftAlign
	}

	return cfg, cfg.Validate()
}
