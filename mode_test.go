package ftext

import (
	"errors"
	"fmt"
	"testing"
)

func TestResolveFlags(t *testing.T) {
	tests := []struct {
		name  string
		flags Flags
		want  Config
		code  ErrorCode
	}{
		{"default is left", Flags{}, Config{Mode: ModeLeftAlign}, Success},
		{"width only", Flags{Width: 40}, Config{Width: 40, Mode: ModeLeftAlign}, Success},
		{"justify", Flags{Width: 40, Justify: true}, Config{Width: 40, Mode: ModeJustify}, Success},
		{"justify without width", Flags{Justify: true}, Config{Mode: ModeJustify}, Success},
		{"unjustify", Flags{Unjustify: true}, Config{Mode: ModeUnjustify}, Success},
		{"width overrides unjustify", Flags{Width: 40, Unjustify: true}, Config{Width: 40, Mode: ModeLeftAlign}, Success},
		{"right", Flags{Right: true}, Config{Mode: ModeRightAlign}, Success},
		{"centre", Flags{Width: 30, Centre: true}, Config{Width: 30, Mode: ModeCentreAlign}, Success},
		{"left", Flags{Left: true}, Config{Mode: ModeLeftAlign}, Success},
		{"justify and unjustify", Flags{Justify: true, Unjustify: true}, Config{}, ErrModeConflict},
		{"justify and align", Flags{Justify: true, Right: true}, Config{}, ErrModeConflict},
		{"two alignments", Flags{Right: true, Centre: true}, Config{}, ErrModeConflict},
		{"width one", Flags{Width: 1}, Config{}, ErrBadWidth},
		{"negative width", Flags{Width: -3}, Config{}, ErrBadWidth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveFlags(tt.flags)
			if Code(err) != tt.code {
				t.Fatalf("expected code %d, got %v", tt.code, err)
			}
			if tt.code != Success {
				return
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		cfg  Config
		code ErrorCode
	}{
		{Config{Width: 72, Mode: ModeJustify}, Success},
		{Config{Mode: ModeCentreAlign}, Success},
		{Config{Width: 2, Mode: ModeRewrap}, Success},
		{Config{Mode: ModeRewrap}, ErrBadWidth},
		{Config{Width: -1}, ErrBadWidth},
		{Config{Width: 1, Mode: ModeJustify}, ErrBadWidth},
		{Config{Width: 10, Mode: ModeUnjustify}, ErrModeConflict},
		{Config{Mode: Mode(99)}, ErrModeConflict},
	}

	for _, tt := range tests {
		if got := Code(tt.cfg.Validate()); got != tt.code {
			t.Errorf("%+v: expected code %d, got %d", tt.cfg, tt.code, got)
		}
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeLeftAlign, ModeRewrap, ModeJustify, ModeUnjustify, ModeRightAlign, ModeCentreAlign} {
		got, err := ParseMode(m.String())
		if err != nil {
			t.Errorf("ParseMode(%q) failed: %v", m.String(), err)
			continue
		}
		if got != m {
			t.Errorf("ParseMode(%q) = %v", m.String(), got)
		}
	}

	if m, err := ParseMode(" Center "); err != nil || m != ModeCentreAlign {
		t.Errorf("ParseMode(center) = %v, %v", m, err)
	}
	if _, err := ParseMode("sideways"); Code(err) != ErrModeConflict {
		t.Errorf("expected ErrModeConflict, got %v", err)
	}
	if s := Mode(42).String(); s != "Mode(42)" {
		t.Errorf("unknown mode string %q", s)
	}
}

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		code       ErrorCode
		io         bool
		validation bool
		invariant  bool
	}{
		{ErrRemap, true, false, false},
		{ErrAllocate, true, false, false},
		{ErrNotWritable, false, true, false},
		{ErrModeConflict, false, true, false},
		{ErrInvariant, false, false, true},
		{ErrRange, false, false, true},
	}

	for _, tt := range tests {
		err := fmt.Errorf("context: %w", NewError(tt.code))
		if IsIO(err) != tt.io {
			t.Errorf("IsIO(%d) = %v", tt.code, !tt.io)
		}
		if IsValidation(err) != tt.validation {
			t.Errorf("IsValidation(%d) = %v", tt.code, !tt.validation)
		}
		if IsInvariant(err) != tt.invariant {
			t.Errorf("IsInvariant(%d) = %v", tt.code, !tt.invariant)
		}
	}

	if Code(nil) != Success {
		t.Error("Code(nil) should be Success")
	}
	if Code(errors.New("plain")) != ErrInvariant {
		t.Error("foreign errors should map to ErrInvariant")
	}
	if !IsLocked(NewError(ErrLocked)) {
		t.Error("IsLocked(ErrLocked) = false")
	}
}

func TestErrorMessage(t *testing.T) {
	cause := errors.New("no space left on device")
	err := opError(ErrAllocate, "extend", 120, 4, cause)

	want := "ftext: extend: unable to allocate disk space (offset 120, range 4): no space left on device"
	if got := err.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if !errors.Is(err, cause) {
		t.Error("cause not unwrapped")
	}

	if got := NewError(ErrorCode(-999)).Error(); got != "ftext: unknown error code -999" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestVersion(t *testing.T) {
	if Version() != "ftext 0.2.0" {
		t.Errorf("Version() = %q", Version())
	}
	v := GetVersionInfo("abc123", "2026-01-02")
	if got := v.String(); got != "v0.2.0 (abc123, 2026-01-02)" {
		t.Errorf("VersionInfo.String() = %q", got)
	}
	if got := GetVersionInfo("", "").String(); got != "v0.2.0" {
		t.Errorf("VersionInfo.String() = %q", got)
	}
}
