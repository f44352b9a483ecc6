package ftext

// Format normalizes f, rewraps it when cfg has a width, applies cfg.Mode
// and flushes the mapping. p may be nil.
//
// The first failing primitive ends the run. Nothing is rolled back: the
// file keeps every change made before the failure.
func Format(f *File, cfg Config, p *Progress) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if f.m == nil {
		return NewError(ErrClosed)
	}

	log := f.log.With("path", f.path)
	log.Info("normalizing", "size", f.Len())
	if err := Normalize(f); err != nil {
		return err
	}

	if cfg.Width > 0 {
		log.Info("rewrapping", "width", cfg.Width)
		if err := Rewrap(f, cfg.Width, p); err != nil {
			return err
		}
	}

	log.Info("applying mode", "mode", cfg.Mode.String())
	var err error
	switch cfg.Mode {
	case ModeJustify:
		err = Justify(f, cfg.Width, p)
	case ModeUnjustify:
		err = Unjustify(f, p)
	case ModeRightAlign:
		err = AlignRight(f, cfg.Width, p)
	case ModeCentreAlign:
		err = AlignCentre(f, cfg.Width, p)
	case ModeLeftAlign:
		err = AlignLeft(f, p)
	}
	if err != nil {
		log.Error("transform failed", "mode", cfg.Mode.String(), "size", f.Len(), "err", err)
		return err
	}

	if err := f.Sync(); err != nil {
		return err
	}
	log.Info("done", "original_size", f.originalSize, "size", f.Len())
	return nil
}

// Reformat validates the file at path, maps it, formats it and unmaps it.
func Reformat(path string, cfg Config, opts *Options, p *Progress) (err error) {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := Validate(path); err != nil {
		return err
	}

	f, err := Open(path, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	return Format(f, cfg, p)
}
