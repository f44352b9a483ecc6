// Command ftext reformats a text file in place.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Giulio2002/ftext"
	"github.com/Giulio2002/ftext/internal/config"
	"github.com/Giulio2002/ftext/internal/display"
	"github.com/Giulio2002/ftext/journal"
)

// Build information (set via ldflags during build).
var (
	commit = "unknown"
	date   = "unknown"
)

// debugLogName is written in the working directory by --debug.
const debugLogName = "debug.log"

func main() {
	os.Exit(run())
}

func run() int {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ftext: %v\n", err)
		return 1
	}
	return 0
}

type options struct {
	width      int
	justify    bool
	unjustify  bool
	left       bool
	right      bool
	centre     bool
	debug      bool
	noProgress bool
	journal    string
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "ftext [flags] FILE",
		Short: "Reformat a text file in place",
		Long: `ftext rewraps, justifies or aligns a plain-text file in place.

The file is memory-mapped and edited where it lies, so it keeps its inode,
ownership and creation time. Carriage returns, surrounding blanks, repeated
spaces and soft hyphen breaks are always removed first. Paragraphs, runs of
two or more line feeds, are kept as they are.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return format(cmd, args[0], &opts)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.width, "length", "L", 0, "Rewrap to this line length")
	f.BoolVarP(&opts.justify, "justify", "j", false, "Justify lines to the full length")
	f.BoolVarP(&opts.unjustify, "unjustify", "u", false, "Remove justification padding")
	f.BoolVarP(&opts.left, "left", "l", false, "Align lines to the left")
	f.BoolVarP(&opts.right, "right", "r", false, "Align lines to the right")
	f.BoolVarP(&opts.centre, "centre", "c", false, "Centre lines")
	f.BoolVarP(&opts.debug, "debug", "D", false, "Write a debug log to "+debugLogName)
	f.BoolVar(&opts.noProgress, "no-progress", false, "Do not draw the progress bar")
	f.StringVar(&opts.journal, "journal", "", "Record every file operation in this journal database")
	f.StringVar(&opts.configPath, "config", "", "Config file (.toml or .yaml)")
	f.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	cmd.AddCommand(newJournalCmd(), newVersionCmd())
	return cmd
}

// settings merges the config layers with the flags the user actually gave.
func settings(cmd *cobra.Command, opts *options) (config.Config, ftext.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, ftext.Config{}, err
	}

	f := cmd.Flags()
	if f.Changed("length") {
		cfg.Width = opts.width
	}
	if f.Changed("journal") {
		cfg.Journal = opts.journal
	}
	if f.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if opts.noProgress {
		cfg.Progress = false
	}
	if err := cfg.Validate(); err != nil {
		return cfg, ftext.Config{}, err
	}

	fl := cfg.Flags()
	if opts.justify || opts.unjustify || opts.left || opts.right || opts.centre {
		fl = ftext.Flags{
			Width:     cfg.Width,
			Justify:   opts.justify,
			Unjustify: opts.unjustify,
			Left:      opts.left,
			Right:     opts.right,
			Centre:    opts.centre,
		}
	}

	fcfg, err := ftext.ResolveFlags(fl)
	return cfg, fcfg, err
}

func newLogger(cfg config.Config, debug bool, stderr io.Writer) (*slog.Logger, func() error, error) {
	if debug {
		f, err := os.OpenFile(debugLogName, os.O_CREATE|os.O_WRONLY|os.O_APPEND|os.O_SYNC, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening debug log: %w", err)
		}
		h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
		return slog.New(h), f.Close, nil
	}

	level, err := cfg.Level()
	if err != nil {
		return nil, nil, err
	}
	h := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})
	return slog.New(h), func() error { return nil }, nil
}

func format(cmd *cobra.Command, path string, opts *options) error {
	cfg, fcfg, err := settings(cmd, opts)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	logger, closeLog, err := newLogger(cfg, opts.debug, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	if err := ftext.Validate(path); err != nil {
		return err
	}
	fi, err := os.Lstat(path)
	if err != nil {
		return err
	}
	logger.Debug("starting", "path", path, "mode", fcfg.Mode.String(), "width", fcfg.Width, "size", fi.Size())

	// Only a terminal gets the header and the bar.
	term, interactive := stderr.(*os.File)
	interactive = interactive && cfg.Progress && display.IsTerminal(term)

	if interactive {
		width := display.TerminalWidth(term)
		if err := display.Header(stderr, path, fi, width, time.Now()); err != nil {
			return err
		}
	}

	var rec ftext.Recorder
	var jrun *journal.Run
	if cfg.Journal != "" {
		j, err := journal.Open(cfg.Journal)
		if err != nil {
			return err
		}
		defer j.Close()

		abs, aerr := filepath.Abs(path)
		if aerr != nil {
			abs = path
		}
		jrun, err = j.Begin(journal.RunInfo{
			Path:         abs,
			Mode:         fcfg.Mode.String(),
			Width:        fcfg.Width,
			OriginalSize: int(fi.Size()),
		})
		if err != nil {
			return err
		}
		rec = jrun
		logger.Debug("journal run started", "journal", cfg.Journal, "run", jrun.ID())
	}

	var progress ftext.Progress
	idle := make(chan struct{})
	close(idle)
	var watched <-chan struct{} = idle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if interactive {
		bar := display.NewProgress(stderr, display.TerminalWidth(term))
		watched = bar.Watch(ctx, &progress)
	}

	ferr := ftext.Reformat(path, fcfg, cfg.Options(logger, rec), &progress)
	cancel()
	<-watched

	if jrun != nil {
		size := 0
		if st, serr := os.Stat(path); serr == nil {
			size = int(st.Size())
		}
		if jerr := jrun.Finish(size, ferr); jerr != nil && ferr == nil {
			return jerr
		}
	}

	if ferr != nil {
		logger.Error("formatting failed", "path", path, "err", ferr)
	}
	return ferr
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "ftext", ftext.GetVersionInfo(commit, date).String())
		},
	}
}
