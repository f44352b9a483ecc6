package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Giulio2002/ftext/journal"
)

func newJournalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "journal DB [RUN]",
		Short: "List the runs in a journal, or the operations of one run",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := journal.Open(args[0])
			if err != nil {
				return err
			}
			defer j.Close()

			if len(args) == 2 {
				return printOps(cmd.OutOrStdout(), j, args[1])
			}
			return printRuns(cmd.OutOrStdout(), j)
		},
	}
}

func runStatus(info journal.RunInfo) string {
	switch {
	case info.Complete():
		return "ok"
	case info.Err != "":
		return "failed"
	default:
		return "interrupted"
	}
}

func printRuns(w io.Writer, j *journal.Journal) error {
	runs, err := j.Runs()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tMODE\tWIDTH\tSIZE\tOPS\tSTATUS\tPATH")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s -> %s\t%d\t%s\t%s\n",
			r.ID,
			humanize.Time(r.Started),
			r.Mode,
			r.Width,
			humanize.IBytes(uint64(r.OriginalSize)),
			humanize.IBytes(uint64(r.FinalSize)),
			r.Ops,
			runStatus(r),
			r.Path,
		)
	}
	return tw.Flush()
}

func printOps(w io.Writer, j *journal.Journal, id string) error {
	info, err := j.Run(id)
	if err != nil {
		return fmt.Errorf("%s: %w", id, err)
	}
	ops, err := j.Ops(id)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "run %s on %s (%s, width %d): %s\n", info.ID, info.Path, info.Mode, info.Width, runStatus(info))
	if info.Err != "" {
		fmt.Fprintf(w, "error: %s\n", info.Err)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tOP\tOFFSET\tRANGE\tSIZE\t")
	for i, op := range ops {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t\n", i+1, op.Kind, op.Offset, op.Range, op.Size)
	}
	return tw.Flush()
}
