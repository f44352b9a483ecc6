package display

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Giulio2002/ftext"
)

// labelWidth fits the longest stage label.
const labelWidth = 20

// DefaultInterval is how often Watch samples the counters.
const DefaultInterval = 50 * time.Millisecond

// Progress draws one line per transform stage: the stage label, a bar of
// '#' cells and the percentage.
type Progress struct {
	out      io.Writer
	width    int
	interval time.Duration

	label   lipgloss.Style
	bar     lipgloss.Style
	percent lipgloss.Style
}

// NewProgress returns a Progress writing lines of width columns to out.
// Colours are used only when out is a terminal that supports them.
func NewProgress(out io.Writer, width int) *Progress {
	r := lipgloss.NewRenderer(out)
	return &Progress{
		out:      out,
		width:    width,
		interval: DefaultInterval,
		label:    r.NewStyle().Foreground(clrLabel).Bold(true),
		bar:      r.NewStyle().Foreground(clrBar),
		percent:  r.NewStyle().Foreground(clrPercent),
	}
}

// SetInterval changes the sampling interval of Watch.
func (d *Progress) SetInterval(interval time.Duration) {
	if interval > 0 {
		d.interval = interval
	}
}

// Line renders s. The bar takes whatever the label and the percentage
// leave of the width; each cell is filled once the share it stands for is
// reached, to the nearest percent.
func (d *Progress) Line(s ftext.Snapshot) string {
	label := "[ " + centre(s.Stage, labelWidth) + " ]"
	pct := int(s.Percent() + 0.5)

	cells := d.width - runewidth.StringWidth(label) - 6
	if cells < 0 {
		cells = 0
	}
	filled := cells * pct / 100

	bar := strings.Repeat("#", filled) + strings.Repeat(" ", cells-filled)
	return d.label.Render(label) + " " + d.bar.Render(bar) + " " + d.percent.Render(fmt.Sprintf("%3d%%", pct))
}

// Watch samples p until ctx is done, redrawing the current line whenever
// the counters move and starting a new line when the stage changes. The
// returned channel is closed after the last line has been written.
func (d *Progress) Watch(ctx context.Context, p *ftext.Progress) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)

		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()

		var last ftext.Snapshot
		drawn := false

		draw := func(s ftext.Snapshot) {
			if s.Stage == "" || (drawn && s == last) {
				return
			}
			if drawn && s.Stage != last.Stage {
				// A stage only starts once the previous one finished.
				last.Done = last.Total
				fmt.Fprint(d.out, "\r"+d.Line(last)+"\n")
			}
			fmt.Fprint(d.out, "\r"+d.Line(s))
			last, drawn = s, true
		}

		for {
			select {
			case <-ctx.Done():
				draw(p.Observe())
				if drawn {
					fmt.Fprintln(d.out)
				}
				return
			case <-ticker.C:
				draw(p.Observe())
			}
		}
	}()

	return done
}
