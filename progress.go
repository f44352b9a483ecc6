package ftext

import (
	"sync/atomic"
)

// Progress publishes how far the running transform has got. The worker
// is the only writer; any number of observers may read it concurrently. A reading
// can be momentarily stale, which only affects what a display shows.
type Progress struct {
	stage atomic.Pointer[string]
	total atomic.Int64
	done  atomic.Int64
}

// Snapshot is one observation of a Progress.
type Snapshot struct {
	Stage string
	Done  int64
	Total int64
}

// Percent returns the completed share in [0, 100]. A transform with no
// lines to process counts as complete.
func (s Snapshot) Percent() float64 {
	if s.Total <= 0 {
		return 100
	}
	p := float64(s.Done) / float64(s.Total) * 100
	if p > 100 {
		p = 100
	}
	return p
}

// Begin resets the counters for a new transform.
func (p *Progress) Begin(stage string, total int) {
	if p == nil {
		return
	}
	p.done.Store(0)
	p.total.Store(int64(total))
	p.stage.Store(&stage)
}

// Add records n more lines as processed. Done never passes Total: line
// feeds a transform produces count too, so the sum can run ahead of the
// line count taken at Begin.
func (p *Progress) Add(n int) {
	if p == nil {
		return
	}
	d := p.done.Load() + int64(n)
	if t := p.total.Load(); d > t {
		d = t
	}
	p.done.Store(d)
}

// Finish marks the current transform complete.
func (p *Progress) Finish() {
	if p == nil {
		return
	}
	p.done.Store(p.total.Load())
}

// Done returns the number of lines processed by the current transform.
func (p *Progress) Done() int64 {
	if p == nil {
		return 0
	}
	return p.done.Load()
}

// Total returns the number of lines the current transform started with.
func (p *Progress) Total() int64 {
	if p == nil {
		return 0
	}
	return p.total.Load()
}

// Observe returns the current stage and counters.
func (p *Progress) Observe() Snapshot {
	if p == nil {
		return Snapshot{}
	}
	s := Snapshot{
		Done:  p.done.Load(),
		Total: p.total.Load(),
	}
	if st := p.stage.Load(); st != nil {
		s.Stage = *st
	}
	return s
}
