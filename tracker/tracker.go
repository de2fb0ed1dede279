// Package tracker - Per-operation and per-phase resource cost tracking
// around instrumented work.
//
// A Tracker is draped around plain function calls in the host program:
// StartOperation/FinishOperation bracket a unit of work, StartPhase/EndPhase
// bracket a named group of operations. Every public method is infallible;
// instrumentation defects degrade readings, they never fail the host.
package tracker

import "github.com/edge-ai/go-bench/metrics"

// captureFunc abstracts metrics.Capture so tests can feed deterministic
// samples.
type captureFunc func(name string) metrics.Sample

// Tracker records operation and phase costs for one benchmarking run.
//
// A Tracker is owned by a single goroutine; use ConcurrentTracker when
// multiple workers record operations against shared phases.
type Tracker struct {
	capture    captureFunc
	start      metrics.Sample
	current    *metrics.Sample
	operations []metrics.Delta
	phases     phaseSet

	// finalTotal memoizes the whole-run total so that repeated snapshots
	// with no intervening mutation render identically. Any mutation clears
	// it.
	finalTotal *metrics.Delta
}

// New creates a tracker and captures the run-start baseline sample.
func New() *Tracker {
	return newTracker(metrics.Capture)
}

func newTracker(capture captureFunc) *Tracker {
	return &Tracker{
		capture: capture,
		start:   capture(totalName),
	}
}

// StartOperation captures a sample and opens an operation under name. An
// operation still open from an earlier start is finished and folded in
// first, never discarded.
func (t *Tracker) StartOperation(name string) {
	if t.current != nil {
		t.finishCurrent()
	}
	s := t.capture(name)
	t.current = &s
	t.finalTotal = nil
}

// FinishOperation closes the open operation: its delta is appended to the
// completed-operation log and folded into every open phase. With nothing
// open this is a no-op.
func (t *Tracker) FinishOperation() {
	if t.current == nil {
		return
	}
	t.finishCurrent()
	t.finalTotal = nil
}

func (t *Tracker) finishCurrent() {
	start := *t.current
	t.current = nil
	end := t.capture(start.Name)
	d := metrics.Diff(end, start)
	t.operations = append(t.operations, d)
	t.phases.fold(d)
}

// StartPhase opens a named accumulator at zero. The first start of a name
// fixes its position in the report order; later restarts do not move it.
func (t *Tracker) StartPhase(name string) {
	t.phases.start(name)
	t.finalTotal = nil
}

// EndPhase freezes the named accumulator and records its total for the
// report. Ending a phase that was never started, or is already closed, is a
// no-op.
func (t *Tracker) EndPhase(name string) {
	if t.phases.end(name) {
		t.finalTotal = nil
	}
}

// Total is the whole-run cost since the tracker was constructed.
func (t *Tracker) Total() metrics.Delta {
	return metrics.Diff(t.capture(totalName), t.start)
}

// Snapshot assembles the final report: completed operations in completion
// order, completed phase totals in first-start order, and the whole-run
// total. The total is memoized until the next mutation, so back-to-back
// snapshots are identical.
func (t *Tracker) Snapshot() Report {
	if t.finalTotal == nil {
		total := t.Total()
		t.finalTotal = &total
	}
	return Report{
		Operations: append([]metrics.Delta(nil), t.operations...),
		Phases:     t.phases.completed(),
		Total:      *t.finalTotal,
	}
}

// PrintAll writes the final report to standard output.
func (t *Tracker) PrintAll() {
	printReport(t.Snapshot())
}
