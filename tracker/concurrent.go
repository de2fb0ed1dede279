package tracker

import (
	"sync"

	"go.uber.org/zap"

	"github.com/edge-ai/go-bench/metrics"
)

// ConcurrentTracker is the thread-safe variant of Tracker. Worker goroutines
// each own an unsynchronized in-flight operation slot, while the
// completed-operation log and the phase accumulators are shared behind one
// mutex. The arithmetic is identical to Tracker; only the storage discipline
// differs.
//
// Across workers, the order of entries in the completed-operation log
// reflects lock-acquisition order, not wall-clock start order.
type ConcurrentTracker struct {
	capture captureFunc
	log     *zap.Logger
	start   metrics.Sample

	mu         sync.Mutex
	operations []metrics.Delta
	phases     phaseSet
	finalTotal *metrics.Delta
}

// NewConcurrent creates a concurrent tracker and captures the run-start
// baseline. logger receives misuse diagnostics; nil drops them.
func NewConcurrent(logger *zap.Logger) *ConcurrentTracker {
	return newConcurrentTracker(metrics.Capture, logger)
}

func newConcurrentTracker(capture captureFunc, logger *zap.Logger) *ConcurrentTracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConcurrentTracker{
		capture: capture,
		log:     logger,
		start:   capture(totalName),
	}
}

// Worker returns an in-flight operation slot owned by a single goroutine.
// The slot itself needs no lock since only its owner touches it; finished
// deltas flow into the shared collections under the tracker mutex.
func (ct *ConcurrentTracker) Worker() *Worker {
	return &Worker{tracker: ct}
}

// Worker is a per-goroutine operation cursor. It must not be shared between
// goroutines.
type Worker struct {
	tracker *ConcurrentTracker
	current *metrics.Sample
}

// StartOperation opens an operation on this worker. A stale open operation
// is finished and folded in first, never discarded.
func (w *Worker) StartOperation(name string) {
	if w.current != nil {
		w.tracker.log.Debug("implicitly finishing stale operation",
			zap.String("operation", w.current.Name),
			zap.String("next", name))
		w.finishCurrent()
	}
	s := w.tracker.capture(name)
	w.current = &s
}

// FinishOperation closes this worker's open operation. With nothing open it
// logs a diagnostic and returns.
func (w *Worker) FinishOperation() {
	if w.current == nil {
		w.tracker.log.Debug("finish with no open operation")
		return
	}
	w.finishCurrent()
}

func (w *Worker) finishCurrent() {
	start := *w.current
	w.current = nil
	// Capture before taking the lock: rusage reads are comparatively slow
	// and must not serialize unrelated workers.
	end := w.tracker.capture(start.Name)
	w.tracker.record(metrics.Diff(end, start))
}

func (ct *ConcurrentTracker) record(d metrics.Delta) {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	ct.operations = append(ct.operations, d)
	ct.phases.fold(d)
	ct.finalTotal = nil
}

// StartPhase opens a named shared accumulator at zero. First start fixes the
// report position; restarting an open phase freezes its in-flight total
// first.
func (ct *ConcurrentTracker) StartPhase(name string) {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	if ct.phases.start(name) {
		ct.log.Debug("restarted open phase", zap.String("phase", name))
	}
	ct.finalTotal = nil
}

// EndPhase freezes the named accumulator. Unknown or already-closed names
// log a diagnostic and change nothing.
func (ct *ConcurrentTracker) EndPhase(name string) {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	if !ct.phases.end(name) {
		ct.log.Debug("end of unknown or closed phase", zap.String("phase", name))
		return
	}
	ct.finalTotal = nil
}

// Total is the whole-run cost since the tracker was constructed.
func (ct *ConcurrentTracker) Total() metrics.Delta {
	end := ct.capture(totalName)
	return metrics.Diff(end, ct.start)
}

// Snapshot assembles the final report; see Tracker.Snapshot. The whole-run
// total sample is captured outside the lock.
func (ct *ConcurrentTracker) Snapshot() Report {
	end := ct.capture(totalName)

	ct.mu.Lock()
	defer ct.mu.Unlock()
	if ct.finalTotal == nil {
		total := metrics.Diff(end, ct.start)
		ct.finalTotal = &total
	}
	return Report{
		Operations: append([]metrics.Delta(nil), ct.operations...),
		Phases:     ct.phases.completed(),
		Total:      *ct.finalTotal,
	}
}

// PrintAll writes the final report to standard output.
func (ct *ConcurrentTracker) PrintAll() {
	printReport(ct.Snapshot())
}
