package tracker

import "github.com/edge-ai/go-bench/metrics"

// phase is one named accumulator. running collects operation deltas while the
// phase is open; frozen holds the total recorded at the most recent end.
type phase struct {
	name    string
	running metrics.Delta
	frozen  metrics.Delta
	open    bool
	done    bool
}

// phaseSet is an ordered collection of phase accumulators. Slice order is
// first-start order and doubles as report order, so no separate order list
// has to be kept in sync with a map. Phase counts are small, so lookup is a
// linear scan.
type phaseSet struct {
	entries []*phase
}

func (ps *phaseSet) byName(name string) *phase {
	for _, p := range ps.entries {
		if p.name == name {
			return p
		}
	}
	return nil
}

// start opens a zeroed accumulator for name, creating the entry on first use.
// Restarting a phase that is still open freezes its in-flight total first, so
// progress is never silently discarded. Reports whether an open phase was
// restarted.
func (ps *phaseSet) start(name string) bool {
	p := ps.byName(name)
	if p == nil {
		p = &phase{name: name}
		ps.entries = append(ps.entries, p)
	}
	restarted := p.open
	if p.open {
		p.frozen = p.running
		p.done = true
	}
	p.running = metrics.Delta{Name: name}
	p.open = true
	return restarted
}

// end freezes the named accumulator and removes it from the open set.
// Reports whether the phase was actually open; ending an unknown or
// already-closed phase changes nothing.
func (ps *phaseSet) end(name string) bool {
	p := ps.byName(name)
	if p == nil || !p.open {
		return false
	}
	p.frozen = p.running
	p.open = false
	p.done = true
	return true
}

// fold adds an operation delta to every currently open phase. Phases may
// nest or overlap; each open phase receives the full delta.
func (ps *phaseSet) fold(d metrics.Delta) {
	for _, p := range ps.entries {
		if p.open {
			p.running = p.running.Combine(d)
		}
	}
}

// completed returns the frozen totals of every ended phase, in first-start
// order. Phases started but never ended are skipped.
func (ps *phaseSet) completed() []metrics.Delta {
	var out []metrics.Delta
	for _, p := range ps.entries {
		if p.done {
			out = append(out, p.frozen)
		}
	}
	return out
}
