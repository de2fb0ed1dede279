package metrics

import "time"

// Delta is the resource cost of an interval: either the difference between
// two Samples, or the fold of several interval deltas.
type Delta struct {
	// Name labels the operation or phase the delta covers. It is carried for
	// reporting only and never participates in equality.
	Name string
	// WallClock is the elapsed real time covered by the interval.
	WallClock time.Duration
	// UserTime is user-mode CPU time attributable to the interval.
	UserTime time.Duration
	// SystemTime is kernel-mode CPU time attributable to the interval.
	SystemTime time.Duration
	// MaxRSS is the baseline-subtracted peak RSS for a single interval, and
	// the maximum of the constituents for a folded total. Memory high-water
	// marks do not accumulate across intervals the way CPU time does.
	MaxRSS uint64
}

// Diff computes end - start component-wise.
//
// Counter reads can race the wall clock under concurrent capture, so a
// negative component is clamped to zero instead of underflowing. The result
// is then a degraded best-effort reading, never an error.
func Diff(end, start Sample) Delta {
	d := Delta{Name: end.Name}
	if wall := end.Timestamp.Sub(start.Timestamp); wall > 0 {
		d.WallClock = wall
	}
	if user := end.UserTime - start.UserTime; user > 0 {
		d.UserTime = user
	}
	if system := end.SystemTime - start.SystemTime; system > 0 {
		d.SystemTime = system
	}
	if end.MaxRSS > start.MaxRSS {
		d.MaxRSS = end.MaxRSS - start.MaxRSS
	}
	return d
}

// Combine folds two deltas into one: the durations add, peak RSS takes the
// maximum. Combine is commutative and associative, with the zero Delta as
// identity. The result keeps the receiver's name.
func (d Delta) Combine(other Delta) Delta {
	out := Delta{
		Name:       d.Name,
		WallClock:  d.WallClock + other.WallClock,
		UserTime:   d.UserTime + other.UserTime,
		SystemTime: d.SystemTime + other.SystemTime,
		MaxRSS:     d.MaxRSS,
	}
	if other.MaxRSS > out.MaxRSS {
		out.MaxRSS = other.MaxRSS
	}
	return out
}

// CPUPercent derives CPU utilization over the interval, 0 when no wall-clock
// time was covered. It is computed on demand so rounding never compounds
// across Combine calls.
func (d Delta) CPUPercent() float64 {
	if d.WallClock <= 0 {
		return 0
	}
	return float64(d.UserTime+d.SystemTime) / float64(d.WallClock) * 100
}
