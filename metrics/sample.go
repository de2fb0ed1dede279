// Package metrics - Resource samples and interval deltas.
package metrics

import "time"

// Sample is a point-in-time read of the process's wall clock and OS resource
// counters. Two samples of the same process are comparable only in the order
// they were taken; the CPU and memory counters never decrease between two
// samples taken later in wall-clock order.
type Sample struct {
	// Name labels the operation or phase this sample belongs to. It only
	// becomes meaningful once the sample is turned into a Delta.
	Name string
	// Timestamp is the monotonic instant of capture.
	Timestamp time.Time
	// UserTime is cumulative user-mode CPU time since process start.
	UserTime time.Duration
	// SystemTime is cumulative kernel-mode CPU time since process start.
	SystemTime time.Duration
	// MaxRSS is the peak resident set size of the process, in bytes.
	MaxRSS uint64
}

// Capture reads the current process resource counters.
//
// Capture never fails. On platforms without getrusage support the CPU and
// memory counters come back zeroed and only the timestamp is meaningful;
// instrumentation is best-effort and must not abort host work.
func Capture(name string) Sample {
	user, system, maxRSS := readRusage()
	return Sample{
		Name:       name,
		Timestamp:  time.Now(),
		UserTime:   user,
		SystemTime: system,
		MaxRSS:     maxRSS,
	}
}
