package harness

import (
	"fmt"
	"io"
	"time"

	"github.com/edge-ai/go-bench/metrics"
)

// runningAverage accumulates per-label sums across iterations; means are
// derived at render time. CPU utilization is averaged over the per-iteration
// percentages, matching how the readings are reported.
type runningAverage struct {
	name       string
	count      int
	wallClock  time.Duration
	userTime   time.Duration
	systemTime time.Duration
	cpuPercent float64
	maxRSS     uint64
}

// averages maintains running averages keyed by label, rendered in
// first-seen label order.
type averages struct {
	order  []string
	byName map[string]*runningAverage
}

func newAverages() *averages {
	return &averages{byName: make(map[string]*runningAverage)}
}

func (a *averages) add(d metrics.Delta) {
	ra, ok := a.byName[d.Name]
	if !ok {
		ra = &runningAverage{name: d.Name}
		a.byName[d.Name] = ra
		a.order = append(a.order, d.Name)
	}
	ra.count++
	ra.wallClock += d.WallClock
	ra.userTime += d.UserTime
	ra.systemTime += d.SystemTime
	ra.cpuPercent += d.CPUPercent()
	ra.maxRSS += d.MaxRSS
}

// write renders one average block per label in first-seen order.
func (a *averages) write(w io.Writer) {
	for _, name := range a.order {
		ra := a.byName[name]
		n := time.Duration(ra.count)
		fmt.Fprintf(w, "==== %s Metrics ====\n", ra.name)
		fmt.Fprintf(w, "Average Wall Clock Time: %v\n", ra.wallClock/n)
		fmt.Fprintf(w, "Average User Time: %v\n", ra.userTime/n)
		fmt.Fprintf(w, "Average System Time: %v\n", ra.systemTime/n)
		fmt.Fprintf(w, "Average CPU Usage: %.2f %%\n", ra.cpuPercent/float64(ra.count))
		fmt.Fprintf(w, "Average Max RSS: %d\n", ra.maxRSS/uint64(ra.count))
	}
}
