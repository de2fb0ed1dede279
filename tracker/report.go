package tracker

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/edge-ai/go-bench/metrics"
)

// totalName labels the whole-run delta in reports.
const totalName = "Total"

// Report is an immutable view of a finished run: completed operations in
// completion order, completed phase totals in first-start order, and the
// whole-run total.
type Report struct {
	Operations []metrics.Delta
	Phases     []metrics.Delta
	Total      metrics.Delta
}

var banner = color.New(color.FgCyan, color.Bold)

// Write renders the report to w: one block per completed operation, the
// phase totals under a Phase Metrics banner when any phase completed, then
// the whole-run total. Rendering is pure and can be repeated.
func (r Report) Write(w io.Writer) {
	for _, op := range r.Operations {
		writeDelta(w, op)
	}
	if len(r.Phases) > 0 {
		banner.Fprintln(w, "\n=========== Phase Metrics ===========")
		for _, p := range r.Phases {
			writeDelta(w, p)
		}
		banner.Fprintln(w, "=====================================")
	}
	writeDelta(w, r.Total)
}

func writeDelta(w io.Writer, d metrics.Delta) {
	banner.Fprintf(w, "============= %s Metrics =============\n", d.Name)
	fmt.Fprintf(w, "Wall Clock Time: %v\n", d.WallClock)
	fmt.Fprintf(w, "User Time: %v\n", d.UserTime)
	fmt.Fprintf(w, "System Time: %v\n", d.SystemTime)
	fmt.Fprintf(w, "Max RSS: %s\n", formatBytes(d.MaxRSS))
	fmt.Fprintf(w, "CPU Usage: %.2f%%\n", d.CPUPercent())
	fmt.Fprintln(w, "=======================================")
}

func printReport(r Report) {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
	r.Write(os.Stdout)
}

// formatBytes formats byte counts in human-readable form.
func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
