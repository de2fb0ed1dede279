//go:build !unix

package metrics

import "time"

// readRusage reports zeroed counters on platforms without getrusage.
func readRusage() (user, system time.Duration, maxRSS uint64) {
	return 0, 0, 0
}
