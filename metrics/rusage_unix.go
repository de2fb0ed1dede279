//go:build unix

package metrics

import (
	"runtime"
	"syscall"
	"time"
)

// readRusage reads cumulative CPU time and peak RSS for the current process.
//
// ru_maxrss units differ per platform: Linux and the BSDs report kilobytes,
// Darwin reports bytes. Normalized to bytes here.
func readRusage() (user, system time.Duration, maxRSS uint64) {
	var ru syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &ru); err != nil {
		return 0, 0, 0
	}
	user = time.Duration(ru.Utime.Nano())
	system = time.Duration(ru.Stime.Nano())
	maxRSS = uint64(ru.Maxrss)
	if runtime.GOOS != "darwin" {
		maxRSS *= 1024
	}
	return user, system, maxRSS
}
