package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/edge-ai/go-bench/metrics"
)

const csvHeader = "user_time,system_time,cpu_percent,wallclock_time,max_rss\n"

// csvSink writes one CSV file per label, one row per iteration. Files are
// created lazily on the first row for a label.
type csvSink struct {
	dir   string
	files map[string]*os.File
}

func newCSVSink(dir string) (*csvSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create output directory %s", dir)
	}
	return &csvSink{dir: dir, files: make(map[string]*os.File)}, nil
}

// fileName maps a metric label to its CSV file name.
func fileName(label string) string {
	name := strings.ToLower(label)
	name = strings.ReplaceAll(name, " ", "_")
	return name + ".csv"
}

func (s *csvSink) write(d metrics.Delta) error {
	file, ok := s.files[d.Name]
	if !ok {
		var err error
		file, err = os.Create(filepath.Join(s.dir, fileName(d.Name)))
		if err != nil {
			return errors.Wrapf(err, "failed to create CSV for %s", d.Name)
		}
		if _, err := file.WriteString(csvHeader); err != nil {
			return errors.Wrap(err, "failed to write CSV header")
		}
		s.files[d.Name] = file
	}

	row := fmt.Sprintf("%.3f,%.3f,%.2f%%,%.3f,%d\n",
		float64(d.UserTime.Nanoseconds())/1e6,
		float64(d.SystemTime.Nanoseconds())/1e6,
		d.CPUPercent(),
		float64(d.WallClock.Nanoseconds())/1e6,
		d.MaxRSS,
	)
	if _, err := file.WriteString(row); err != nil {
		return errors.Wrapf(err, "failed to write CSV row for %s", d.Name)
	}
	return nil
}

// Close flushes and closes every per-label file.
func (s *csvSink) Close() error {
	var firstErr error
	for _, file := range s.files {
		if err := file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.files = nil
	return firstErr
}
