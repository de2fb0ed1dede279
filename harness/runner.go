package harness

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/edge-ai/go-bench/images"
	"github.com/edge-ai/go-bench/inference"
	"github.com/edge-ai/go-bench/tracker"
)

// Phase names used by the instrumented pipeline.
const (
	setupPhase     = "Setup Phase"
	executionPhase = "Execution Phase"
)

// Runner executes instrumented classification runs and aggregates their
// costs across iterations.
type Runner struct {
	config Config
	log    *zap.Logger
}

// NewRunner creates a runner. logger may be nil.
func NewRunner(config Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{config: config, log: logger}
}

// RunOnce performs one fully instrumented pipeline pass: environment init,
// model load and image decode under the setup phase; preprocessing,
// inference and postprocessing under the execution phase.
//
// Returns:
//   - tracker.Report: Per-operation and per-phase costs of the run.
//   - inference.Prediction: The classification result.
//   - error: The first pipeline failure; the report is still valid for the
//     operations that completed.
func (r *Runner) RunOnce() (tracker.Report, inference.Prediction, error) {
	tr := tracker.New()

	tr.StartPhase(setupPhase)

	tr.StartOperation("envload")
	err := inference.InitEnvironment()
	tr.FinishOperation()
	if err != nil {
		return tr.Snapshot(), inference.Prediction{}, err
	}

	tr.StartOperation("loadmodel")
	session, err := inference.NewSession(inference.Config{
		ModelPath:  r.config.ModelPath,
		InputName:  r.config.InputName,
		OutputName: r.config.OutputName,
		InputSize:  r.config.InputSize,
		NumClasses: r.config.NumClasses,
	})
	tr.FinishOperation()
	if err != nil {
		return tr.Snapshot(), inference.Prediction{}, err
	}
	defer session.Close()

	tr.StartOperation("readimg")
	img, err := images.Load(r.config.ImagePath)
	tr.FinishOperation()
	if err != nil {
		return tr.Snapshot(), inference.Prediction{}, err
	}

	tr.EndPhase(setupPhase)

	tr.StartPhase(executionPhase)

	tr.StartOperation("preprocess")
	err = images.ToTensor(img, r.config.InputSize, session.Input())
	tr.FinishOperation()
	if err != nil {
		return tr.Snapshot(), inference.Prediction{}, err
	}

	tr.StartOperation("inference")
	err = session.Run()
	tr.FinishOperation()
	if err != nil {
		return tr.Snapshot(), inference.Prediction{}, err
	}

	tr.StartOperation("postprocess")
	prediction := inference.Classify(session.Output())
	tr.FinishOperation()

	tr.EndPhase(executionPhase)

	return tr.Snapshot(), prediction, nil
}

// Bench runs the pipeline config.Iterations times after the warmup runs,
// streams every per-label delta to the CSV sink, and writes average metric
// blocks to w at the end.
func (r *Runner) Bench(w io.Writer) error {
	sink, err := newCSVSink(r.config.OutputDir)
	if err != nil {
		return err
	}
	defer sink.Close()

	for i := 1; i <= r.config.WarmupRuns; i++ {
		r.log.Info("warmup run", zap.Int("run", i))
		if _, _, err := r.RunOnce(); err != nil {
			r.log.Warn("warmup run failed", zap.Int("run", i), zap.Error(err))
		}
	}

	avgs := newAverages()
	completed := 0
	for i := 1; i <= r.config.Iterations; i++ {
		r.log.Info("running iteration", zap.Int("iteration", i))

		report, prediction, err := r.RunOnce()
		if err != nil {
			r.log.Warn("iteration failed", zap.Int("iteration", i), zap.Error(err))
			continue
		}
		completed++

		for _, d := range report.Operations {
			avgs.add(d)
			if err := sink.write(d); err != nil {
				return err
			}
		}
		for _, d := range report.Phases {
			avgs.add(d)
			if err := sink.write(d); err != nil {
				return err
			}
		}
		avgs.add(report.Total)
		if err := sink.write(report.Total); err != nil {
			return err
		}

		r.log.Debug("iteration finished",
			zap.Int("iteration", i),
			zap.Int("class", prediction.ClassIndex),
			zap.Float32("confidence", prediction.Confidence))
	}

	if completed == 0 {
		r.log.Warn("no iteration completed, skipping averages")
		return nil
	}

	fmt.Fprintf(w, "Benchmarking completed, CSV files written to %s\n", r.config.OutputDir)
	avgs.write(w)
	return nil
}

// BenchConcurrent preprocesses test images on config.Workers goroutines in
// parallel against a shared ConcurrentTracker, modeling a multi-stream
// preprocessing stage, and writes the combined report to w. ImagePath may be
// a single file or a directory of frames distributed across workers.
func (r *Runner) BenchConcurrent(w io.Writer) error {
	imgs, err := images.LoadAll(r.config.ImagePath)
	if err != nil {
		return err
	}

	ct := tracker.NewConcurrent(r.log)
	size := r.config.InputSize

	ct.StartPhase("Preprocess Phase")

	var wg sync.WaitGroup
	for i := 0; i < r.config.Workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			worker := ct.Worker()
			buf := make([]float32, 3*size*size)
			for j := 0; j < r.config.Iterations; j++ {
				img := imgs[(id+j)%len(imgs)]
				worker.StartOperation(fmt.Sprintf("preprocess-%d", id))
				if err := images.ToTensor(img, size, buf); err != nil {
					r.log.Warn("preprocess failed", zap.Int("worker", id), zap.Error(err))
				}
				worker.FinishOperation()
			}
		}(i)
	}
	wg.Wait()

	ct.EndPhase("Preprocess Phase")

	ct.Snapshot().Write(w)
	return nil
}
