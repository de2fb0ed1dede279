// Package harness - Iterated, instrumented benchmark runs with CSV output.
package harness

import (
	"os"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config drives the benchmark harness.
type Config struct {
	// ModelPath is the ONNX classification model to benchmark.
	ModelPath string `json:"model" yaml:"model"`
	// ImagePath is the test image fed to every iteration.
	ImagePath string `json:"image" yaml:"image"`
	// InputName and OutputName are the model's tensor names.
	InputName  string `json:"inputName"  yaml:"inputName"`
	OutputName string `json:"outputName" yaml:"outputName"`
	// InputSize is the square model input resolution.
	InputSize int `json:"inputSize" yaml:"inputSize"`
	// NumClasses is the length of the model's output vector.
	NumClasses int64 `json:"numClasses" yaml:"numClasses"`
	// Iterations is the number of measured runs.
	Iterations int `json:"iterations" yaml:"iterations"`
	// WarmupRuns are unmeasured runs executed first.
	WarmupRuns int `json:"warmupRuns" yaml:"warmupRuns"`
	// Workers is the goroutine count for the concurrent preprocessing mode.
	Workers int `json:"workers" yaml:"workers"`
	// OutputDir receives the per-label CSV files.
	OutputDir string `json:"outputDir" yaml:"outputDir"`
}

// DefaultConfig returns defaults for a single-image classification benchmark.
func DefaultConfig() Config {
	return Config{
		InputName:  "input",
		OutputName: "output",
		InputSize:  224,
		NumClasses: 1000,
		Iterations: 10,
		WarmupRuns: 1,
		Workers:    runtime.NumCPU(),
		OutputDir:  "bench",
	}
}

// LoadConfig reads a YAML config file, applying defaults for absent fields.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, errors.Wrapf(err, "failed to read config %s", path)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "failed to parse config %s", path)
	}
	return config, nil
}

// Validate checks that the config describes a runnable benchmark.
func (c Config) Validate() error {
	if c.ModelPath == "" {
		return errors.New("model path must not be empty")
	}
	if c.ImagePath == "" {
		return errors.New("image path must not be empty")
	}
	if c.Iterations <= 0 {
		return errors.New("iterations must be a positive integer")
	}
	if c.InputSize <= 0 {
		return errors.New("input size must be positive")
	}
	if c.Workers <= 0 {
		return errors.New("workers must be positive")
	}
	return nil
}
