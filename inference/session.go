// Package inference - ONNX Runtime classification sessions.
package inference

import (
	"os"
	"runtime"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
)

// SharedLibPath returns the path to the ONNX Runtime shared library for the
// current platform. ONNXRUNTIME_SHARED_LIBRARY_PATH overrides the default.
func SharedLibPath() string {
	if path := os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH"); path != "" {
		return path
	}
	switch runtime.GOOS {
	case "windows":
		return "third_party/onnxruntime.dll"
	case "darwin":
		return "third_party/libonnxruntime.dylib"
	default:
		if runtime.GOARCH == "arm64" {
			return "third_party/onnxruntime_arm64.so"
		}
		return "third_party/onnxruntime.so"
	}
}

// InitEnvironment prepares the ONNX Runtime environment. It must be called
// once before any session is created; repeated calls are no-ops.
func InitEnvironment() error {
	if ort.IsInitialized() {
		return nil
	}
	ort.SetSharedLibraryPath(SharedLibPath())
	if err := ort.InitializeEnvironment(); err != nil {
		return errors.Wrap(err, "failed to initialize ONNX runtime environment")
	}
	return nil
}

// DestroyEnvironment tears down the ONNX Runtime environment.
func DestroyEnvironment() error {
	return ort.DestroyEnvironment()
}

// Config describes a single-image classification session.
type Config struct {
	// ModelPath is the path to the ONNX model file.
	ModelPath string
	// InputName and OutputName are the model's tensor names.
	InputName  string
	OutputName string
	// InputSize is the square model input resolution.
	InputSize int
	// NumClasses is the length of the output score vector.
	NumClasses int64
}

// Session wraps an ONNX Runtime session with preallocated input and output
// tensors for single-image classification.
type Session struct {
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

// NewSession loads the model and preallocates a 1x3xNxN input tensor and a
// 1xC output tensor.
//
// Arguments:
//   - config: The session configuration.
//
// Returns:
//   - *Session: The runnable session; callers must Close it.
//   - error: An error if the model is missing or session creation fails.
func NewSession(config Config) (*Session, error) {
	if _, err := os.Stat(config.ModelPath); err != nil {
		return nil, errors.Wrapf(err, "model file not found: %s", config.ModelPath)
	}

	input, err := ort.NewEmptyTensor[float32](
		ort.NewShape(1, 3, int64(config.InputSize), int64(config.InputSize)))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create input tensor")
	}

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, config.NumClasses))
	if err != nil {
		input.Destroy()
		return nil, errors.Wrap(err, "failed to create output tensor")
	}

	session, err := ort.NewAdvancedSession(
		config.ModelPath,
		[]string{config.InputName},
		[]string{config.OutputName},
		[]ort.ArbitraryTensor{input},
		[]ort.ArbitraryTensor{output},
		nil,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, errors.Wrap(err, "failed to create ONNX session")
	}

	return &Session{session: session, input: input, output: output}, nil
}

// Input exposes the preallocated input tensor buffer for preprocessing.
func (s *Session) Input() []float32 {
	return s.input.GetData()
}

// Run executes the model against the current input tensor contents.
func (s *Session) Run() error {
	if err := s.session.Run(); err != nil {
		return errors.Wrap(err, "inference run failed")
	}
	return nil
}

// Output returns the raw output scores.
func (s *Session) Output() []float32 {
	return s.output.GetData()
}

// Close releases the native session and tensors.
func (s *Session) Close() {
	if s.input != nil {
		s.input.Destroy()
		s.input = nil
	}
	if s.output != nil {
		s.output.Destroy()
		s.output = nil
	}
	if s.session != nil {
		s.session.Destroy()
		s.session = nil
	}
}
