package onnx

import (
	"fmt"
	"math"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	environmentOnce sync.Once
	environmentErr  error
)

// initializeEnvironment the ONNX runtime environment is process-wide and initialized at most
// once; a failure here permanently disables every ONNX-backed tier without crashing the process.
func initializeEnvironment() error {
	environmentOnce.Do(func() {
		environmentErr = ort.InitializeEnvironment()
	})
	return environmentErr
}

// session bundles an ONNX session with its fixed input/output tensors. The tensors are shared
// per-call state, so every run must hold the owner's mutex.
type session struct {
	advanced     *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
}

func newSession(modelPath string, inputShape, outputShape ort.Shape) (*session, error) {
	if err := initializeEnvironment(); err != nil {
		return nil, fmt.Errorf("initialize ONNX environment: %w", err)
	}
	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}
	advanced, err := ort.NewAdvancedSession(modelPath,
		[]string{"input"}, []string{"output"},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("create ONNX session: %w", err)
	}
	return &session{
		advanced:     advanced,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
	}, nil
}

// run copies the input in, executes the session and returns a copy of the output, so the
// caller never aliases the shared output tensor.
func (s *session) run(input []float32) ([]float32, error) {
	data := s.inputTensor.GetData()
	if len(input) != len(data) {
		return nil, fmt.Errorf("input is %d values, session expects %d", len(input), len(data))
	}
	copy(data, input)
	if err := s.advanced.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	output := s.outputTensor.GetData()
	result := make([]float32, len(output))
	copy(result, output)
	return result, nil
}

func (s *session) destroy() {
	if s.inputTensor != nil {
		s.inputTensor.Destroy()
	}
	if s.outputTensor != nil {
		s.outputTensor.Destroy()
	}
	if s.advanced != nil {
		s.advanced.Destroy()
	}
}

func softmax32(logits []float32) []float64 {
	if len(logits) == 0 {
		return nil
	}
	values := make([]float64, len(logits))
	for i, logit := range logits {
		values[i] = float64(logit)
	}
	maxLogit := values[0]
	for _, value := range values[1:] {
		if value > maxLogit {
			maxLogit = value
		}
	}
	var sum float64
	for i := range values {
		values[i] = math.Exp(values[i] - maxLogit)
		sum += values[i]
	}
	for i := range values {
		values[i] /= sum
	}
	return values
}
