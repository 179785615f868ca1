package onnx

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"raydx.com/raydx/pkg/raydx/domain"
)

// Occlusion saliency grid: the image is divided into patchGrid×patchGrid patches and each
// patch is masked in turn to measure its influence on the predicted class.
const patchGrid = 8

// Classifier a region-specific supervised classifier served from an ONNX checkpoint. Input is
// single-channel 1×1×224×224; the output score vector is mapped positionally onto the caller's
// condition list (output indices beyond the list are ignored, list entries beyond the output
// cardinality receive probability 0).
type Classifier struct {
	mutex       sync.Mutex
	session     *session
	name        string
	classLabels []string
}

// NewClassifier `classLabels` are the conditions the checkpoint was trained on, in output
// order; they are needed to resolve saliency requests by condition name.
func NewClassifier(modelPath, name string, classLabels []string) (*Classifier, error) {
	session, err := newSession(modelPath,
		ort.NewShape(1, 1, domain.ImageHeight, domain.ImageWidth),
		ort.NewShape(1, int64(len(classLabels))))
	if err != nil {
		return nil, fmt.Errorf("load classifier %s: %w", modelPath, err)
	}
	return &Classifier{
		session:     session,
		name:        name,
		classLabels: classLabels,
	}, nil
}

func (c *Classifier) Name() string {
	return c.name
}

func (c *Classifier) Infer(image *domain.PreprocessedImage, conditions domain.ConditionList) (*domain.BackendResult, error) {
	// The session tensors are shared per-call state, so only one inference may run at a time.
	c.mutex.Lock()
	defer c.mutex.Unlock()
	probabilities, err := c.classProbabilities(grayscaleTensor(image))
	if err != nil {
		return nil, &domain.BackendError{Backend: c.name, Err: err}
	}
	scores := make(map[string]float64, len(conditions.Conditions))
	for i, condition := range conditions.Conditions {
		if i < len(probabilities) {
			scores[condition] = probabilities[i]
		} else {
			scores[condition] = 0
		}
	}
	return domain.NewBackendResult(c.name, conditions, scores), nil
}

// SaliencyMap measures how much masking each image patch lowers the score of the given
// condition (occlusion sensitivity). Coarse, but genuinely class-conditioned.
func (c *Classifier) SaliencyMap(image *domain.PreprocessedImage, condition string) ([][]float64, error) {
	classIndex := -1
	for i, label := range c.classLabels {
		if label == condition {
			classIndex = i
			break
		}
	}
	if classIndex < 0 {
		return nil, fmt.Errorf("condition %q is not among the classifier's classes", condition)
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	input := grayscaleTensor(image)
	baseline, err := c.classProbabilities(input)
	if err != nil {
		return nil, err
	}
	baselineScore := baseline[classIndex]
	var inputMean float32
	for _, value := range input {
		inputMean += value
	}
	inputMean /= float32(len(input))
	patchHeight := domain.ImageHeight / patchGrid
	patchWidth := domain.ImageWidth / patchGrid
	grid := make([][]float64, patchGrid)
	occluded := make([]float32, len(input))
	for row := 0; row < patchGrid; row++ {
		grid[row] = make([]float64, patchGrid)
		for col := 0; col < patchGrid; col++ {
			copy(occluded, input)
			for y := row * patchHeight; y < (row+1)*patchHeight; y++ {
				for x := col * patchWidth; x < (col+1)*patchWidth; x++ {
					occluded[y*domain.ImageWidth+x] = inputMean
				}
			}
			probabilities, err := c.classProbabilities(occluded)
			if err != nil {
				return nil, err
			}
			drop := baselineScore - probabilities[classIndex]
			if drop < 0 {
				drop = 0
			}
			grid[row][col] = drop
		}
	}
	return grid, nil
}

func (c *Classifier) classProbabilities(input []float32) ([]float64, error) {
	output, err := c.session.run(input)
	if err != nil {
		return nil, err
	}
	return softmax32(output), nil
}

func (c *Classifier) Close() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.session.destroy()
}

// grayscaleTensor collapses the canonical three-channel tensor into the single channel the
// classifier expects.
func grayscaleTensor(image *domain.PreprocessedImage) []float32 {
	plane := image.Height * image.Width
	gray := make([]float32, plane)
	for y := 0; y < image.Height; y++ {
		for x := 0; x < image.Width; x++ {
			gray[y*image.Width+x] = image.Intensity(y, x)
		}
	}
	return gray
}
