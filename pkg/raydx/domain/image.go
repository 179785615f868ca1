package domain

import "fmt"

// Canonical tensor geometry every preprocessor must produce.
const (
	ImageChannels = 3
	ImageHeight   = 224
	ImageWidth    = 224
)

// PreprocessedImage the canonical tensor representation of a radiograph: channel-first,
// fixed spatial size, intensity-normalized. It is owned exclusively by the analysis that
// produced it and must never be shared across concurrent runs.
type PreprocessedImage struct {
	Channels int
	Height   int
	Width    int
	// Data is channel-first: Data[c*Height*Width + y*Width + x].
	Data []float32
	// Brightness and Contrast are the mean and standard deviation of the pre-normalization
	// [0,1] intensities. They are recorded at decode time because normalization destroys them,
	// and the heuristic fallback and quality grading depend on the original scale.
	Brightness float64
	Contrast   float64
}

// At returns the normalized value at the given channel and pixel.
func (p *PreprocessedImage) At(c, y, x int) float32 {
	return p.Data[c*p.Height*p.Width+y*p.Width+x]
}

// Intensity returns the channel-averaged normalized value at the given pixel.
func (p *PreprocessedImage) Intensity(y, x int) float32 {
	var sum float32
	for c := 0; c < p.Channels; c++ {
		sum += p.At(c, y, x)
	}
	return sum / float32(p.Channels)
}

// ImagePreprocessor normalizes a raw image file into the canonical tensor representation.
// Any decode or transform error is fatal for the whole analysis: no partial result is
// possible without a valid image tensor.
type ImagePreprocessor interface {
	Preprocess(imagePath string) (*PreprocessedImage, error)
}

// PreprocessingError the only error class which crosses the orchestrator boundary.
type PreprocessingError struct {
	Err error
}

func (p *PreprocessingError) Error() string {
	return fmt.Sprintf("image preprocessing failed: %v", p.Err)
}

func (p *PreprocessingError) Unwrap() error {
	return p.Err
}
