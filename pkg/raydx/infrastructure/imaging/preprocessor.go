package imaging

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"math/rand"
	"os"

	"github.com/nfnt/resize"

	"raydx.com/raydx/pkg/common"
	"raydx.com/raydx/pkg/raydx/domain"
)

// ImageNet channel statistics, used by the generic pipeline.
var (
	genericMean = [domain.ImageChannels]float32{0.485, 0.456, 0.406}
	genericStd  = [domain.ImageChannels]float32{0.229, 0.224, 0.225}
)

// Preprocessor turns a raw radiograph file into the canonical channel-first tensor. The
// medical pipeline standardizes intensities per image (radiographs vary wildly in exposure
// between acquisition devices); the generic pipeline normalizes with fixed ImageNet
// statistics. Both accept grayscale and RGB inputs of any size and bit depth.
type Preprocessor struct {
	medical           bool
	perturbationNoise float64
	logger            common.Logger
}

func NewPreprocessor(config *common.Config, logger common.Logger) *Preprocessor {
	return &Preprocessor{
		medical:           config.GetBoolOrDefault(domain.ConfigKeyMedicalPreprocessing, true),
		perturbationNoise: config.GetFloatOrDefault(domain.ConfigKeyPerturbationNoise, 0),
		logger:            logger,
	}
}

func (p *Preprocessor) Preprocess(imagePath string) (*domain.PreprocessedImage, error) {
	file, err := os.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()
	decoded, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	resized := resize.Resize(domain.ImageWidth, domain.ImageHeight, decoded, resize.Lanczos3)
	data := rasterToTensor(resized)
	brightness, contrast := meanStd(data)
	if p.medical {
		p.standardizeIntensity(data)
	} else {
		normalizeWithChannelStats(data)
	}
	return &domain.PreprocessedImage{
		Channels:   domain.ImageChannels,
		Height:     domain.ImageHeight,
		Width:      domain.ImageWidth,
		Data:       data,
		Brightness: brightness,
		Contrast:   contrast,
	}, nil
}

// rasterToTensor converts the decoded raster into channel-first [0,1] float32 values.
// Grayscale inputs simply replicate the same value across all three channels.
func rasterToTensor(img image.Image) []float32 {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	plane := width * height
	data := make([]float32, domain.ImageChannels*plane)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			index := y*width + x
			data[index] = float32(r) / 65535.0
			data[plane+index] = float32(g) / 65535.0
			data[2*plane+index] = float32(b) / 65535.0
		}
	}
	return data
}

// standardizeIntensity z-normalizes the whole tensor per image. Optionally adds light Gaussian
// jitter to emulate robustness to acquisition variance; disabled by default so preprocessing
// stays deterministic.
func (p *Preprocessor) standardizeIntensity(data []float32) {
	mean, std := meanStd(data)
	if std == 0 {
		std = 1
	}
	for i := range data {
		data[i] = float32((float64(data[i]) - mean) / std)
		if p.perturbationNoise > 0 {
			data[i] += float32(rand.NormFloat64() * p.perturbationNoise)
		}
	}
}

func normalizeWithChannelStats(data []float32) {
	plane := domain.ImageHeight * domain.ImageWidth
	for c := 0; c < domain.ImageChannels; c++ {
		for i := c * plane; i < (c+1)*plane; i++ {
			data[i] = (data[i] - genericMean[c]) / genericStd[c]
		}
	}
}

func meanStd(data []float32) (float64, float64) {
	if len(data) == 0 {
		return 0, 0
	}
	var sum float64
	for _, value := range data {
		sum += float64(value)
	}
	mean := sum / float64(len(data))
	var variance float64
	for _, value := range data {
		diff := float64(value) - mean
		variance += diff * diff
	}
	return mean, math.Sqrt(variance / float64(len(data)))
}
