package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/nfnt/resize"

	"raydx.com/raydx/pkg/common"
	"raydx.com/raydx/pkg/raydx/domain"
)

// HeatmapGenerator renders the attention overlay for an analysis. The preferred path asks a
// saliency-capable classifier for a class-conditioned map; the fallback renders a plain
// intensity map from the image itself. Both paths share the same colormap, resize and PNG
// encoding, so the output is structurally identical either way; only the description differs.
type HeatmapGenerator struct {
	saliency domain.SaliencyMapper
	logger   common.Logger
}

// NewHeatmapGenerator `saliency` may be nil; the generator then always uses the intensity
// fallback.
func NewHeatmapGenerator(saliency domain.SaliencyMapper, logger common.Logger) *HeatmapGenerator {
	return &HeatmapGenerator{
		saliency: saliency,
		logger:   logger,
	}
}

func (h *HeatmapGenerator) Generate(img *domain.PreprocessedImage, diagnosis *domain.Diagnosis) domain.Heatmap {
	if h.saliency != nil {
		heatmap, err := h.saliencyHeatmap(img, diagnosis)
		if err == nil {
			return heatmap
		}
		h.logger.Logf("saliency heatmap failed, using intensity fallback: %v", err)
	}
	heatmap, err := h.intensityHeatmap(img, diagnosis)
	if err != nil {
		h.logger.Logf("intensity heatmap failed: %v", err)
		return domain.Heatmap{Description: domain.HeatmapUnavailable}
	}
	return heatmap
}

func (h *HeatmapGenerator) saliencyHeatmap(img *domain.PreprocessedImage, diagnosis *domain.Diagnosis) (domain.Heatmap, error) {
	grid, err := h.saliency.SaliencyMap(img, diagnosis.PrimaryDiagnosis)
	if err != nil {
		return domain.Heatmap{}, err
	}
	if len(grid) == 0 || len(grid[0]) == 0 {
		return domain.Heatmap{}, fmt.Errorf("empty saliency grid")
	}
	flat := make([]float64, 0, len(grid)*len(grid[0]))
	for _, row := range grid {
		flat = append(flat, row...)
	}
	encoded, err := encodeHeatmap(flat, len(grid[0]), len(grid))
	if err != nil {
		return domain.Heatmap{}, err
	}
	return domain.Heatmap{
		Image:       encoded,
		Description: fmt.Sprintf("Attention map showing the regions most influential for %s", diagnosis.PrimaryDiagnosis),
	}, nil
}

func (h *HeatmapGenerator) intensityHeatmap(img *domain.PreprocessedImage, diagnosis *domain.Diagnosis) (domain.Heatmap, error) {
	flat := make([]float64, img.Height*img.Width)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			flat[y*img.Width+x] = float64(img.Intensity(y, x))
		}
	}
	encoded, err := encodeHeatmap(flat, img.Width, img.Height)
	if err != nil {
		return domain.Heatmap{}, err
	}
	return domain.Heatmap{
		Image:       encoded,
		Description: fmt.Sprintf("Intensity map approximating the regions of interest for %s", diagnosis.PrimaryDiagnosis),
	}, nil
}

// encodeHeatmap min-max normalizes the values, applies the jet colormap, resizes to the
// canonical display size and encodes as a base64 PNG data URI.
func encodeHeatmap(values []float64, width, height int) (string, error) {
	if len(values) != width*height || len(values) == 0 {
		return "", fmt.Errorf("heatmap grid is %d values, want %dx%d", len(values), width, height)
	}
	minValue, maxValue := values[0], values[0]
	for _, value := range values[1:] {
		if value < minValue {
			minValue = value
		}
		if value > maxValue {
			maxValue = value
		}
	}
	spread := maxValue - minValue
	raster := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			normalized := 0.0
			// A flat map (min == max) renders as the lowest color instead of dividing by zero.
			if spread > 0 {
				normalized = (values[y*width+x] - minValue) / spread
			}
			raster.SetRGBA(x, y, jetColor(normalized))
		}
	}
	display := resize.Resize(domain.ImageWidth, domain.ImageHeight, raster, resize.Bilinear)
	var buffer bytes.Buffer
	if err := png.Encode(&buffer, display); err != nil {
		return "", fmt.Errorf("encode heatmap: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buffer.Bytes()), nil
}

// jetColor maps a [0,1] value onto the perceptual blue-cyan-yellow-red ramp.
func jetColor(value float64) color.RGBA {
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	r := clampChannel(1.5 - 4*abs(value-0.75))
	g := clampChannel(1.5 - 4*abs(value-0.5))
	b := clampChannel(1.5 - 4*abs(value-0.25))
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func clampChannel(value float64) uint8 {
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	return uint8(value * 255)
}

func abs(value float64) float64 {
	if value < 0 {
		return -value
	}
	return value
}
