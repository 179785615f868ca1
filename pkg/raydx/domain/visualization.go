package domain

// HeatmapUnavailable the description used when neither visualization path could produce an
// image.
const HeatmapUnavailable = "unavailable"

// Heatmap a visual attention overlay. Image may legitimately be empty: visualization is
// best-effort and never fatal. Callers distinguish true model attention from the intensity
// fallback only via Description.
type Heatmap struct {
	Image       string `json:"heatmap,omitempty"`
	Description string `json:"description"`
}

// VisualizationGenerator produces a heatmap for the given analysis. Implementations must
// never fail: total failure of all paths yields a Heatmap with an empty Image and the
// HeatmapUnavailable description.
type VisualizationGenerator interface {
	Generate(image *PreprocessedImage, diagnosis *Diagnosis) Heatmap
}

// SaliencyMapper an optional capability of classifier backends: a class-conditioned attention
// map over the input image, as a [rows][cols] grid of non-negative weights. Returns an error
// when the condition is not among the classes the backend was trained on.
type SaliencyMapper interface {
	SaliencyMap(image *PreprocessedImage, condition string) ([][]float64, error)
}
