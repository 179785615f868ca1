package clip

import (
	"fmt"
	"sync"

	"raydx.com/raydx/pkg/raydx/domain"
)

// Similarity logits are scaled by this fixed temperature before the softmax, matching the
// training convention of CLIP-family checkpoints.
const temperature = 100.0

// Backend the zero-shot vision-language tier: it scores a radiograph against one
// region-aware natural-language prompt per condition by cosine similarity in the shared
// embedding space. Which image tower backs it (specialist or generic checkpoint) is decided
// once at load time and is visible to callers only through the model label.
type Backend struct {
	imageEncoder domain.ImageEncoder
	textEncoder  domain.TextEncoder

	mutex       sync.Mutex
	promptCache map[string]domain.Embedding
}

func NewBackend(imageEncoder domain.ImageEncoder, textEncoder domain.TextEncoder) *Backend {
	return &Backend{
		imageEncoder: imageEncoder,
		textEncoder:  textEncoder,
		promptCache:  make(map[string]domain.Embedding),
	}
}

func (b *Backend) Name() string {
	return "Zero-Shot " + b.imageEncoder.Name()
}

func (b *Backend) Infer(image *domain.PreprocessedImage, conditions domain.ConditionList) (*domain.BackendResult, error) {
	imageEmbedding, err := b.imageEncoder.Encode(image)
	if err != nil {
		return nil, &domain.BackendError{Backend: b.Name(), Err: err}
	}
	logits := make([]float64, len(conditions.Conditions))
	for i, condition := range conditions.Conditions {
		promptEmbedding, err := b.promptEmbedding(conditions.Region, condition)
		if err != nil {
			return nil, &domain.BackendError{Backend: b.Name(), Err: err}
		}
		logits[i] = temperature * imageEmbedding.GetSimilarityTo(promptEmbedding)
	}
	probabilities := domain.Softmax(logits)
	scores := make(map[string]float64, len(conditions.Conditions))
	for i, condition := range conditions.Conditions {
		scores[condition] = probabilities[i]
	}
	return domain.NewBackendResult(b.Name(), conditions, scores), nil
}

// promptEmbedding prompts depend only on region and condition, so their embeddings are
// computed once and cached for the process lifetime.
func (b *Backend) promptEmbedding(region domain.RegionType, condition string) (domain.Embedding, error) {
	prompt := fmt.Sprintf("%s radiograph demonstrating %s with characteristic findings", region, condition)
	b.mutex.Lock()
	cached, ok := b.promptCache[prompt]
	b.mutex.Unlock()
	if ok {
		return cached, nil
	}
	embedding, err := b.textEncoder.Encode(prompt)
	if err != nil {
		return domain.Embedding{}, err
	}
	b.mutex.Lock()
	b.promptCache[prompt] = embedding
	b.mutex.Unlock()
	return embedding, nil
}

var _ domain.InferenceBackend = (*Backend)(nil)
