package domain

import (
	"math"
	"strconv"
	"strings"
)

// Embedding a coordinate in the shared image/text embedding space of a vision-language model.
// Image and prompt embeddings can be compared with GetSimilarityTo(..) to score how well a
// radiograph matches a textual description of a condition.
type Embedding struct {
	values []float64
}

// NewEmbedding creates a new embedding from the provided vector components (can be an
// arbitrary number, depends on the exact encoder checkpoint used).
func NewEmbedding(values []float64) Embedding {
	return Embedding{values: values}
}

// NewEmbeddingFromFormattedValues creates an embedding from a text form.
// Example format: "0.123 0.345 0.678" etc. where each float value corresponds to a vector component.
func NewEmbeddingFromFormattedValues(text string) (Embedding, error) {
	str := strings.TrimSpace(text)
	split := strings.Fields(str)
	values := make([]float64, len(split))
	for i := 0; i < len(split); i++ {
		value, err := strconv.ParseFloat(split[i], 64)
		if err != nil {
			return Embedding{}, err
		}
		values[i] = value
	}
	return NewEmbedding(values), nil
}

// GetSimilarityTo finds how similar two embeddings are using cosine similarity.
// 1.0 means identical, 0.0 means completely different (or incomparable).
func (a Embedding) GetSimilarityTo(b Embedding) float64 {
	aValues := a.values
	bValues := b.values
	if len(aValues) != len(bValues) {
		return 0.0
	}
	var sum, s1, s2 float64
	for i := 0; i < len(aValues); i++ {
		sum += aValues[i] * bValues[i]
		s1 += aValues[i] * aValues[i]
		s2 += bValues[i] * bValues[i]
	}
	if s1 == 0 || s2 == 0 {
		return 0.0
	}
	return sum / (math.Sqrt(s1) * math.Sqrt(s2))
}

func (a Embedding) DimensionCount() int {
	return len(a.values)
}

// Softmax normalizes raw similarity logits into a probability distribution. Shifted by the
// maximum logit for numerical stability.
func Softmax(logits []float64) []float64 {
	if len(logits) == 0 {
		return nil
	}
	maxLogit := logits[0]
	for _, logit := range logits[1:] {
		if logit > maxLogit {
			maxLogit = logit
		}
	}
	probabilities := make([]float64, len(logits))
	var sum float64
	for i, logit := range logits {
		probabilities[i] = math.Exp(logit - maxLogit)
		sum += probabilities[i]
	}
	for i := range probabilities {
		probabilities[i] /= sum
	}
	return probabilities
}
