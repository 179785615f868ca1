package domain

// ImageEncoder projects a preprocessed radiograph into the shared image/text embedding space
// of a vision-language model.
type ImageEncoder interface {
	// Name the label of the checkpoint backing the encoder. The zero-shot backend exposes it
	// so that a generic-checkpoint substitution stays visible in the result's model label.
	Name() string
	Encode(image *PreprocessedImage) (Embedding, error)
}

// TextEncoder embeds a natural-language prompt into the same space as ImageEncoder.
type TextEncoder interface {
	Encode(text string) (Embedding, error)
}
