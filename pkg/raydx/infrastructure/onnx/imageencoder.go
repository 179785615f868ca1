package onnx

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"raydx.com/raydx/pkg/raydx/domain"
)

// ImageEncoder the image tower of a vision-language model: it projects the canonical tensor
// into the shared image/text embedding space used by the zero-shot backend.
type ImageEncoder struct {
	mutex   sync.Mutex
	session *session
	name    string
}

func NewImageEncoder(modelPath, name string, embeddingDim int) (*ImageEncoder, error) {
	session, err := newSession(modelPath,
		ort.NewShape(1, domain.ImageChannels, domain.ImageHeight, domain.ImageWidth),
		ort.NewShape(1, int64(embeddingDim)))
	if err != nil {
		return nil, fmt.Errorf("load image encoder %s: %w", modelPath, err)
	}
	return &ImageEncoder{
		session: session,
		name:    name,
	}, nil
}

func (e *ImageEncoder) Name() string {
	return e.name
}

func (e *ImageEncoder) Encode(image *domain.PreprocessedImage) (domain.Embedding, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	output, err := e.session.run(image.Data)
	if err != nil {
		return domain.Embedding{}, err
	}
	values := make([]float64, len(output))
	for i, value := range output {
		values[i] = float64(value)
	}
	return domain.NewEmbedding(values), nil
}

func (e *ImageEncoder) Close() {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.session.destroy()
}

var _ domain.ImageEncoder = (*ImageEncoder)(nil)
