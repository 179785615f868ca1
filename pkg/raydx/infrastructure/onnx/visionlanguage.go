package onnx

import (
	"path/filepath"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"raydx.com/raydx/pkg/common"
	"raydx.com/raydx/pkg/raydx/domain"
)

// Checkpoint identifiers for the specialist vision-language classifier, attempted in order.
// The first one that loads wins; the label of the accepted checkpoint becomes the model name.
var specialistCheckpoints = []string{
	"flaviagiammarino/medclip-vit-base-patch32",
	"microsoft/BiomedCLIP-PubMedBERT_256-vit_base_patch16_224",
	"medclip-vit-base-patch32",
}

// VisionLanguageModel the specialist vision-language classifier tier: a fine-tuned checkpoint
// which directly scores the canonical tensor against a fixed condition vocabulary.
type VisionLanguageModel struct {
	mutex      sync.Mutex
	session    *session
	name       string
	classCount int
}

// NewVisionLanguageModel resolves each checkpoint identifier to an ONNX file under
// `modelsDir` and accepts the first that loads. Returns domain.ErrBackendUnavailable when
// none of them can be loaded, which permanently disables this tier for the process.
func NewVisionLanguageModel(modelsDir string, classCount int, logger common.Logger) (*VisionLanguageModel, error) {
	for _, checkpoint := range specialistCheckpoints {
		modelPath := filepath.Join(modelsDir, checkpointFileName(checkpoint))
		session, err := newSession(modelPath,
			ort.NewShape(1, domain.ImageChannels, domain.ImageHeight, domain.ImageWidth),
			ort.NewShape(1, int64(classCount)))
		if err != nil {
			logger.Logf("vision-language checkpoint %s not loaded: %v", checkpoint, err)
			continue
		}
		logger.Logf("vision-language checkpoint %s loaded", checkpoint)
		return &VisionLanguageModel{
			session:    session,
			name:       checkpoint,
			classCount: classCount,
		}, nil
	}
	return nil, domain.ErrBackendUnavailable
}

func (v *VisionLanguageModel) Name() string {
	return v.name
}

func (v *VisionLanguageModel) Infer(image *domain.PreprocessedImage, conditions domain.ConditionList) (*domain.BackendResult, error) {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	output, err := v.session.run(image.Data)
	if err != nil {
		return nil, &domain.BackendError{Backend: v.name, Err: err}
	}
	probabilities := softmax32(output)
	scores := make(map[string]float64, len(conditions.Conditions))
	for i, condition := range conditions.Conditions {
		if i < len(probabilities) {
			scores[condition] = probabilities[i]
		} else {
			scores[condition] = 0
		}
	}
	return domain.NewBackendResult(v.name, conditions, scores), nil
}

func (v *VisionLanguageModel) Close() {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	v.session.destroy()
}

func checkpointFileName(checkpoint string) string {
	return strings.ReplaceAll(checkpoint, "/", "--") + ".onnx"
}

var (
	_ domain.InferenceBackend = (*VisionLanguageModel)(nil)
	_ domain.InferenceBackend = (*Classifier)(nil)
	_ domain.SaliencyMapper   = (*Classifier)(nil)
)
