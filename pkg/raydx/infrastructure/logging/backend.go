package logging

import (
	"time"

	"raydx.com/raydx/pkg/common"
	"raydx.com/raydx/pkg/raydx/domain"
)

type backendDecorator struct {
	wrappedBackend domain.InferenceBackend
	logger         common.Logger
}

// NewBackendDecorator logs every inference attempt with its outcome and duration, so that
// degraded runs (a tier declining) stay visible in the logs.
func NewBackendDecorator(wrappedBackend domain.InferenceBackend, logger common.Logger) domain.InferenceBackend {
	return &backendDecorator{
		wrappedBackend: wrappedBackend,
		logger:         logger,
	}
}

func (b *backendDecorator) Name() string {
	return b.wrappedBackend.Name()
}

func (b *backendDecorator) Infer(image *domain.PreprocessedImage, conditions domain.ConditionList) (*domain.BackendResult, error) {
	started := time.Now()
	result, err := b.wrappedBackend.Infer(image, conditions)
	if err != nil {
		b.logger.Logf("backend %s failed after %d ms: %v", b.Name(), time.Since(started).Milliseconds(), err)
		return nil, err
	}
	b.logger.Logf("backend %s produced %s (%.3f) in %d ms",
		b.Name(), result.PrimaryDiagnosis, result.OverallConfidence, time.Since(started).Milliseconds())
	return result, nil
}
