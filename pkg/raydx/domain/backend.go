package domain

import (
	"errors"
	"fmt"
)

// ErrBackendUnavailable reported by a backend which cannot be used for the lifetime of the
// process (missing capability, no checkpoint could be loaded). The orchestrator treats it as
// "this tier declined to answer" and moves on.
var ErrBackendUnavailable = errors.New("backend unavailable")

// BackendError a per-call inference failure (bad tensor shape, session error etc.). Non-fatal:
// the orchestrator proceeds to the next tier.
type BackendError struct {
	Backend string
	Err     error
}

func (b *BackendError) Error() string {
	return fmt.Sprintf("backend %s: %v", b.Backend, b.Err)
}

func (b *BackendError) Unwrap() error {
	return b.Err
}

// InferenceBackend turns a preprocessed radiograph and a condition list into a confidence
// distribution over those conditions. Implementations must be safe for concurrent use: any
// per-call mutable state (shared session tensors etc.) has to be guarded internally.
type InferenceBackend interface {
	// Name the label identifying which backend produced a result. Useful for auditing.
	Name() string
	Infer(image *PreprocessedImage, conditions ConditionList) (*BackendResult, error)
}

// BackendResult the confidence distribution produced by a single backend. Invariants:
// OverallConfidence is the maximum of ConfidenceScores and PrimaryDiagnosis is the condition
// achieving it, ties broken by condition-list order. Use NewBackendResult to uphold them.
type BackendResult struct {
	PrimaryDiagnosis  string             `json:"primary_diagnosis"`
	ConfidenceScores  map[string]float64 `json:"confidence_scores"`
	OverallConfidence float64            `json:"overall_confidence"`
	ModelName         string             `json:"model"`
}

// NewBackendResult derives the primary diagnosis and the overall confidence from the given
// scores. Iteration happens over the condition list and never over the map, so that ties
// always resolve to the first condition in list order.
func NewBackendResult(modelName string, conditions ConditionList, scores map[string]float64) *BackendResult {
	var primary string
	var best float64
	for _, condition := range conditions.Conditions {
		score, ok := scores[condition]
		if !ok {
			continue
		}
		if primary == "" || score > best {
			primary = condition
			best = score
		}
	}
	return &BackendResult{
		PrimaryDiagnosis:  primary,
		ConfidenceScores:  scores,
		OverallConfidence: best,
		ModelName:         modelName,
	}
}
