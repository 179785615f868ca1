package domain

import "fmt"

// Ensemble weights: the vision-language verdict dominates, the supervised classifier refines.
const (
	visionLanguageWeight = 0.6
	classifierWeight     = 0.4
)

// FallbackModelName the label of the heuristic diagnosis path. Downstream consumers use it
// to detect degraded quality without treating the run as a failure.
const FallbackModelName = "Fallback Analysis"

// Diagnosis the orchestrator's chosen verdict. Created once per analysis and never mutated
// afterwards. IndividualModels holds the constituent backend results when an ensemble was
// formed, for auditability.
type Diagnosis struct {
	PrimaryDiagnosis  string             `json:"primary_diagnosis"`
	ConfidenceScores  map[string]float64 `json:"confidence_scores"`
	OverallConfidence float64            `json:"overall_confidence"`
	ModelName         string             `json:"model"`
	IndividualModels  []*BackendResult   `json:"individual_models,omitempty"`
}

// Ensemble combines a vision-language result and a classifier result into a single verdict as
// a 0.6/0.4 weighted sum per condition. A condition missing from either score map contributes
// zero for that backend. Iteration follows the condition list, never map order, so the result
// is deterministic and ties resolve to the first condition in list order.
func Ensemble(visionLanguage, classifier *BackendResult, conditions ConditionList) *Diagnosis {
	combined := make(map[string]float64, len(conditions.Conditions))
	var primary string
	var best float64
	for _, condition := range conditions.Conditions {
		score := visionLanguageWeight*visionLanguage.ConfidenceScores[condition] +
			classifierWeight*classifier.ConfidenceScores[condition]
		combined[condition] = score
		if primary == "" || score > best {
			primary = condition
			best = score
		}
	}
	return &Diagnosis{
		PrimaryDiagnosis:  primary,
		ConfidenceScores:  combined,
		OverallConfidence: best,
		ModelName:         fmt.Sprintf("Ensemble (%s + %s)", visionLanguage.ModelName, classifier.ModelName),
		IndividualModels:  []*BackendResult{visionLanguage, classifier},
	}
}

func diagnosisFromResult(result *BackendResult) *Diagnosis {
	return &Diagnosis{
		PrimaryDiagnosis:  result.PrimaryDiagnosis,
		ConfidenceScores:  result.ConfidenceScores,
		OverallConfidence: result.OverallConfidence,
		ModelName:         result.ModelName,
	}
}
