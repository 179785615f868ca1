package domain

import "time"

// ConfidenceMetrics a summary of how much the caller should trust the analysis.
type ConfidenceMetrics struct {
	OverallConfidence   float64 `json:"overall_confidence"`
	ImageQuality        string  `json:"image_quality"`
	AnalysisReliability string  `json:"analysis_reliability"`
}

// AnalysisResult the sole externally visible artifact of one orchestration run. Immutable
// once returned.
type AnalysisResult struct {
	ID                      string            `json:"id"`
	Success                 bool              `json:"success"`
	Timestamp               time.Time         `json:"timestamp"`
	XRayType                RegionType        `json:"xray_type"`
	PatientInfo             PatientInfo       `json:"patient_info"`
	Diagnosis               *Diagnosis        `json:"diagnosis"`
	MedicalReport           MedicalReport     `json:"medical_report"`
	Visualization           Heatmap           `json:"visualization"`
	DifferentialDiagnoses   []string          `json:"differential_diagnoses"`
	ClinicalRecommendations []string          `json:"clinical_recommendations"`
	ConfidenceMetrics       ConfidenceMetrics `json:"confidence_metrics"`
}

// AssessImageQuality grades the acquisition quality from the pre-normalization intensity
// statistics: mid-range brightness and sufficient contrast each count heavily, a full
// three-channel tensor a little.
func AssessImageQuality(image *PreprocessedImage) string {
	var score float64
	if image.Brightness >= 0.3 && image.Brightness <= 0.7 {
		score += 0.4
	}
	if image.Contrast > 0.2 {
		score += 0.4
	}
	if image.Channels == ImageChannels {
		score += 0.2
	}
	switch {
	case score > 0.8:
		return "Excellent"
	case score > 0.6:
		return "Good"
	case score > 0.4:
		return "Fair"
	default:
		return "Poor"
	}
}

func analysisReliability(confidence float64) string {
	if confidence > 0.8 {
		return "High"
	}
	return "Medium"
}
