package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"raydx.com/raydx/pkg/common"
)

// FallbackReportLabel marks a report produced by the deterministic template instead of the
// remote language model.
const FallbackReportLabel = "Fallback System"

// LanguageModel a generic interface for the remote large language model used for narrative
// report generation. Implementations are expected to enforce their own request timeout.
type LanguageModel interface {
	// Name the name of the model. Recorded as the report's GeneratedBy label.
	Name() string
	// Complete completes the given prompt by using the underlying LLM.
	Complete(prompt string) (string, error)
}

// MedicalReport a narrative clinical report. Its lifecycle is independent from Diagnosis: it
// is generated after it and consumed only for final assembly.
type MedicalReport struct {
	Report      string    `json:"report"`
	GeneratedBy string    `json:"generated_by"`
	Timestamp   time.Time `json:"timestamp"`
}

// ReportService produces the narrative report either via the remote language model or via the
// deterministic templated fallback. A remote failure of any kind (timeout, bad status,
// transport error) is fully absorbed: the caller always receives a usable report.
type ReportService struct {
	languageModel LanguageModel
	enabled       bool
	logger        common.Logger
}

// NewReportService `languageModel` may be nil when no credential is configured; the service
// then produces fallback reports immediately, without attempting any network call.
func NewReportService(languageModel LanguageModel, config *common.Config, logger common.Logger) *ReportService {
	return &ReportService{
		languageModel: languageModel,
		enabled:       config.GetBoolOrDefault(ConfigKeyReportGenerationEnabled, true),
		logger:        logger,
	}
}

func (r *ReportService) Generate(diagnosis *Diagnosis, patient PatientInfo, region RegionType) MedicalReport {
	if !r.enabled || r.languageModel == nil {
		return r.fallbackReport(diagnosis, region)
	}
	report, err := r.languageModel.Complete(buildReportPrompt(diagnosis, patient, region))
	if err != nil {
		r.logger.Logf("report generation via %s failed, using fallback: %v", r.languageModel.Name(), err)
		return r.fallbackReport(diagnosis, region)
	}
	return MedicalReport{
		Report:      report,
		GeneratedBy: r.languageModel.Name(),
		Timestamp:   time.Now(),
	}
}

func buildReportPrompt(diagnosis *Diagnosis, patient PatientInfo, region RegionType) string {
	scores, _ := json.MarshalIndent(diagnosis.ConfidenceScores, "", "  ")
	patientInfo, _ := json.MarshalIndent(patient, "", "  ")
	if len(patient) == 0 {
		patientInfo = []byte("{}")
	}
	var builder strings.Builder
	builder.WriteString("As a specialist radiologist, review the following AI findings and write a professional medical report:\n\n")
	builder.WriteString(fmt.Sprintf("EXAM TYPE: %s X-ray\n\n", strings.ToUpper(string(region))))
	builder.WriteString("AI FINDINGS:\n")
	builder.WriteString(fmt.Sprintf("- Primary diagnosis: %s\n", diagnosis.PrimaryDiagnosis))
	builder.WriteString(fmt.Sprintf("- Overall confidence: %.1f%%\n", diagnosis.OverallConfidence*100))
	builder.WriteString(fmt.Sprintf("- Confidence scores: %s\n\n", scores))
	builder.WriteString(fmt.Sprintf("PATIENT INFORMATION:\n%s\n\n", patientInfo))
	builder.WriteString("Produce a structured medical report including:\n")
	builder.WriteString("1. FINDINGS: detailed description of the radiological findings\n")
	builder.WriteString("2. IMPRESSION: primary diagnosis and differential diagnoses\n")
	builder.WriteString("3. RECOMMENDATIONS: specific clinical guidance\n")
	builder.WriteString("4. FOLLOW-UP: follow-up plan\n\n")
	builder.WriteString("Use professional medical language and be specific in the recommendations.")
	return builder.String()
}

// fallbackReport derives all four sections purely from the diagnosis, with no external
// dependency. Two calls with the same diagnosis yield structurally identical reports.
func (r *ReportService) fallbackReport(diagnosis *Diagnosis, region RegionType) MedicalReport {
	confidence := diagnosis.OverallConfidence * 100
	report := fmt.Sprintf(`%s X-RAY - MEDICAL REPORT

FINDINGS:
AI analysis completed with %.1f%% confidence.
Primary diagnosis: %s

IMPRESSION:
%s with %.1f%% confidence.

RECOMMENDATIONS:
1. Correlate with clinical symptoms
2. Complementary medical evaluation
3. Additional exams if necessary
4. Follow medical guidance

FOLLOW-UP:
Schedule follow-up imaging according to clinical evolution.

NOTE: this report was generated by an AI system and must be interpreted by a qualified physician.
`,
		strings.ToUpper(string(region)),
		confidence,
		diagnosis.PrimaryDiagnosis,
		diagnosis.PrimaryDiagnosis,
		confidence,
	)
	return MedicalReport{
		Report:      report,
		GeneratedBy: FallbackReportLabel,
		Timestamp:   time.Now(),
	}
}
