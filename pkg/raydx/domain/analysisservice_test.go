package domain

import (
	"errors"
	"strings"
	"testing"
)

type stubPreprocessor struct {
	image *PreprocessedImage
	err   error
}

func (s *stubPreprocessor) Preprocess(imagePath string) (*PreprocessedImage, error) {
	return s.image, s.err
}

type stubBackend struct {
	name   string
	scores map[string]float64
	err    error
	calls  int
}

func (s *stubBackend) Name() string {
	return s.name
}

func (s *stubBackend) Infer(image *PreprocessedImage, conditions ConditionList) (*BackendResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return NewBackendResult(s.name, conditions, s.scores), nil
}

type stubVisualizer struct{}

func (s *stubVisualizer) Generate(image *PreprocessedImage, diagnosis *Diagnosis) Heatmap {
	return Heatmap{Description: "stub heatmap for " + diagnosis.PrimaryDiagnosis}
}

func testImage() *PreprocessedImage {
	return &PreprocessedImage{
		Channels:   ImageChannels,
		Height:     ImageHeight,
		Width:      ImageWidth,
		Brightness: 0.5,
		Contrast:   0.25,
	}
}

func newTestAnalysisService(t *testing.T, visionLanguage []InferenceBackend, classifier InferenceBackend) *AnalysisService {
	t.Helper()
	config := newTestConfig(t, "logPath: test.txt\n")
	logger := newTestLogger(t)
	return NewAnalysisService(
		&stubPreprocessor{image: testImage()},
		visionLanguage,
		classifier,
		NewConditionCatalog(),
		NewReportService(nil, config, logger),
		&stubVisualizer{},
		logger,
	)
}

func TestAnalyzeEnsemblesBothTiers(t *testing.T) {
	visionLanguage := &stubBackend{name: "vlm", scores: map[string]float64{"Pneumonia": 0.8, "Normal": 0.2}}
	classifier := &stubBackend{name: "classifier", scores: map[string]float64{"Pneumonia": 0.6, "Normal": 0.4}}
	service := newTestAnalysisService(t, []InferenceBackend{visionLanguage}, classifier)
	result, err := service.Analyze("test.png", RegionChest, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Diagnosis.ModelName != "Ensemble (vlm + classifier)" {
		t.Fatalf("expected an ensemble verdict, got %s", result.Diagnosis.ModelName)
	}
	if result.Diagnosis.PrimaryDiagnosis != "Pneumonia" {
		t.Fatalf("expected Pneumonia, got %s", result.Diagnosis.PrimaryDiagnosis)
	}
	if !result.Success || result.ID == "" {
		t.Fatalf("expected a successful result with an id, got %+v", result)
	}
}

func TestAnalyzeFirstVisionLanguageTierWins(t *testing.T) {
	primary := &stubBackend{name: "primary", scores: map[string]float64{"Pneumonia": 0.9}}
	secondary := &stubBackend{name: "secondary", scores: map[string]float64{"Normal": 0.9}}
	service := newTestAnalysisService(t, []InferenceBackend{primary, secondary}, nil)
	result, err := service.Analyze("test.png", RegionChest, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secondary.calls != 0 {
		t.Fatalf("the secondary tier must not run when the primary succeeds, got %d calls", secondary.calls)
	}
	if result.Diagnosis.ModelName != "primary" {
		t.Fatalf("expected the primary verdict verbatim, got %s", result.Diagnosis.ModelName)
	}
}

func TestAnalyzeFallsThroughToSecondaryTier(t *testing.T) {
	primary := &stubBackend{name: "primary", err: errors.New("no checkpoint")}
	secondary := &stubBackend{name: "secondary", scores: map[string]float64{"Pneumonia": 0.7, "Normal": 0.3}}
	service := newTestAnalysisService(t, []InferenceBackend{primary, secondary}, nil)
	result, err := service.Analyze("test.png", RegionChest, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Diagnosis.ModelName != "secondary" {
		t.Fatalf("expected the secondary verdict, got %s", result.Diagnosis.ModelName)
	}
}

func TestAnalyzeClassifierOnlyIsUsedVerbatim(t *testing.T) {
	failing := &stubBackend{name: "vlm", err: errors.New("session error")}
	classifier := &stubBackend{name: "classifier", scores: map[string]float64{"Pneumonia": 0.55, "Normal": 0.45}}
	service := newTestAnalysisService(t, []InferenceBackend{failing}, classifier)
	result, err := service.Analyze("test.png", RegionChest, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Diagnosis.ModelName != "classifier" {
		t.Fatalf("expected the classifier verdict verbatim, got %s", result.Diagnosis.ModelName)
	}
	if result.Diagnosis.OverallConfidence != 0.55 {
		t.Fatalf("expected 0.55, got %f", result.Diagnosis.OverallConfidence)
	}
}

func TestAnalyzeHeuristicFallbackChest(t *testing.T) {
	failing := &stubBackend{name: "vlm", err: errors.New("down")}
	service := newTestAnalysisService(t, []InferenceBackend{failing}, nil)
	result, err := service.Analyze("test.png", RegionChest, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	diagnosis := result.Diagnosis
	if diagnosis.ModelName != FallbackModelName {
		t.Fatalf("expected %s, got %s", FallbackModelName, diagnosis.ModelName)
	}
	if diagnosis.PrimaryDiagnosis != "Pneumonia" {
		t.Fatalf("expected Pneumonia for the chest fallback, got %s", diagnosis.PrimaryDiagnosis)
	}
	if diagnosis.OverallConfidence != 0.75 {
		t.Fatalf("expected overall 0.75, got %f", diagnosis.OverallConfidence)
	}
	if diagnosis.ConfidenceScores["Pneumonia"] != 0.75 || diagnosis.ConfidenceScores["Normal"] != 0.25 {
		t.Fatalf("unexpected fallback scores: %v", diagnosis.ConfidenceScores)
	}
	if !result.Success {
		t.Fatal("a heuristic run is still a successful analysis")
	}
}

func TestAnalyzeHeuristicFallbackBoneAndGeneral(t *testing.T) {
	tests := []struct {
		region  RegionType
		primary string
		score   float64
	}{
		{RegionBone, "Fracture", 0.70},
		{RegionDental, "Abnormal", 0.70},
	}
	for _, test := range tests {
		service := newTestAnalysisService(t, nil, nil)
		result, err := service.Analyze("test.png", test.region, nil)
		if err != nil {
			t.Fatalf("region %s: unexpected error: %v", test.region, err)
		}
		diagnosis := result.Diagnosis
		if diagnosis.PrimaryDiagnosis != test.primary {
			t.Fatalf("region %s: expected %s, got %s", test.region, test.primary, diagnosis.PrimaryDiagnosis)
		}
		if diagnosis.ConfidenceScores[test.primary] != test.score {
			t.Fatalf("region %s: expected score %f, got %f", test.region, test.score, diagnosis.ConfidenceScores[test.primary])
		}
		if diagnosis.OverallConfidence != 0.75 {
			t.Fatalf("region %s: the fallback always reports 0.75, got %f", test.region, diagnosis.OverallConfidence)
		}
	}
}

func TestAnalyzePreprocessingFailureIsFatal(t *testing.T) {
	config := newTestConfig(t, "logPath: test.txt\n")
	logger := newTestLogger(t)
	service := NewAnalysisService(
		&stubPreprocessor{err: errors.New("not an image")},
		nil,
		nil,
		NewConditionCatalog(),
		NewReportService(nil, config, logger),
		&stubVisualizer{},
		logger,
	)
	result, err := service.Analyze("bogus.png", RegionChest, nil)
	if result != nil {
		t.Fatalf("expected no result, got %+v", result)
	}
	var preprocessingError *PreprocessingError
	if !errors.As(err, &preprocessingError) {
		t.Fatalf("expected a *PreprocessingError, got %T: %v", err, err)
	}
}

func TestAnalyzeAssemblesClinicalContext(t *testing.T) {
	visionLanguage := &stubBackend{name: "vlm", scores: map[string]float64{"Pneumonia": 0.9, "Normal": 0.1}}
	service := newTestAnalysisService(t, []InferenceBackend{visionLanguage}, nil)
	result, err := service.Analyze("test.png", RegionChest, PatientInfo{"age": 70, "smoking": true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.DifferentialDiagnoses) == 0 || result.DifferentialDiagnoses[0] != "Tuberculosis" {
		t.Fatalf("expected Pneumonia differentials, got %v", result.DifferentialDiagnoses)
	}
	found := false
	for _, recommendation := range result.ClinicalRecommendations {
		if strings.Contains(recommendation, "Smoking history") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the smoking risk factor, got %v", result.ClinicalRecommendations)
	}
	if result.ConfidenceMetrics.AnalysisReliability != "High" {
		t.Fatalf("expected High reliability above 0.8, got %s", result.ConfidenceMetrics.AnalysisReliability)
	}
	if result.MedicalReport.GeneratedBy != FallbackReportLabel {
		t.Fatalf("expected the fallback report without a language model, got %s", result.MedicalReport.GeneratedBy)
	}
	if result.Visualization.Description == "" {
		t.Fatal("expected a visualization description")
	}
}
