package domain

import (
	"math"
	"testing"
)

func TestNewBackendResultDerivesPrimaryAndOverall(t *testing.T) {
	conditions := ConditionList{
		Region:     RegionChest,
		Conditions: []string{"Normal", "Pneumonia", "Pneumothorax"},
	}
	result := NewBackendResult("test-model", conditions, map[string]float64{
		"Normal":       0.1,
		"Pneumonia":    0.7,
		"Pneumothorax": 0.2,
	})
	if result.PrimaryDiagnosis != "Pneumonia" {
		t.Fatalf("expected Pneumonia, got %s", result.PrimaryDiagnosis)
	}
	if result.OverallConfidence != 0.7 {
		t.Fatalf("expected overall 0.7, got %f", result.OverallConfidence)
	}
	if result.ModelName != "test-model" {
		t.Fatalf("unexpected model name %s", result.ModelName)
	}
}

func TestNewBackendResultBreaksTiesByListOrder(t *testing.T) {
	conditions := ConditionList{
		Region:     RegionChest,
		Conditions: []string{"Normal", "Pneumonia", "Pneumothorax"},
	}
	result := NewBackendResult("test-model", conditions, map[string]float64{
		"Normal":       0.4,
		"Pneumonia":    0.4,
		"Pneumothorax": 0.2,
	})
	if result.PrimaryDiagnosis != "Normal" {
		t.Fatalf("expected the first tied condition in list order, got %s", result.PrimaryDiagnosis)
	}
}

func TestEnsembleWeightsScores(t *testing.T) {
	conditions := ConditionList{
		Region:     RegionChest,
		Conditions: []string{"Normal", "Pneumonia"},
	}
	visionLanguage := NewBackendResult("vlm", conditions, map[string]float64{
		"Normal":    0.2,
		"Pneumonia": 0.8,
	})
	classifier := NewBackendResult("classifier", conditions, map[string]float64{
		"Normal":    0.6,
		"Pneumonia": 0.4,
	})
	diagnosis := Ensemble(visionLanguage, classifier, conditions)
	wantPneumonia := 0.6*0.8 + 0.4*0.4
	if math.Abs(diagnosis.ConfidenceScores["Pneumonia"]-wantPneumonia) > 1e-9 {
		t.Fatalf("expected Pneumonia %f, got %f", wantPneumonia, diagnosis.ConfidenceScores["Pneumonia"])
	}
	if diagnosis.PrimaryDiagnosis != "Pneumonia" {
		t.Fatalf("expected Pneumonia to win the ensemble, got %s", diagnosis.PrimaryDiagnosis)
	}
	if diagnosis.ModelName != "Ensemble (vlm + classifier)" {
		t.Fatalf("unexpected ensemble label %s", diagnosis.ModelName)
	}
	if len(diagnosis.IndividualModels) != 2 {
		t.Fatalf("expected both constituent results, got %d", len(diagnosis.IndividualModels))
	}
}

func TestEnsembleIsDeterministic(t *testing.T) {
	conditions := ConditionList{
		Region:     RegionChest,
		Conditions: []string{"Normal", "Pneumonia", "Pneumothorax", "Cardiomegaly"},
	}
	visionLanguage := NewBackendResult("vlm", conditions, map[string]float64{
		"Normal": 0.25, "Pneumonia": 0.25, "Pneumothorax": 0.25, "Cardiomegaly": 0.25,
	})
	classifier := NewBackendResult("classifier", conditions, map[string]float64{
		"Normal": 0.25, "Pneumonia": 0.25, "Pneumothorax": 0.25, "Cardiomegaly": 0.25,
	})
	first := Ensemble(visionLanguage, classifier, conditions)
	for i := 0; i < 100; i++ {
		again := Ensemble(visionLanguage, classifier, conditions)
		if again.PrimaryDiagnosis != first.PrimaryDiagnosis {
			t.Fatalf("ensemble verdict changed between runs: %s vs %s", first.PrimaryDiagnosis, again.PrimaryDiagnosis)
		}
	}
	if first.PrimaryDiagnosis != "Normal" {
		t.Fatalf("expected the tie to resolve to the first condition, got %s", first.PrimaryDiagnosis)
	}
}

func TestSoftmaxSumsToOne(t *testing.T) {
	probabilities := Softmax([]float64{3, 1, 0.2})
	var sum float64
	for _, p := range probabilities {
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("softmax must sum to 1, got %f", sum)
	}
	if probabilities[0] <= probabilities[1] || probabilities[1] <= probabilities[2] {
		t.Fatalf("softmax must preserve ordering, got %v", probabilities)
	}
}
