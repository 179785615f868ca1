package domain

// Clinical guidance derived from the final diagnosis. Pure lookups: no I/O, never fail.

var differentials = map[string][]string{
	"Pneumonia":    {"Tuberculosis", "Pulmonary Edema", "Lung Cancer", "Pneumonitis"},
	"Fracture":     {"Bone Bruise", "Arthritis", "Bone Tumor", "Osteomyelitis"},
	"Normal":       {"Early Disease", "Subtle Findings", "Technical Limitations"},
	"Tuberculosis": {"Pneumonia", "Lung Cancer", "Sarcoidosis", "Fungal Infection"},
}

// Differentials returns the differential diagnoses for the given primary diagnosis. Unmapped
// diagnoses get a generic two-item list rather than nothing.
func Differentials(primaryDiagnosis string) []string {
	if list, ok := differentials[primaryDiagnosis]; ok {
		return list
	}
	return []string{"Consider clinical correlation", "Additional imaging may be helpful"}
}

// Recommendations derives clinical recommendations from the diagnosis confidence tier, the
// region type and the patient's risk factors.
func Recommendations(diagnosis *Diagnosis, region RegionType, patient PatientInfo) []string {
	var recommendations []string
	switch confidence := diagnosis.OverallConfidence; {
	case confidence > 0.8:
		recommendations = append(recommendations, "High diagnostic confidence - consider condition-specific treatment")
	case confidence > 0.6:
		recommendations = append(recommendations, "Moderate confidence - correlate with clinical symptoms")
	default:
		recommendations = append(recommendations, "Low confidence - consider complementary exams")
	}
	switch region {
	case RegionChest:
		recommendations = append(recommendations,
			"Evaluate respiratory symptoms",
			"Consider laboratory tests (CBC, CRP)",
			"Radiological follow-up if necessary",
		)
	case RegionBone:
		recommendations = append(recommendations,
			"Evaluate mobility and pain",
			"Consider immobilization if a fracture is confirmed",
			"Orthopedic follow-up",
		)
	case RegionDental:
		recommendations = append(recommendations,
			"Consult a dental specialist if necessary",
		)
	}
	recommendations = append(recommendations, riskFactors(patient)...)
	return recommendations
}

func riskFactors(patient PatientInfo) []string {
	var factors []string
	if age, ok := patient.Age(); ok && age > 65 {
		factors = append(factors, "Advanced age - increased risk of age-related conditions")
	}
	if patient.Flag("smoking") {
		factors = append(factors, "Smoking history - increased pulmonary risk")
	}
	if patient.Flag("diabetes") {
		factors = append(factors, "Diabetes - increased risk of complications")
	}
	if patient.Flag("hypertension") {
		factors = append(factors, "Hypertension - cardiovascular risk factor")
	}
	return factors
}
