package domain

// PatientInfo an arbitrary key/value mapping supplied by the caller. Only a handful of keys
// are interpreted (`age`, `smoking`, `diabetes`, `hypertension`); an absent key is treated as
// "not a risk factor".
type PatientInfo map[string]any

// Age returns the patient age if present. JSON decoding produces float64 for numbers, so both
// numeric representations are accepted.
func (p PatientInfo) Age() (int, bool) {
	value, ok := p["age"]
	if !ok {
		return 0, false
	}
	switch age := value.(type) {
	case int:
		return age, true
	case float64:
		return int(age), true
	default:
		return 0, false
	}
}

// Flag reports whether the given boolean risk-factor key is set.
func (p PatientInfo) Flag(key string) bool {
	value, ok := p[key]
	if !ok {
		return false
	}
	switch flag := value.(type) {
	case bool:
		return flag
	case string:
		return flag == "true" || flag == "yes"
	default:
		return false
	}
}
