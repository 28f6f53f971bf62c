package analysis

import "strings"

// highRiskRegions upgrade the assessed tier by one step for benign and
// moderate findings.
var highRiskRegions = map[string]struct{}{
	"face":     {},
	"neck":     {},
	"hands":    {},
	"feet":     {},
	"genitals": {},
}

// Classify maps a structured prediction to a clinical risk tier and a
// confidence band. It is a pure, total function of the prediction's label
// and confidence; every label produces a tier.
func Classify(prediction PredictionRecord) RiskAssessment {
	label := strings.ToLower(prediction.Label)

	level := RiskLow
	switch {
	case strings.Contains(label, "melanoma"):
		level = RiskUrgent
	case strings.Contains(label, "carcinoma"):
		level = RiskHigh
	case strings.Contains(label, "keratoses"), strings.Contains(label, "keratosis"):
		level = RiskMedium
	}

	return newAssessment(level, BandConfidence(prediction.Confidence), prediction.ClassID == ClassUnknown)
}

// UpgradeForBodyRegion raises LOW to MEDIUM and MEDIUM to HIGH when the
// lesion sits on a high-risk body region. Higher tiers are left alone.
func UpgradeForBodyRegion(assessment RiskAssessment, bodyRegion string) RiskAssessment {
	if _, ok := highRiskRegions[strings.ToLower(strings.TrimSpace(bodyRegion))]; !ok {
		return assessment
	}

	switch assessment.RiskLevel {
	case RiskLow:
		return newAssessment(RiskMedium, assessment.ConfidenceLevel, assessment.Indeterminate)
	case RiskMedium:
		return newAssessment(RiskHigh, assessment.ConfidenceLevel, assessment.Indeterminate)
	}
	return assessment
}

// newAssessment is the single place the derived review booleans are set,
// keeping assessments internally consistent.
func newAssessment(level RiskLevel, band ConfidenceLevel, indeterminate bool) RiskAssessment {
	return RiskAssessment{
		RiskLevel:               level,
		ConfidenceLevel:         band,
		NeedsProfessionalReview: level == RiskHigh || level == RiskUrgent,
		NeedsUrgentAttention:    level == RiskUrgent,
		Indeterminate:           indeterminate,
	}
}

// BandConfidence buckets a raw confidence score for display and triage.
func BandConfidence(confidence float64) ConfidenceLevel {
	switch {
	case confidence >= 0.8:
		return ConfidenceHigh
	case confidence >= 0.6:
		return ConfidenceMedium
	case confidence >= 0.4:
		return ConfidenceLow
	default:
		return ConfidenceVeryLow
	}
}
