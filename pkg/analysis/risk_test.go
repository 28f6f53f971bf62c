package analysis

import "testing"

func TestClassifyRuleTable(t *testing.T) {
	cases := []struct {
		text string
		want RiskLevel
	}{
		{"Predicted: MEL, confidence 85.3%", RiskUrgent},
		{"BCC 62%", RiskHigh},
		{"Squamous cell carcinoma 70%", RiskHigh},
		{"actinic keratoses 55%", RiskMedium},
		{"seborrheic keratosis 90%", RiskMedium},
		{"NEV 80%", RiskLow},
		{"nothing recognisable here", RiskLow},
	}

	for _, tc := range cases {
		assessment := Classify(Parse(tc.text))
		if assessment.RiskLevel != tc.want {
			t.Fatalf("text %q: expected %s, got %s", tc.text, tc.want, assessment.RiskLevel)
		}
	}
}

func TestClassifyConfidenceBands(t *testing.T) {
	cases := []struct {
		confidence float64
		want       ConfidenceLevel
	}{
		{0.95, ConfidenceHigh},
		{0.8, ConfidenceHigh},
		{0.7, ConfidenceMedium},
		{0.6, ConfidenceMedium},
		{0.5, ConfidenceLow},
		{0.4, ConfidenceLow},
		{0.39, ConfidenceVeryLow},
		{0, ConfidenceVeryLow},
	}
	for _, tc := range cases {
		if got := BandConfidence(tc.confidence); got != tc.want {
			t.Fatalf("confidence %v: expected %s, got %s", tc.confidence, tc.want, got)
		}
	}
}

func TestClassifyDerivedBooleans(t *testing.T) {
	urgent := Classify(PredictionRecord{ClassID: 2, Label: "Melanoma", Confidence: 0.9})
	if !urgent.NeedsProfessionalReview || !urgent.NeedsUrgentAttention {
		t.Fatalf("URGENT must require professional review and urgent attention: %+v", urgent)
	}

	high := Classify(PredictionRecord{ClassID: 1, Label: "Basal cell carcinoma", Confidence: 0.7})
	if !high.NeedsProfessionalReview || high.NeedsUrgentAttention {
		t.Fatalf("HIGH must require professional review only: %+v", high)
	}

	low := Classify(PredictionRecord{ClassID: 3, Label: "Nevus (Mole)", Confidence: 0.9})
	if low.NeedsProfessionalReview || low.NeedsUrgentAttention {
		t.Fatalf("LOW must not require review flags: %+v", low)
	}
}

func TestReviewStringencyMonotonicOverTiers(t *testing.T) {
	ordered := []RiskLevel{RiskUrgent, RiskHigh, RiskMedium, RiskLow}
	previous := 2
	for _, level := range ordered {
		assessment := newAssessment(level, ConfidenceHigh, false)
		stringency := 0
		if assessment.NeedsProfessionalReview {
			stringency++
		}
		if assessment.NeedsUrgentAttention {
			stringency++
		}
		if stringency > previous {
			t.Fatalf("review stringency must not increase from %s downwards", level)
		}
		previous = stringency
	}
}

func TestClassifyMarksUnknownIndeterminate(t *testing.T) {
	assessment := Classify(Parse("garbled output"))
	if !assessment.Indeterminate {
		t.Fatal("expected unknown prediction to be marked indeterminate")
	}
	if assessment.RiskLevel != RiskLow {
		t.Fatalf("expected LOW pathway for unknown prediction, got %s", assessment.RiskLevel)
	}
	if assessment.ConfidenceLevel != ConfidenceLow {
		t.Fatalf("expected LOW confidence band for default 0.5, got %s", assessment.ConfidenceLevel)
	}
}

func TestUpgradeForBodyRegion(t *testing.T) {
	low := newAssessment(RiskLow, ConfidenceHigh, false)

	upgraded := UpgradeForBodyRegion(low, "face")
	if upgraded.RiskLevel != RiskMedium {
		t.Fatalf("expected LOW to upgrade to MEDIUM on face, got %s", upgraded.RiskLevel)
	}

	medium := newAssessment(RiskMedium, ConfidenceMedium, false)
	upgraded = UpgradeForBodyRegion(medium, "Neck")
	if upgraded.RiskLevel != RiskHigh {
		t.Fatalf("expected MEDIUM to upgrade to HIGH on neck, got %s", upgraded.RiskLevel)
	}
	if !upgraded.NeedsProfessionalReview {
		t.Fatal("upgraded HIGH assessment must require professional review")
	}

	urgent := newAssessment(RiskUrgent, ConfidenceHigh, false)
	if got := UpgradeForBodyRegion(urgent, "face"); got.RiskLevel != RiskUrgent {
		t.Fatalf("URGENT must stay URGENT, got %s", got.RiskLevel)
	}

	if got := UpgradeForBodyRegion(low, "arm"); got.RiskLevel != RiskLow {
		t.Fatalf("ordinary region must not upgrade, got %s", got.RiskLevel)
	}
}
