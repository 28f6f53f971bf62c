package analysis

import "time"

// RiskLevel is the clinical urgency tier driving human-review routing.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
	RiskUrgent RiskLevel = "URGENT"
)

// ConfidenceLevel is a coarse bucketing of the raw confidence score.
type ConfidenceLevel string

const (
	ConfidenceVeryLow ConfidenceLevel = "VERY_LOW"
	ConfidenceLow     ConfidenceLevel = "LOW"
	ConfidenceMedium  ConfidenceLevel = "MEDIUM"
	ConfidenceHigh    ConfidenceLevel = "HIGH"
)

// Priority names the review queue lane for a risk tier.
type Priority string

const (
	PriorityEmergency Priority = "EMERGENCY"
	PriorityHigh      Priority = "HIGH"
	PriorityModerate  Priority = "MODERATE"
	PriorityRoutine   Priority = "ROUTINE"
)

// PredictionRecord is the structured form of the remote service's free-text
// output. Percentage always equals round(Confidence*100).
type PredictionRecord struct {
	ClassID    int     `json:"class_id"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Percentage float64 `json:"percentage"`
}

// RiskAssessment is a pure function of the prediction's label and
// confidence. The review booleans are derived, never set independently.
// Indeterminate marks results whose label could not be recognised: they take
// the LOW pathway but must stay visibly distinct from a genuine benign
// finding.
type RiskAssessment struct {
	RiskLevel               RiskLevel       `json:"risk_level"`
	ConfidenceLevel         ConfidenceLevel `json:"confidence_level"`
	NeedsProfessionalReview bool            `json:"needs_professional_review"`
	NeedsUrgentAttention    bool            `json:"needs_urgent_attention"`
	Indeterminate           bool            `json:"indeterminate"`
}

// WorkflowDecision maps a risk tier to reviewer requirements and follow-up
// timing.
type WorkflowDecision struct {
	NeedsLocalReview     bool     `json:"needs_local_review"`
	NeedsPhysicianReview bool     `json:"needs_physician_review"`
	PriorityLevel        Priority `json:"priority_level"`
	FollowUpDays         int      `json:"follow_up_days"`
}

// RiskDisplay carries presentation metadata for a risk tier.
type RiskDisplay struct {
	Color   string `json:"color"`
	Message string `json:"message"`
}

// AnalysisResult aggregates one completed analysis. It is immutable once
// created; the caller may hand it to the history store.
type AnalysisResult struct {
	ID              string           `json:"id"`
	PatientID       string           `json:"patient_id,omitempty"`
	BodyRegion      string           `json:"body_region,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	Protocol        string           `json:"protocol"`
	Prediction      PredictionRecord `json:"prediction"`
	Assessment      RiskAssessment   `json:"risk_assessment"`
	Workflow        WorkflowDecision `json:"workflow"`
	Recommendations []string         `json:"recommendations"`
	Display         RiskDisplay      `json:"display"`
	Timestamp       time.Time        `json:"timestamp"`
}

// Request describes one analysis submission.
type Request struct {
	ImageBytes []byte
	MimeType   string
	FileName   string
	PatientID  string
	BodyRegion string
	Notes      string
}
