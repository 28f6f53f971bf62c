package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AssessmentRecord is the relational projection of a completed analysis.
// The full result is kept alongside as a JSON column.
type AssessmentRecord struct {
	ID                      string `gorm:"primaryKey;size:36"`
	PatientID               string `gorm:"index;size:64"`
	PredictedClass          string `gorm:"size:64"`
	ConfidenceScore         float64
	RiskLevel               string `gorm:"size:16"`
	ConfidenceLevel         string `gorm:"size:16"`
	NeedsProfessionalReview bool
	NeedsUrgentAttention    bool
	Indeterminate           bool
	BodyRegion              string `gorm:"size:64"`
	Payload                 datatypes.JSON
	CreatedAt               time.Time
}

func (AssessmentRecord) TableName() string {
	return "ai_assessments"
}

// Repository persists assessment records to Postgres.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&AssessmentRecord{})
}

func (r *Repository) Save(ctx context.Context, result AnalysisResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis result: %w", err)
	}

	record := AssessmentRecord{
		ID:                      result.ID,
		PatientID:               result.PatientID,
		PredictedClass:          result.Prediction.Label,
		ConfidenceScore:         result.Prediction.Confidence,
		RiskLevel:               string(result.Assessment.RiskLevel),
		ConfidenceLevel:         string(result.Assessment.ConfidenceLevel),
		NeedsProfessionalReview: result.Assessment.NeedsProfessionalReview,
		NeedsUrgentAttention:    result.Assessment.NeedsUrgentAttention,
		Indeterminate:           result.Assessment.Indeterminate,
		BodyRegion:              result.BodyRegion,
		Payload:                 datatypes.JSON(payload),
		CreatedAt:               result.Timestamp,
	}
	return r.db.WithContext(ctx).Create(&record).Error
}

func (r *Repository) ListByPatient(ctx context.Context, patientID string, limit int) ([]AssessmentRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []AssessmentRecord
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}
