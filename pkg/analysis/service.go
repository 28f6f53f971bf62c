package analysis

import (
	"context"
	"time"

	"github.com/bnmbanhmi/seekwell-sub001/pkg/common/kafka"
	"github.com/bnmbanhmi/seekwell-sub001/pkg/common/logger"
	"github.com/bnmbanhmi/seekwell-sub001/pkg/inference"
	"github.com/bnmbanhmi/seekwell-sub001/pkg/observability/metrics"
	"github.com/google/uuid"
)

// HistoryStore is the bounded per-patient log the engine appends completed
// analyses to.
type HistoryStore interface {
	Append(ctx context.Context, patientID string, result AnalysisResult) error
	List(ctx context.Context, patientID string) ([]AnalysisResult, error)
	Clear(ctx context.Context, patientID string) error
}

// AlertPublisher pushes findings that need professional review onto the
// care-team queue.
type AlertPublisher interface {
	PublishReviewAlert(ctx context.Context, alert kafka.ReviewAlert) error
}

// Recorder persists completed assessments to durable storage and serves
// them back for clinician review.
type Recorder interface {
	Save(ctx context.Context, result AnalysisResult) error
	ListByPatient(ctx context.Context, patientID string, limit int) ([]AssessmentRecord, error)
}

// Service runs the full analysis pipeline: encode, negotiate, poll, parse,
// classify, route, record. The history store, recorder, and alert publisher
// are optional; a nil dependency skips that side effect.
type Service struct {
	client    *inference.Client
	poller    *inference.Poller
	validator *Validator
	history   HistoryStore
	recorder  Recorder
	alerts    AlertPublisher
}

func NewService(client *inference.Client, poller *inference.Poller, validator *Validator, history HistoryStore, recorder Recorder, alerts AlertPublisher) *Service {
	return &Service{
		client:    client,
		poller:    poller,
		validator: validator,
		history:   history,
		recorder:  recorder,
		alerts:    alerts,
	}
}

// Analyze submits the image, resolves the remote result, and derives the
// triage decision. A failed history or database write degrades to a warning
// rather than failing a completed analysis.
func (s *Service) Analyze(ctx context.Context, req Request) (*AnalysisResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	img := inference.Image{
		Bytes:    req.ImageBytes,
		MimeType: req.MimeType,
		FileName: req.FileName,
	}

	submission, err := s.client.Submit(ctx, img)
	if err != nil {
		metrics.ObserveAnalysisFailed()
		return nil, err
	}

	rawText := submission.Result
	if submission.Deferred() {
		rawText, err = s.poller.Await(ctx, *submission.Job)
		if err != nil {
			metrics.ObserveAnalysisFailed()
			return nil, err
		}
	}

	prediction := Parse(rawText)
	assessment := UpgradeForBodyRegion(Classify(prediction), req.BodyRegion)
	decision := Route(assessment.RiskLevel)
	if assessment.Indeterminate {
		// A parse failure must never look like a clean benign finding.
		decision.NeedsLocalReview = true
	}

	result := AnalysisResult{
		ID:              uuid.New().String(),
		PatientID:       req.PatientID,
		BodyRegion:      req.BodyRegion,
		Notes:           req.Notes,
		Protocol:        submission.ProtocolID,
		Prediction:      prediction,
		Assessment:      assessment,
		Workflow:        decision,
		Recommendations: Recommendations(prediction),
		Display:         DisplayFor(assessment.RiskLevel, assessment.Indeterminate),
		Timestamp:       time.Now().UTC(),
	}

	s.record(ctx, result)
	s.notify(ctx, result)

	metrics.ObserveAnalysisCompleted(assessment.NeedsUrgentAttention)
	logger.Log.WithFields(map[string]interface{}{
		"analysis_id": result.ID,
		"patient_id":  result.PatientID,
		"label":       prediction.Label,
		"risk_level":  string(assessment.RiskLevel),
		"protocol":    submission.ProtocolID,
	}).Info("Lesion analysis completed")

	return &result, nil
}

func (s *Service) record(ctx context.Context, result AnalysisResult) {
	if s.history != nil && result.PatientID != "" {
		if err := s.history.Append(ctx, result.PatientID, result); err != nil {
			logger.Log.WithError(err).WithField("analysis_id", result.ID).Warn("Failed to append analysis history")
		}
	}
	if s.recorder != nil {
		if err := s.recorder.Save(ctx, result); err != nil {
			logger.Log.WithError(err).WithField("analysis_id", result.ID).Warn("Failed to persist assessment record")
		}
	}
}

func (s *Service) notify(ctx context.Context, result AnalysisResult) {
	if s.alerts == nil || !result.Assessment.NeedsProfessionalReview {
		return
	}

	alert := kafka.ReviewAlert{
		AnalysisID:     result.ID,
		PatientID:      result.PatientID,
		RiskLevel:      string(result.Assessment.RiskLevel),
		Priority:       string(result.Workflow.PriorityLevel),
		PriorityRank:   PriorityRank(result.Assessment.RiskLevel),
		NeedsPhysician: result.Workflow.NeedsPhysicianReview,
		Timestamp:      result.Timestamp,
	}
	if err := s.alerts.PublishReviewAlert(ctx, alert); err != nil {
		logger.Log.WithError(err).WithField("analysis_id", result.ID).Warn("Failed to publish review alert")
	}
}

// History returns the patient's analysis log, newest first.
func (s *Service) History(ctx context.Context, patientID string) ([]AnalysisResult, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.List(ctx, patientID)
}

// ClearHistory drops the patient's analysis log.
func (s *Service) ClearHistory(ctx context.Context, patientID string) error {
	if s.history == nil {
		return nil
	}
	return s.history.Clear(ctx, patientID)
}

// PersistedAssessments returns the patient's durable assessment rows, newest
// first. Returns an empty slice when persistence is not configured.
func (s *Service) PersistedAssessments(ctx context.Context, patientID string, limit int) ([]AssessmentRecord, error) {
	if s.recorder == nil {
		return nil, nil
	}
	return s.recorder.ListByPatient(ctx, patientID, limit)
}

// ServiceStatus reports the engine's view of the remote inference service.
func (s *Service) ServiceStatus(ctx context.Context) inference.HealthStatus {
	return s.client.CheckHealth(ctx)
}
