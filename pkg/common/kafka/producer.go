package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bnmbanhmi/seekwell-sub001/pkg/common/config"
	"github.com/bnmbanhmi/seekwell-sub001/pkg/common/logger"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// ReviewAlert is published whenever a completed analysis needs to enter the
// care-team review queue.
type ReviewAlert struct {
	ID             string    `json:"id"`
	AnalysisID     string    `json:"analysis_id"`
	PatientID      string    `json:"patient_id,omitempty"`
	RiskLevel      string    `json:"risk_level"`
	Priority       string    `json:"priority"`
	PriorityRank   int       `json:"priority_rank"`
	NeedsPhysician bool      `json:"needs_physician_review"`
	Timestamp      time.Time `json:"timestamp"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(topic string) *Producer {
	cfg := config.Load()
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Producer{writer: writer}
}

func (p *Producer) PublishReviewAlert(ctx context.Context, alert ReviewAlert) error {
	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}
	if alert.Timestamp.IsZero() {
		alert.Timestamp = time.Now().UTC()
	}

	value, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal review alert: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(alert.ID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "risk-level", Value: []byte(alert.RiskLevel)},
			{Key: "priority", Value: []byte(alert.Priority)},
		},
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"alert_id":   alert.ID,
			"risk_level": alert.RiskLevel,
		}).Error("Failed to publish review alert")
		return err
	}

	logger.Log.WithFields(map[string]interface{}{
		"alert_id":   alert.ID,
		"risk_level": alert.RiskLevel,
		"topic":      p.writer.Topic,
	}).Info("Review alert published")

	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
