package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bnmbanhmi/seekwell-sub001/pkg/analysis"
	"github.com/bnmbanhmi/seekwell-sub001/pkg/common/logger"
	"github.com/redis/go-redis/v9"
)

// RedisStore persists per-patient analysis history as a capped Redis list,
// newest first. A single patient's analyses are submitted serially from one
// client context, so list push plus trim is sufficient; a multi-writer
// deployment would need per-key locking.
type RedisStore struct {
	client *redis.Client
	limit  int
}

func NewRedisStore(client *redis.Client, limit int) *RedisStore {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &RedisStore{client: client, limit: limit}
}

func historyKey(patientID string) string {
	return fmt.Sprintf("history:%s", patientID)
}

func (s *RedisStore) Append(ctx context.Context, patientID string, result analysis.AnalysisResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis result: %w", err)
	}

	key := historyKey(patientID)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, int64(s.limit-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append history for %s: %w", patientID, err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, patientID string) ([]analysis.AnalysisResult, error) {
	items, err := s.client.LRange(ctx, historyKey(patientID), 0, int64(s.limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history for %s: %w", patientID, err)
	}

	results := make([]analysis.AnalysisResult, 0, len(items))
	for _, item := range items {
		var result analysis.AnalysisResult
		if err := json.Unmarshal([]byte(item), &result); err != nil {
			logger.Log.WithError(err).WithField("patient_id", patientID).Warn("Skipping corrupt history entry")
			continue
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *RedisStore) Clear(ctx context.Context, patientID string) error {
	if err := s.client.Del(ctx, historyKey(patientID)).Err(); err != nil {
		return fmt.Errorf("failed to clear history for %s: %w", patientID, err)
	}
	return nil
}
