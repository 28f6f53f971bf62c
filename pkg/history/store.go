package history

import (
	"context"
	"sync"

	"github.com/bnmbanhmi/seekwell-sub001/pkg/analysis"
)

// DefaultLimit is the per-patient history capacity.
const DefaultLimit = 50

// Store keeps a bounded, newest-first log of completed analyses per
// patient. Implementations are injected into the engine so tests can
// substitute an in-memory store.
type Store interface {
	Append(ctx context.Context, patientID string, result analysis.AnalysisResult) error
	List(ctx context.Context, patientID string) ([]analysis.AnalysisResult, error)
	Clear(ctx context.Context, patientID string) error
}

// MemoryStore is an in-process Store used in tests and single-node
// deployments without Redis.
type MemoryStore struct {
	limit   int
	mu      sync.Mutex
	entries map[string][]analysis.AnalysisResult
}

func NewMemoryStore(limit int) *MemoryStore {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &MemoryStore{
		limit:   limit,
		entries: make(map[string][]analysis.AnalysisResult),
	}
}

func (s *MemoryStore) Append(ctx context.Context, patientID string, result analysis.AnalysisResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := append([]analysis.AnalysisResult{result}, s.entries[patientID]...)
	if len(log) > s.limit {
		log = log[:s.limit]
	}
	s.entries[patientID] = log
	return nil
}

func (s *MemoryStore) List(ctx context.Context, patientID string) ([]analysis.AnalysisResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.entries[patientID]
	out := make([]analysis.AnalysisResult, len(log))
	copy(out, log)
	return out, nil
}

func (s *MemoryStore) Clear(ctx context.Context, patientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, patientID)
	return nil
}
