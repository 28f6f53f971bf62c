package history

import (
	"context"
	"fmt"
	"testing"

	"github.com/bnmbanhmi/seekwell-sub001/pkg/analysis"
)

func resultWithID(id string) analysis.AnalysisResult {
	return analysis.AnalysisResult{ID: id, Prediction: analysis.PredictionRecord{Label: "Melanoma"}}
}

func TestMemoryStoreCapacityEviction(t *testing.T) {
	const limit = 5
	store := NewMemoryStore(limit)
	ctx := context.Background()

	for i := 0; i <= limit; i++ {
		if err := store.Append(ctx, "patient-1", resultWithID(fmt.Sprintf("a-%d", i))); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	log, err := store.List(ctx, "patient-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(log) != limit {
		t.Fatalf("expected capacity %d after %d appends, got %d", limit, limit+1, len(log))
	}
	if log[0].ID != fmt.Sprintf("a-%d", limit) {
		t.Fatalf("newest entry must be first, got %s", log[0].ID)
	}
	for _, entry := range log {
		if entry.ID == "a-0" {
			t.Fatal("oldest entry must have been evicted")
		}
	}
}

func TestMemoryStoreNewestFirstOrdering(t *testing.T) {
	store := NewMemoryStore(10)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		store.Append(ctx, "patient-2", resultWithID(fmt.Sprintf("b-%d", i)))
	}

	log, _ := store.List(ctx, "patient-2")
	for i, want := range []string{"b-2", "b-1", "b-0"} {
		if log[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, log[i].ID)
		}
	}
}

func TestMemoryStorePerPatientIsolation(t *testing.T) {
	store := NewMemoryStore(10)
	ctx := context.Background()

	store.Append(ctx, "patient-a", resultWithID("a-1"))
	store.Append(ctx, "patient-b", resultWithID("b-1"))

	logA, _ := store.List(ctx, "patient-a")
	if len(logA) != 1 || logA[0].ID != "a-1" {
		t.Fatalf("patient-a history leaked: %+v", logA)
	}

	if err := store.Clear(ctx, "patient-a"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	logA, _ = store.List(ctx, "patient-a")
	logB, _ := store.List(ctx, "patient-b")
	if len(logA) != 0 {
		t.Fatal("expected patient-a history cleared")
	}
	if len(logB) != 1 {
		t.Fatal("clearing patient-a must not touch patient-b")
	}
}

func TestMemoryStoreListCopiesEntries(t *testing.T) {
	store := NewMemoryStore(10)
	ctx := context.Background()
	store.Append(ctx, "patient-c", resultWithID("c-1"))

	log, _ := store.List(ctx, "patient-c")
	log[0].ID = "mutated"

	again, _ := store.List(ctx, "patient-c")
	if again[0].ID != "c-1" {
		t.Fatal("List must return a copy, not the backing slice")
	}
}
