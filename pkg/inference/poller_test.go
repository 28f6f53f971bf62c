package inference

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type pollScript struct {
	mu       sync.Mutex
	attempts int
	respond  func(w http.ResponseWriter, attempt int)
}

func (p *pollScript) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.attempts++
	attempt := p.attempts
	p.mu.Unlock()
	p.respond(w, attempt)
}

func (p *pollScript) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attempts
}

func newTestPoller(t *testing.T, script *pollScript, maxAttempts int) *Poller {
	t.Helper()
	server := httptest.NewServer(script)
	t.Cleanup(server.Close)
	return NewPoller(server.URL, server.Client(), maxAttempts, time.Millisecond)
}

func TestAwaitReturnsTerminalResult(t *testing.T) {
	script := &pollScript{respond: func(w http.ResponseWriter, attempt int) {
		if attempt < 3 {
			return // pending: empty body
		}
		w.Write([]byte(`{"data":["MEL 85%"]}`))
	}}

	poller := newTestPoller(t, script, 10)
	result, err := poller.Await(context.Background(), JobHandle{JobID: "job-1", SubmittedAt: time.Now()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "MEL 85%" {
		t.Fatalf("unexpected result %q", result)
	}
	if script.count() != 3 {
		t.Fatalf("expected 3 status queries, got %d", script.count())
	}
}

func TestAwaitTimesOutAfterExactAttemptBudget(t *testing.T) {
	script := &pollScript{respond: func(w http.ResponseWriter, attempt int) {
		// never terminal
	}}

	poller := newTestPoller(t, script, 3)
	_, err := poller.Await(context.Background(), JobHandle{JobID: "job-2", SubmittedAt: time.Now()})

	var timeout *PollingTimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("expected PollingTimeoutError, got %v", err)
	}
	if timeout.Attempts != 3 {
		t.Fatalf("expected 3 attempts recorded, got %d", timeout.Attempts)
	}
	if script.count() != 3 {
		t.Fatalf("expected exactly 3 status queries, not fewer, not more: got %d", script.count())
	}
}

func TestAwaitToleratesTransientTransportErrors(t *testing.T) {
	script := &pollScript{respond: func(w http.ResponseWriter, attempt int) {
		if attempt <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"data":["BCC 62%"]}`))
	}}

	poller := newTestPoller(t, script, 10)
	result, err := poller.Await(context.Background(), JobHandle{JobID: "job-3", SubmittedAt: time.Now()})
	if err != nil {
		t.Fatalf("mid-poll transport errors must not fail the operation: %v", err)
	}
	if result != "BCC 62%" {
		t.Fatalf("unexpected result %q", result)
	}
}

func TestAwaitRemoteFailureIsTerminal(t *testing.T) {
	script := &pollScript{respond: func(w http.ResponseWriter, attempt int) {
		w.Write([]byte(`{"error":"model crashed"}`))
	}}

	poller := newTestPoller(t, script, 10)
	_, err := poller.Await(context.Background(), JobHandle{JobID: "job-4", SubmittedAt: time.Now()})

	var failed *JobFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("expected JobFailedError, got %v", err)
	}
	if script.count() != 1 {
		t.Fatalf("remote failure must stop polling immediately, got %d queries", script.count())
	}
}

func TestAwaitHonoursCancellation(t *testing.T) {
	script := &pollScript{respond: func(w http.ResponseWriter, attempt int) {
		// always pending
	}}

	server := httptest.NewServer(script)
	t.Cleanup(server.Close)
	poller := NewPoller(server.URL, server.Client(), 1000, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 35*time.Millisecond)
	defer cancel()

	_, err := poller.Await(ctx, JobHandle{JobID: "job-5", SubmittedAt: time.Now()})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline error, got %v", err)
	}
	if script.count() >= 1000 {
		t.Fatal("cancellation must stop polling before the attempt budget")
	}
}
