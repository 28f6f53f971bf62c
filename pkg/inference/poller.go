package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bnmbanhmi/seekwell-sub001/pkg/common/logger"
	"github.com/bnmbanhmi/seekwell-sub001/pkg/observability/metrics"
)

// JobState tracks a deferred job through its lifecycle.
type JobState string

const (
	StateSubmitted   JobState = "SUBMITTED"
	StateWaiting     JobState = "WAITING"
	StateResultReady JobState = "RESULT_READY"
	StateFailed      JobState = "FAILED"
	StateTimedOut    JobState = "TIMED_OUT"
)

// JobFailedError means the remote service reported a terminal failure for a
// deferred job.
type JobFailedError struct {
	JobID  string
	Reason string
}

func (e *JobFailedError) Error() string {
	return fmt.Sprintf("job %s failed remotely: %s", e.JobID, e.Reason)
}

// Poller drives a deferred job to a terminal state by querying its status a
// bounded number of times with a fixed delay in between. A transient
// transport error on a status query is logged and tolerated; only the
// attempt budget is terminal.
type Poller struct {
	baseURL     string
	statusPath  string
	httpClient  *http.Client
	maxAttempts int
	delay       time.Duration
}

func NewPoller(baseURL string, httpClient *http.Client, maxAttempts int, delay time.Duration) *Poller {
	return &Poller{
		baseURL:     baseURL,
		statusPath:  "/api/queue/status",
		httpClient:  httpClient,
		maxAttempts: maxAttempts,
		delay:       delay,
	}
}

// Await polls the job until it yields a result, fails, or exhausts the
// attempt budget. The context cancels the in-flight status request as well
// as the wait between attempts.
func (p *Poller) Await(ctx context.Context, job JobHandle) (string, error) {
	state := StateSubmitted

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		result, terminal, err := p.queryStatus(ctx, job)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			var failed *JobFailedError
			if errors.As(err, &failed) {
				logger.Log.WithError(err).WithFields(map[string]interface{}{
					"job_id": job.JobID,
					"state":  string(StateFailed),
				}).Error("Deferred job failed")
				return "", err
			}
			logger.Log.WithError(err).WithFields(map[string]interface{}{
				"job_id":  job.JobID,
				"attempt": attempt,
				"state":   string(state),
			}).Warn("Transient polling error")
		} else if terminal {
			logger.Log.WithFields(map[string]interface{}{
				"job_id":   job.JobID,
				"attempts": attempt,
				"state":    string(StateResultReady),
			}).Debug("Deferred job resolved")
			return result, nil
		}

		state = StateWaiting

		if attempt == p.maxAttempts {
			break
		}
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	metrics.ObservePollTimeout()
	logger.Log.WithFields(map[string]interface{}{
		"job_id":   job.JobID,
		"attempts": p.maxAttempts,
		"state":    string(StateTimedOut),
	}).Error("Deferred job timed out")

	return "", &PollingTimeoutError{JobID: job.JobID, Attempts: p.maxAttempts}
}

// queryStatus performs one status check. terminal is true when the job
// produced a result; a JobFailedError is returned through result handling as
// a terminal error.
func (p *Poller) queryStatus(ctx context.Context, job JobHandle) (string, bool, error) {
	endpoint := fmt.Sprintf("%s%s/%s", p.baseURL, p.statusPath, job.JobID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", false, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return "", false, fmt.Errorf("status endpoint returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", false, err
	}
	if len(body) == 0 {
		return "", false, nil
	}

	var envelope predictEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		// A half-written pending body is treated as still waiting.
		return "", false, nil
	}

	if len(envelope.Data) > 0 {
		return rawToText(envelope.Data[0]), true, nil
	}
	if envelope.Error != "" {
		return "", false, &JobFailedError{JobID: job.JobID, Reason: envelope.Error}
	}

	return "", false, nil
}
