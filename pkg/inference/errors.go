package inference

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedEncoding indicates the encoder was asked for a transport
// representation it does not implement. This is a programmer error, never
// retried.
var ErrUnsupportedEncoding = errors.New("unsupported payload encoding")

// TransportError records the failure of a single protocol attempt. It is
// recovered locally by falling through to the next candidate protocol.
type TransportError struct {
	Protocol   string
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("protocol %s (%s): status %d", e.Protocol, e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("protocol %s (%s): %v", e.Protocol, e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// SubmissionError aggregates the per-attempt failures after every candidate
// protocol has been exhausted.
type SubmissionError struct {
	Attempts []*TransportError
}

func (e *SubmissionError) Error() string {
	reasons := make([]string, 0, len(e.Attempts))
	for _, attempt := range e.Attempts {
		reasons = append(reasons, attempt.Error())
	}
	return fmt.Sprintf("all %d inference protocols failed: %s", len(e.Attempts), strings.Join(reasons, "; "))
}

func IsSubmissionError(err error) bool {
	var se *SubmissionError
	return errors.As(err, &se)
}

// PollingTimeoutError means a deferred job never reached a terminal state
// within the attempt budget. Callers must treat it as inconclusive, not as a
// verdict.
type PollingTimeoutError struct {
	JobID    string
	Attempts int
}

func (e *PollingTimeoutError) Error() string {
	return fmt.Sprintf("job %s did not complete after %d polling attempts", e.JobID, e.Attempts)
}

func IsPollingTimeout(err error) bool {
	var pe *PollingTimeoutError
	return errors.As(err, &pe)
}
