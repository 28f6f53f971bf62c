package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bnmbanhmi/seekwell-sub001/pkg/common/logger"
	"github.com/bnmbanhmi/seekwell-sub001/pkg/observability/metrics"
)

const maxResponseBytes = 1 << 20

// JobHandle identifies a deferred inference job queued by the remote
// service. It lives until polling resolves or times out.
type JobHandle struct {
	JobID       string
	SubmittedAt time.Time
}

// Submission is the outcome of a successful negotiation: either an immediate
// raw result or a deferred job handle, never both.
type Submission struct {
	ProtocolID string
	Result     string
	Job        *JobHandle
}

func (s *Submission) Deferred() bool {
	return s.Job != nil
}

// Client negotiates a submission against the remote inference service by
// trying each candidate protocol in declared order.
type Client struct {
	baseURL    string
	httpClient *http.Client
	protocols  []ProtocolDescriptor
}

func NewClient(baseURL string, httpClient *http.Client, protocols []ProtocolDescriptor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		protocols:  protocols,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Submit tries each protocol descriptor strictly in order and returns on the
// first one that yields an immediate result or a valid job handle. There are
// no retries within a single descriptor.
func (c *Client) Submit(ctx context.Context, img Image) (*Submission, error) {
	var attempts []*TransportError

	for i, protocol := range c.protocols {
		if i > 0 {
			metrics.ObserveProtocolFallback()
		}

		submission, terr := c.trySubmit(ctx, protocol, img)
		if terr == nil {
			return submission, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		logger.Log.WithError(terr).WithFields(map[string]interface{}{
			"protocol": protocol.ID,
			"endpoint": terr.Endpoint,
		}).Warn("Inference protocol attempt failed")
		attempts = append(attempts, terr)
	}

	return nil, &SubmissionError{Attempts: attempts}
}

func (c *Client) trySubmit(ctx context.Context, protocol ProtocolDescriptor, img Image) (*Submission, *TransportError) {
	endpoint := c.baseURL + protocol.Path

	payload, err := c.buildRequestBody(protocol, img)
	if err != nil {
		return nil, &TransportError{Protocol: protocol.ID, Endpoint: endpoint, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload.Body))
	if err != nil {
		return nil, &TransportError{Protocol: protocol.ID, Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", payload.ContentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Protocol: protocol.ID, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, &TransportError{Protocol: protocol.ID, Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Protocol: protocol.ID, Endpoint: endpoint, Err: err}
	}

	var envelope predictEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &TransportError{Protocol: protocol.ID, Endpoint: endpoint, Err: fmt.Errorf("malformed envelope: %w", err)}
	}

	if len(envelope.Data) > 0 {
		return &Submission{ProtocolID: protocol.ID, Result: rawToText(envelope.Data[0])}, nil
	}

	if protocol.Defers {
		if jobID := envelope.jobID(); jobID != "" {
			return &Submission{
				ProtocolID: protocol.ID,
				Job:        &JobHandle{JobID: jobID, SubmittedAt: time.Now().UTC()},
			}, nil
		}
	}

	return nil, &TransportError{Protocol: protocol.ID, Endpoint: endpoint, Err: fmt.Errorf("malformed envelope: no result or job handle")}
}

func (c *Client) buildRequestBody(protocol ProtocolDescriptor, img Image) (EncodedPayload, error) {
	switch protocol.Encoding {
	case EncodingDataURL:
		request := map[string]interface{}{
			"data": []string{DataURL(img)},
		}
		if protocol.FnIndex != nil {
			request["fn_index"] = *protocol.FnIndex
		}
		body, err := json.Marshal(request)
		if err != nil {
			return EncodedPayload{}, err
		}
		return EncodedPayload{ContentType: "application/json", Body: body}, nil

	case EncodingMultipart:
		return Encode(img, EncodingMultipart)

	case EncodingBase64JSON:
		descriptor, err := Encode(img, EncodingBase64JSON)
		if err != nil {
			return EncodedPayload{}, err
		}
		body, err := json.Marshal(map[string]interface{}{
			"data": []json.RawMessage{json.RawMessage(descriptor.Body)},
		})
		if err != nil {
			return EncodedPayload{}, err
		}
		return EncodedPayload{ContentType: "application/json", Body: body}, nil

	default:
		return EncodedPayload{}, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, protocol.Encoding)
	}
}

type predictEnvelope struct {
	Data    []json.RawMessage `json:"data"`
	Hash    string            `json:"hash"`
	EventID string            `json:"event_id"`
	Error   string            `json:"error"`
}

func (e predictEnvelope) jobID() string {
	if e.EventID != "" {
		return e.EventID
	}
	return e.Hash
}

// rawToText flattens a JSON result element into plain text for the parser.
// The remote service returns free-form strings most of the time, but nested
// objects are kept as their JSON text so the parser can still scan them.
func rawToText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
