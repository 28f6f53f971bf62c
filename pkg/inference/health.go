package inference

import (
	"context"
	"io"
	"net/http"
)

// HealthStatus reports whether the remote inference service is reachable.
type HealthStatus struct {
	Status string `json:"status"`
	Ready  bool   `json:"ready"`
}

// CheckHealth issues an unauthenticated GET against the service root. Any
// 2xx means the Space is up; everything else, including connection failures,
// reports unhealthy.
func (c *Client) CheckHealth(ctx context.Context) HealthStatus {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return HealthStatus{Status: "unhealthy", Ready: false}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return HealthStatus{Status: "unhealthy", Ready: false}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return HealthStatus{Status: "healthy", Ready: true}
	}
	return HealthStatus{Status: "unhealthy", Ready: false}
}
