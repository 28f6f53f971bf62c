package inference

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newHealthClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, server.Client(), DefaultProtocols().Protocols), server
}

func TestCheckHealthRemoteUp(t *testing.T) {
	client, _ := newHealthClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	status := client.CheckHealth(context.Background())
	if status.Status != "healthy" || !status.Ready {
		t.Fatalf("expected healthy and ready on 200, got %+v", status)
	}
}

func TestCheckHealthRemoteErrorStatus(t *testing.T) {
	for _, code := range []int{http.StatusInternalServerError, http.StatusServiceUnavailable, http.StatusNotFound} {
		client, _ := newHealthClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))

		status := client.CheckHealth(context.Background())
		if status.Status != "unhealthy" || status.Ready {
			t.Fatalf("status %d: expected unhealthy and not ready, got %+v", code, status)
		}
	}
}

func TestCheckHealthRemoteUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewClient(server.URL, server.Client(), DefaultProtocols().Protocols)
	server.Close()

	status := client.CheckHealth(context.Background())
	if status.Status != "unhealthy" || status.Ready {
		t.Fatalf("expected unhealthy when the remote is unreachable, got %+v", status)
	}
}
