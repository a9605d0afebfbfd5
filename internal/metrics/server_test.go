package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHealthzReportsStatus(t *testing.T) {
	srv := NewServer(":0", func(ctx context.Context) (interface{}, error) {
		return map[string]int{"transactions": 3}, nil
	}, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("unexpected status: %v", body["status"])
	}
	pipeline, ok := body["pipeline"].(map[string]interface{})
	if !ok || pipeline["transactions"] != float64(3) {
		t.Fatalf("unexpected pipeline snapshot: %v", body["pipeline"])
	}
}

func TestHealthzUnavailable(t *testing.T) {
	srv := NewServer(":0", func(ctx context.Context) (interface{}, error) {
		return nil, errors.New("tracker stopped")
	}, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	FramesReceived.Inc()

	srv := NewServer(":0", nil, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "sniper_frames_received_total") {
		t.Fatalf("metrics output missing frames counter")
	}
}
