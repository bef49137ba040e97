package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mercator-hq/ganymede/pkg/balancer"
	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/manager"
	"mercator-hq/ganymede/pkg/providers"
	"mercator-hq/ganymede/pkg/telemetry/metrics"
)

// stubService satisfies handlers.ChatService for routing tests.
type stubService struct{}

func (stubService) Chat(ctx context.Context, messages []providers.Message, tools []providers.Tool) (string, error) {
	return "ok", nil
}

func (stubService) ChatStream(ctx context.Context, messages []providers.Message, tools []providers.Tool) (<-chan *providers.StreamChunk, error) {
	out := make(chan *providers.StreamChunk)
	close(out)
	return out, nil
}

func (stubService) SystemLoad() float64 { return 0 }

func (stubService) SystemCapacity() manager.SystemCapacityReport {
	return manager.SystemCapacityReport{Models: map[string]balancer.Report{}}
}

func (stubService) ModelCapacity(name string) (balancer.Report, error) {
	return balancer.Report{}, &balancer.UnknownModelError{Model: name}
}

func (stubService) KeyLoad(modelName, key string) (manager.KeyLoadReport, error) {
	return manager.KeyLoadReport{}, &balancer.UnknownModelError{Model: modelName}
}

func (stubService) Models() []*balancer.Model { return nil }

func TestHandler_Routes(t *testing.T) {
	collector := metrics.NewCollector(config.MetricsConfig{Enabled: true}, nil)
	srv := New(config.ServerConfig{}, stubService{}, nil, collector)
	handler := srv.Handler()

	tests := []struct {
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"POST", "/llm/chat", `{"messages":[{"role":"user","content":"hi"}]}`, http.StatusOK},
		{"GET", "/llm/system-load", "", http.StatusOK},
		{"GET", "/llm/system-capacity", "", http.StatusOK},
		{"GET", "/llm/model-load/ghost", "", http.StatusNotFound},
		{"GET", "/llm/health", "", http.StatusOK},
		{"GET", "/llm/usage/recent", "", http.StatusNotFound},
		{"GET", "/metrics", "", http.StatusOK},
		{"GET", "/llm/chat", "", http.StatusMethodNotAllowed},
		{"GET", "/nope", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandler_MetricsDisabled(t *testing.T) {
	srv := New(config.ServerConfig{}, stubService{}, nil, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 when metrics are disabled", rec.Code)
	}
}

func TestHandler_RequestIDHeader(t *testing.T) {
	srv := New(config.ServerConfig{}, stubService{}, nil, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/llm/health", nil))

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("response missing X-Request-ID header")
	}
}
