package manager

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mercator-hq/ganymede/pkg/balancer"
	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/providers"
)

// mockProvider is a scriptable Provider for exercising the admission
// protocol without network traffic.
type mockProvider struct {
	mu sync.Mutex

	response  *providers.CompletionResponse
	err       error
	chunks    []*providers.StreamChunk
	streamErr error

	// keys records the API key of every call, in order.
	keys []string

	// block, when non-nil, holds Complete until the channel closes.
	block chan struct{}
}

func (p *mockProvider) Complete(ctx context.Context, apiKey string, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	p.mu.Lock()
	p.keys = append(p.keys, apiKey)
	block := p.block
	p.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.response, nil
}

func (p *mockProvider) StreamComplete(ctx context.Context, apiKey string, req *providers.CompletionRequest) (<-chan *providers.StreamChunk, error) {
	p.mu.Lock()
	p.keys = append(p.keys, apiKey)
	p.mu.Unlock()

	if p.streamErr != nil {
		return nil, p.streamErr
	}
	out := make(chan *providers.StreamChunk)
	go func() {
		defer close(out)
		for _, c := range p.chunks {
			out <- c
		}
	}()
	return out, nil
}

func (p *mockProvider) Name() string { return "mock" }

func testConfig(maxConcurrency int) *config.Config {
	return &config.Config{
		EnabledModels: []string{"zhipu"},
		Models: map[string]config.ModelConfig{
			"zhipu": {
				Provider: config.UpstreamConfig{
					BaseURL: "http://localhost:0",
					Model:   "glm-4",
				},
				Weight:         1.0,
				SupportsTools:  true,
				Strategy:       config.StrategyConcurrency,
				MaxConcurrency: maxConcurrency,
				APIKeys: []config.KeyConfig{
					{Key: "key-1", Weight: 1.0},
				},
			},
		},
	}
}

func newTestManager(t *testing.T, cfg *config.Config, p providers.Provider) *Manager {
	t.Helper()
	mgr, err := New(cfg, func(name string, mc config.ModelConfig) (providers.Provider, error) {
		return p, nil
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return mgr
}

// recordingObserver captures ObserveRequest calls.
type recordingObserver struct {
	mu      sync.Mutex
	records []string
}

func (o *recordingObserver) ObserveRequest(model, key, status string, duration time.Duration, streamed bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, model+"/"+key+"/"+status)
}

func (o *recordingObserver) snapshot() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.records...)
}

func TestNew_UnknownStrategy(t *testing.T) {
	cfg := testConfig(1)
	mc := cfg.Models["zhipu"]
	mc.Strategy = "round_robin"
	cfg.Models["zhipu"] = mc

	_, err := New(cfg, func(name string, mc config.ModelConfig) (providers.Provider, error) {
		return &mockProvider{}, nil
	})
	if !errors.Is(err, balancer.ErrInvalidConfiguration) {
		t.Fatalf("New() error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestChat_Success(t *testing.T) {
	p := &mockProvider{response: &providers.CompletionResponse{Content: "hello"}}
	mgr := newTestManager(t, testConfig(2), p)

	got, err := mgr.Chat(context.Background(), []providers.Message{{Role: "user", Content: "hi"}}, nil)
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if got != "hello" {
		t.Errorf("Chat() = %q, want %q", got, "hello")
	}
	if p.keys[0] != "key-1" {
		t.Errorf("provider called with key %q, want %q", p.keys[0], "key-1")
	}

	model, _ := mgr.Model("zhipu")
	if occ := model.Occupancy("key-1"); occ != 0 {
		t.Errorf("occupancy after Chat = %d, want 0", occ)
	}
}

func TestChat_ReleasesOnProviderError(t *testing.T) {
	p := &mockProvider{err: errors.New("upstream down")}
	mgr := newTestManager(t, testConfig(1), p)

	if _, err := mgr.Chat(context.Background(), nil, nil); err == nil {
		t.Fatal("Chat() error = nil, want provider error")
	}

	model, _ := mgr.Model("zhipu")
	if occ := model.Occupancy("key-1"); occ != 0 {
		t.Errorf("occupancy after failed Chat = %d, want 0", occ)
	}
}

func TestChat_CapacityExceeded(t *testing.T) {
	block := make(chan struct{})
	p := &mockProvider{
		response: &providers.CompletionResponse{Content: "ok"},
		block:    block,
	}
	mgr := newTestManager(t, testConfig(1), p)

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		_, err := mgr.Chat(context.Background(), nil, nil)
		done <- err
	}()
	<-started

	// Wait until the first request holds the only slot.
	deadline := time.After(2 * time.Second)
	model, _ := mgr.Model("zhipu")
	for model.Occupancy("key-1") == 0 {
		select {
		case <-deadline:
			t.Fatal("first request never acquired the slot")
		case <-time.After(time.Millisecond):
		}
	}

	_, err := mgr.Chat(context.Background(), nil, nil)
	if !errors.Is(err, balancer.ErrNoAvailableInstance) {
		t.Fatalf("second Chat() error = %v, want ErrNoAvailableInstance", err)
	}

	close(block)
	if err := <-done; err != nil {
		t.Fatalf("first Chat() error = %v", err)
	}
}

func TestChat_NoModels(t *testing.T) {
	mgr := newTestManager(t, &config.Config{}, &mockProvider{})

	_, err := mgr.Chat(context.Background(), nil, nil)
	if !errors.Is(err, balancer.ErrNoAvailableInstance) {
		t.Fatalf("Chat() error = %v, want ErrNoAvailableInstance", err)
	}
}

func TestChat_ObserverOutcomes(t *testing.T) {
	p := &mockProvider{response: &providers.CompletionResponse{Content: "ok"}}
	mgr := newTestManager(t, testConfig(1), p)
	obs := &recordingObserver{}
	mgr.AddObserver(obs)

	if _, err := mgr.Chat(context.Background(), nil, nil); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	records := obs.snapshot()
	if len(records) != 1 || records[0] != "zhipu/key-1/success" {
		t.Errorf("observer records = %v, want [zhipu/key-1/success]", records)
	}
}

func TestChatStream_ReleasesAfterFinalChunk(t *testing.T) {
	p := &mockProvider{chunks: []*providers.StreamChunk{
		{Delta: "Hel"},
		{Delta: "lo"},
		{Done: true},
	}}
	mgr := newTestManager(t, testConfig(1), p)
	obs := &recordingObserver{}
	mgr.AddObserver(obs)

	stream, err := mgr.ChatStream(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("ChatStream() error = %v", err)
	}

	var text string
	for chunk := range stream {
		text += chunk.Delta
	}
	if text != "Hello" {
		t.Errorf("streamed text = %q, want %q", text, "Hello")
	}

	model, _ := mgr.Model("zhipu")
	if occ := model.Occupancy("key-1"); occ != 0 {
		t.Errorf("occupancy after stream = %d, want 0", occ)
	}
	records := obs.snapshot()
	if len(records) != 1 || records[0] != "zhipu/key-1/success" {
		t.Errorf("observer records = %v, want [zhipu/key-1/success]", records)
	}
}

func TestChatStream_ReleasesOnOpenError(t *testing.T) {
	p := &mockProvider{streamErr: errors.New("connect refused")}
	mgr := newTestManager(t, testConfig(1), p)

	if _, err := mgr.ChatStream(context.Background(), nil, nil); err == nil {
		t.Fatal("ChatStream() error = nil, want open error")
	}

	model, _ := mgr.Model("zhipu")
	if occ := model.Occupancy("key-1"); occ != 0 {
		t.Errorf("occupancy after failed open = %d, want 0", occ)
	}
}

func TestChatStream_ReleasesOnConsumerAbort(t *testing.T) {
	chunks := make([]*providers.StreamChunk, 100)
	for i := range chunks {
		chunks[i] = &providers.StreamChunk{Delta: "x"}
	}
	p := &mockProvider{chunks: chunks}
	mgr := newTestManager(t, testConfig(1), p)

	ctx, cancel := context.WithCancel(context.Background())
	stream, err := mgr.ChatStream(ctx, nil, nil)
	if err != nil {
		t.Fatalf("ChatStream() error = %v", err)
	}

	<-stream
	cancel()

	// Drain whatever was already in flight.
	for range stream {
	}

	model, _ := mgr.Model("zhipu")
	deadline := time.After(2 * time.Second)
	for model.Occupancy("key-1") != 0 {
		select {
		case <-deadline:
			t.Fatal("slot never released after consumer abort")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestChat_ToolRouting(t *testing.T) {
	cfg := testConfig(1)
	mc := cfg.Models["zhipu"]
	mc.SupportsTools = false
	cfg.Models["zhipu"] = mc
	mgr := newTestManager(t, cfg, &mockProvider{response: &providers.CompletionResponse{Content: "ok"}})

	tools := []providers.Tool{{Type: "function"}}
	_, err := mgr.Chat(context.Background(), nil, tools)
	if !errors.Is(err, balancer.ErrNoAvailableInstance) {
		t.Fatalf("Chat() with tools error = %v, want ErrNoAvailableInstance", err)
	}

	if _, err := mgr.Chat(context.Background(), nil, nil); err != nil {
		t.Fatalf("Chat() without tools error = %v", err)
	}
}
