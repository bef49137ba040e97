package manager

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"mercator-hq/ganymede/pkg/balancer"
	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/providers"
	"mercator-hq/ganymede/pkg/providers/openai"
)

// Request outcome labels reported to observers.
const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusRejected = "rejected"
)

// Observer receives the outcome of every completed or rejected request.
// Metrics and usage recording hang off this interface so the manager stays
// free of telemetry imports.
type Observer interface {
	// ObserveRequest is called once per request after it finishes.
	// model and key are empty when the request was rejected before
	// selection succeeded.
	ObserveRequest(model, key, status string, duration time.Duration, streamed bool)
}

// ProviderFactory builds the provider adapter for one configured model.
// It is the explicit registration table: the manager never consults a
// global registry.
type ProviderFactory func(name string, mc config.ModelConfig) (providers.Provider, error)

// DefaultProviderFactory builds an OpenAI-compatible adapter from the
// model's provider section. Every upstream the gateway fronts speaks this
// wire shape; only base URL and model identifier differ.
func DefaultProviderFactory(name string, mc config.ModelConfig) (providers.Provider, error) {
	return openai.NewClient(openai.Config{
		Name:  name,
		Model: mc.Provider.Model,
		HTTP: providers.ClientConfig{
			BaseURL:      mc.Provider.BaseURL,
			Timeout:      mc.Provider.Timeout,
			MaxIdleConns: mc.Provider.MaxIdleConns,
		},
	}), nil
}

// Manager owns the model registry and brackets every provider call with
// the admission/release protocol: select, track, call, release.
//
// The registry is built once at startup and fixed for the process
// lifetime; only model weights may change afterwards (see WeightWatcher).
type Manager struct {
	models    []*balancer.Model
	byName    map[string]*balancer.Model
	providers map[string]providers.Provider
	lb        *balancer.LoadBalancer

	mu        sync.RWMutex
	observers []Observer
}

// New builds the manager from configuration. Models are registered in
// enabled_models order, which fixes the deterministic selection tie-break.
func New(cfg *config.Config, factory ProviderFactory) (*Manager, error) {
	if factory == nil {
		factory = DefaultProviderFactory
	}

	m := &Manager{
		byName:    make(map[string]*balancer.Model, len(cfg.EnabledModels)),
		providers: make(map[string]providers.Provider, len(cfg.EnabledModels)),
		lb:        balancer.NewLoadBalancer(),
	}

	for _, name := range cfg.EnabledModels {
		mc, ok := cfg.Models[name]
		if !ok {
			return nil, &balancer.InvalidConfigurationError{
				Field:  "enabled_models",
				Reason: fmt.Sprintf("model %q has no configuration section", name),
			}
		}

		model, err := buildModel(name, mc)
		if err != nil {
			return nil, err
		}

		provider, err := factory(name, mc)
		if err != nil {
			return nil, fmt.Errorf("failed to build provider for model %q: %w", name, err)
		}

		m.models = append(m.models, model)
		m.byName[name] = model
		m.providers[name] = provider

		slog.Info("registered model",
			"model", name,
			"strategy", model.Type(),
			"credentials", len(model.Credentials()),
			"weight", model.Weight(),
			"supports_tools", model.SupportsTools(),
		)
	}

	return m, nil
}

// buildModel constructs the credential set, strategy, and model wrapper
// for one configuration section.
func buildModel(name string, mc config.ModelConfig) (*balancer.Model, error) {
	creds := make([]balancer.Credential, 0, len(mc.APIKeys))
	for _, k := range mc.APIKeys {
		cred, err := balancer.NewCredential(k.Key, k.Weight)
		if err != nil {
			return nil, err
		}
		creds = append(creds, cred)
	}

	var (
		strategy balancer.CapacityStrategy
		err      error
	)
	switch mc.Strategy {
	case config.StrategyConcurrency:
		strategy, err = balancer.NewConcurrencyStrategy(creds, mc.MaxConcurrency)
	case config.StrategyQPS:
		strategy, err = balancer.NewRateWindowStrategy(creds, mc.MaxPerSecond)
	default:
		err = &balancer.InvalidConfigurationError{
			Field:  "strategy",
			Reason: fmt.Sprintf("unknown strategy %q for model %q", mc.Strategy, name),
		}
	}
	if err != nil {
		return nil, err
	}

	return balancer.NewModel(name, mc.Weight, mc.SupportsTools, creds, strategy)
}

// AddObserver registers a request outcome observer. Observers must be
// registered before the manager starts serving requests.
func (m *Manager) AddObserver(o Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, o)
}

// observe reports one request outcome to every registered observer.
func (m *Manager) observe(model, key, status string, start time.Time, streamed bool) {
	m.mu.RLock()
	observers := m.observers
	m.mu.RUnlock()

	duration := time.Since(start)
	for _, o := range observers {
		o.ObserveRequest(model, key, status, duration, streamed)
	}
}

// Models returns the registered models in registration order.
func (m *Manager) Models() []*balancer.Model {
	return m.models
}

// Model returns a registered model by name.
func (m *Manager) Model(name string) (*balancer.Model, error) {
	model, ok := m.byName[name]
	if !ok {
		return nil, &balancer.UnknownModelError{Model: name}
	}
	return model, nil
}

// Chat runs one synchronous completion: select, track, call the provider,
// release, return the content. A Track rejection or an empty candidate set
// surfaces immediately; nothing is retried against another candidate.
func (m *Manager) Chat(ctx context.Context, messages []providers.Message, tools []providers.Tool) (string, error) {
	start := time.Now()

	model, cred, err := m.lb.SelectInstance(m.models, len(tools) > 0)
	if err != nil {
		m.observe("", "", StatusRejected, start, false)
		return "", err
	}

	strategy := model.Strategy()
	if !strategy.Track(cred.Key) {
		// Lost the select/track race; a normal capacity rejection.
		m.observe(model.Name(), cred.Key, StatusRejected, start, false)
		return "", &balancer.CapacityExceededError{Model: model.Name(), Key: cred.Key}
	}
	defer strategy.Release(cred.Key)

	resp, err := m.providers[model.Name()].Complete(ctx, cred.Key, &providers.CompletionRequest{
		Messages: messages,
		Tools:    tools,
	})
	if err != nil {
		m.observe(model.Name(), cred.Key, StatusError, start, false)
		return "", err
	}

	m.observe(model.Name(), cred.Key, StatusSuccess, start, false)
	return resp.Content, nil
}

// ChatStream runs one streaming completion. The returned channel yields
// text fragments and closes after the last one; the credential is released
// exactly once, after the final chunk or stream abort, no matter how the
// stream terminates.
func (m *Manager) ChatStream(ctx context.Context, messages []providers.Message, tools []providers.Tool) (<-chan *providers.StreamChunk, error) {
	start := time.Now()

	model, cred, err := m.lb.SelectInstance(m.models, len(tools) > 0)
	if err != nil {
		m.observe("", "", StatusRejected, start, true)
		return nil, err
	}

	strategy := model.Strategy()
	if !strategy.Track(cred.Key) {
		m.observe(model.Name(), cred.Key, StatusRejected, start, true)
		return nil, &balancer.CapacityExceededError{Model: model.Name(), Key: cred.Key}
	}

	upstream, err := m.providers[model.Name()].StreamComplete(ctx, cred.Key, &providers.CompletionRequest{
		Messages: messages,
		Tools:    tools,
		Stream:   true,
	})
	if err != nil {
		strategy.Release(cred.Key)
		m.observe(model.Name(), cred.Key, StatusError, start, true)
		return nil, err
	}

	out := make(chan *providers.StreamChunk)
	go func() {
		status := StatusSuccess
		var released sync.Once
		release := func() {
			released.Do(func() { strategy.Release(cred.Key) })
		}
		defer close(out)
		defer func() {
			release()
			m.observe(model.Name(), cred.Key, status, start, true)
		}()

		for chunk := range upstream {
			if chunk.Error != nil {
				status = StatusError
			}
			select {
			case out <- chunk:
			case <-ctx.Done():
				// Consumer is gone; drop the rest of the stream.
				status = StatusError
				return
			}
		}
	}()

	return out, nil
}
