package scaling

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/goksnair/resume-builder-ai-sub005/internal/models"
)

// ProviderAdapter carries a scaling decision to a hosting provider.
// Its result records execution, not intent: the ScalingEvent already
// appended by the engine is never rolled back on adapter failure.
type ProviderAdapter interface {
	// Name returns the provider key this adapter serves.
	Name() string
	// RequestScale asks the provider to move a service to the given
	// instance count.
	RequestScale(ctx context.Context, serviceID string, instances int) (models.ScaleRequestResult, error)
}

// Registry resolves provider adapters by the service's provider string.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]ProviderAdapter
	fallback ProviderAdapter
}

// NewRegistry creates a Registry with simulated adapters for the
// providers the optimizer deploys to. A real provider integration
// replaces the simulated adapter without touching the decision engine.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Registry{
		adapters: make(map[string]ProviderAdapter),
		fallback: NewSimulatedAdapter("simulated", logger),
	}
	for _, provider := range []string{"netlify", "railway", "render"} {
		r.Register(NewSimulatedAdapter(provider, logger))
	}
	return r
}

// Register installs an adapter, replacing any previous adapter for the
// same provider.
func (r *Registry) Register(adapter ProviderAdapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[adapter.Name()] = adapter
}

// Resolve returns the adapter for a provider, falling back to the
// simulated adapter for unknown providers.
func (r *Registry) Resolve(provider string) ProviderAdapter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if adapter, ok := r.adapters[provider]; ok {
		return adapter
	}
	return r.fallback
}

// SimulatedAdapter accepts every scaling request without talking to a
// real provider API.
type SimulatedAdapter struct {
	provider string
	logger   *slog.Logger
}

// NewSimulatedAdapter creates a SimulatedAdapter for the named provider.
func NewSimulatedAdapter(provider string, logger *slog.Logger) *SimulatedAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SimulatedAdapter{provider: provider, logger: logger}
}

// Name returns the provider key.
func (a *SimulatedAdapter) Name() string {
	return a.provider
}

// RequestScale acknowledges the request and logs it.
func (a *SimulatedAdapter) RequestScale(ctx context.Context, serviceID string, instances int) (models.ScaleRequestResult, error) {
	if err := ctx.Err(); err != nil {
		return models.ScaleRequestResult{}, err
	}

	a.logger.Info("simulated provider scaling request",
		"provider", a.provider,
		"service_id", serviceID,
		"instances", instances,
	)

	return models.ScaleRequestResult{
		Accepted: true,
		Detail:   fmt.Sprintf("%s accepted scale to %d instances for %s", a.provider, instances, serviceID),
	}, nil
}
