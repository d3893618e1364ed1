// Package optimizer turns classified issues and scaling decisions into
// applied configuration and provider requests.
package optimizer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goksnair/resume-builder-ai-sub005/internal/models"
	"github.com/goksnair/resume-builder-ai-sub005/internal/scaling"
)

// Applier selects remediation policies for detected issues and carries
// scaling decisions to the provider adapters.
type Applier struct {
	registry   *scaling.Registry
	configPath string
	logger     *slog.Logger

	// PeakHourHook is a seam for time-of-day policy. The default
	// implementation only observes; a future policy can replace it.
	PeakHourHook func(now time.Time, cfg *models.OptimizationConfig)

	mu         sync.Mutex
	config     models.OptimizationConfig
	mismatches []models.ExecutionMismatch
}

// NewApplier creates an Applier with the baseline configuration. When
// configPath is non-empty the configuration is persisted there on every
// change.
func NewApplier(registry *scaling.Registry, configPath string, logger *slog.Logger) *Applier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Applier{
		registry:   registry,
		configPath: configPath,
		logger:     logger,
		config:     models.DefaultOptimizationConfig(),
	}
}

// ApplyIssues updates the optimization configuration for each issue
// kind: latency tightens the caching and compression posture, error
// rate enables retry and circuit-breaker policies. The resulting
// configuration is persisted and returned.
func (a *Applier) ApplyIssues(issues []models.Issue) models.OptimizationConfig {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := time.Now()
	changed := false

	for _, issue := range issues {
		switch issue.Kind {
		case models.IssueLatency:
			if a.config.CachePolicy != models.CachePolicyAggressive {
				a.config.CachePolicy = models.CachePolicyAggressive
				a.config.StaticAssetTTLSecs = 86400
				a.config.CompressionEnabled = true
				a.config.BrotliEnabled = true
				changed = true
				a.logger.Info("tightened cache and compression policy",
					"service_id", issue.ServiceID,
					"avg_latency_ms", issue.Current,
					"severity", string(issue.Severity),
				)
			}
		case models.IssueErrorRate:
			if !a.config.RetryEnabled || !a.config.CircuitBreaker {
				a.config.RetryEnabled = true
				a.config.MaxRetries = 3
				a.config.CircuitBreaker = true
				changed = true
				a.logger.Info("enabled retry and circuit-breaker policy",
					"service_id", issue.ServiceID,
					"error_rate_pct", issue.Current,
				)
			}
		}
	}

	if hook := a.PeakHourHook; hook != nil {
		hook(now, &a.config)
	} else if h := now.Hour(); h >= 9 && h < 18 {
		a.logger.Debug("inside peak traffic window", "hour", h)
	}

	if changed {
		a.config.UpdatedAt = now.UTC()
		if err := a.persistLocked(); err != nil {
			a.logger.Warn("persisting optimization config failed", "error", err)
		}
	}

	return a.config
}

// ApplyDecision delegates a non-none scaling decision to the provider
// adapter for the service. Adapter failure or refusal never rolls back
// the recorded ScalingEvent; the divergence is kept as an execution
// mismatch for reporting.
func (a *Applier) ApplyDecision(ctx context.Context, service models.Service, decision scaling.Decision) {
	if decision.Action == models.ScaleNone || decision.Event == nil {
		return
	}

	adapter := a.registry.Resolve(service.Provider)
	result, err := adapter.RequestScale(ctx, service.ID, decision.Instances)

	switch {
	case err != nil:
		a.recordMismatch(decision, fmt.Sprintf("adapter error: %v", err))
		a.logger.Error("provider scaling request failed",
			"service_id", service.ID,
			"provider", service.Provider,
			"error", err,
		)
	case !result.Accepted:
		a.recordMismatch(decision, fmt.Sprintf("adapter declined: %s", result.Detail))
		a.logger.Warn("provider declined scaling request",
			"service_id", service.ID,
			"provider", service.Provider,
			"detail", result.Detail,
		)
	default:
		a.logger.Info("provider accepted scaling request",
			"service_id", service.ID,
			"provider", service.Provider,
			"instances", decision.Instances,
		)
	}
}

func (a *Applier) recordMismatch(decision scaling.Decision, detail string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.mismatches = append(a.mismatches, models.ExecutionMismatch{
		EventID:   decision.Event.ID,
		ServiceID: decision.ServiceID,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	})
}

// Config returns the current optimization configuration.
func (a *Applier) Config() models.OptimizationConfig {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.config
}

// Mismatches returns the recorded intent-versus-execution divergences.
func (a *Applier) Mismatches() []models.ExecutionMismatch {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.ExecutionMismatch(nil), a.mismatches...)
}

func (a *Applier) persistLocked() error {
	if a.configPath == "" {
		return nil
	}

	data, err := json.MarshalIndent(a.config, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing optimization config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(a.configPath), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(a.configPath, data, 0o644); err != nil {
		return fmt.Errorf("writing optimization config: %w", err)
	}
	return nil
}
