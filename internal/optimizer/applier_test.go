package optimizer

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goksnair/resume-builder-ai-sub005/internal/models"
	"github.com/goksnair/resume-builder-ai-sub005/internal/scaling"
)

// failingAdapter simulates a provider that rejects or errors.
type failingAdapter struct {
	name    string
	err     error
	decline bool
}

func (f *failingAdapter) Name() string { return f.name }

func (f *failingAdapter) RequestScale(_ context.Context, _ string, _ int) (models.ScaleRequestResult, error) {
	if f.err != nil {
		return models.ScaleRequestResult{}, f.err
	}
	if f.decline {
		return models.ScaleRequestResult{Accepted: false, Detail: "quota exceeded"}, nil
	}
	return models.ScaleRequestResult{Accepted: true, Detail: "ok"}, nil
}

func testDecision() scaling.Decision {
	return scaling.Decision{
		ServiceID: "api",
		Action:    models.ScaleUp,
		Instances: 2,
		Event: &models.ScalingEvent{
			ID:            "event-1",
			ServiceID:     "api",
			Action:        models.ScaleUp,
			FromInstances: 1,
			ToInstances:   2,
			Reason:        "average response time 900ms exceeds 500ms threshold at high load",
		},
	}
}

func TestApplyIssuesLatencyPolicy(t *testing.T) {
	a := NewApplier(scaling.NewRegistry(nil), "", nil)

	cfg := a.ApplyIssues([]models.Issue{{
		ServiceID: "web", Kind: models.IssueLatency, Current: 1200, Target: 500,
		Severity: models.SeverityCritical,
	}})

	assert.Equal(t, models.CachePolicyAggressive, cfg.CachePolicy)
	assert.Equal(t, 86400, cfg.StaticAssetTTLSecs)
	assert.True(t, cfg.BrotliEnabled)
	assert.False(t, cfg.RetryEnabled)
}

func TestApplyIssuesErrorRatePolicy(t *testing.T) {
	a := NewApplier(scaling.NewRegistry(nil), "", nil)

	cfg := a.ApplyIssues([]models.Issue{{
		ServiceID: "api", Kind: models.IssueErrorRate, Current: 8, Target: 1,
		Severity: models.SeverityCritical,
	}})

	assert.True(t, cfg.RetryEnabled)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.True(t, cfg.CircuitBreaker)
	assert.Equal(t, models.CachePolicyStandard, cfg.CachePolicy)
}

func TestApplyIssuesPersistsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "optimization-config.json")
	a := NewApplier(scaling.NewRegistry(nil), path, nil)

	a.ApplyIssues([]models.Issue{{
		ServiceID: "web", Kind: models.IssueLatency, Current: 900, Target: 500,
		Severity: models.SeverityWarning,
	}})

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var persisted models.OptimizationConfig
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Equal(t, models.CachePolicyAggressive, persisted.CachePolicy)
	assert.False(t, persisted.UpdatedAt.IsZero())
}

func TestApplyDecisionAcceptance(t *testing.T) {
	a := NewApplier(scaling.NewRegistry(nil), "", nil)

	svc := models.Service{ID: "api", Provider: "railway"}
	a.ApplyDecision(context.Background(), svc, testDecision())

	assert.Empty(t, a.Mismatches())
}

func TestApplyDecisionAdapterErrorKeepsEvent(t *testing.T) {
	registry := scaling.NewRegistry(nil)
	registry.Register(&failingAdapter{name: "railway", err: errors.New("connection refused")})
	a := NewApplier(registry, "", nil)

	svc := models.Service{ID: "api", Provider: "railway"}
	a.ApplyDecision(context.Background(), svc, testDecision())

	mismatches := a.Mismatches()
	require.Len(t, mismatches, 1)
	assert.Equal(t, "event-1", mismatches[0].EventID)
	assert.Contains(t, mismatches[0].Detail, "adapter error")
}

func TestApplyDecisionDeclineRecordsMismatch(t *testing.T) {
	registry := scaling.NewRegistry(nil)
	registry.Register(&failingAdapter{name: "netlify", decline: true})
	a := NewApplier(registry, "", nil)

	svc := models.Service{ID: "web", Provider: "netlify"}
	a.ApplyDecision(context.Background(), svc, testDecision())

	mismatches := a.Mismatches()
	require.Len(t, mismatches, 1)
	assert.Contains(t, mismatches[0].Detail, "quota exceeded")
}

func TestApplyDecisionNoneIsIgnored(t *testing.T) {
	a := NewApplier(scaling.NewRegistry(nil), "", nil)

	svc := models.Service{ID: "api", Provider: "railway"}
	a.ApplyDecision(context.Background(), svc, scaling.Decision{
		ServiceID: "api",
		Action:    models.ScaleNone,
	})

	assert.Empty(t, a.Mismatches())
}

func TestPeakHourHookReceivesConfig(t *testing.T) {
	a := NewApplier(scaling.NewRegistry(nil), "", nil)

	var called bool
	a.PeakHourHook = func(_ time.Time, cfg *models.OptimizationConfig) {
		called = true
		assert.NotNil(t, cfg)
	}

	a.ApplyIssues(nil)
	assert.True(t, called)
}
