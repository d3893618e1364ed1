package models

import "time"

// CachePolicy describes the caching posture applied to a service.
type CachePolicy string

const (
	CachePolicyStandard   CachePolicy = "standard"
	CachePolicyAggressive CachePolicy = "aggressive"
)

// OptimizationConfig is the remediation configuration maintained by the
// applier. It is persisted whenever an issue changes it.
type OptimizationConfig struct {
	CachePolicy        CachePolicy `json:"cache_policy"`
	StaticAssetTTLSecs int         `json:"static_asset_ttl_secs"`
	CompressionEnabled bool        `json:"compression_enabled"`
	BrotliEnabled      bool        `json:"brotli_enabled"`
	RetryEnabled       bool        `json:"retry_enabled"`
	MaxRetries         int         `json:"max_retries"`
	CircuitBreaker     bool        `json:"circuit_breaker"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// DefaultOptimizationConfig returns the baseline remediation posture.
func DefaultOptimizationConfig() OptimizationConfig {
	return OptimizationConfig{
		CachePolicy:        CachePolicyStandard,
		StaticAssetTTLSecs: 3600,
		CompressionEnabled: true,
	}
}

// ServiceReport is the per-service section of an optimization report.
type ServiceReport struct {
	ServiceID string              `json:"service_id"`
	Snapshot  PerformanceSnapshot `json:"snapshot"`
	Issues    []Issue             `json:"issues,omitempty"`
	Scaling   ScalingState        `json:"scaling"`
}

// OptimizationReport is the aggregate artifact written at loop shutdown
// (and optionally per tick). Reports are external evidence: they are
// never read back into live state.
type OptimizationReport struct {
	ID         string              `json:"id"`
	Timestamp  time.Time           `json:"timestamp"`
	Ticks      int                 `json:"ticks"`
	Services   []ServiceReport     `json:"services"`
	Config     OptimizationConfig  `json:"config"`
	Mismatches []ExecutionMismatch `json:"mismatches,omitempty"`
}
