package models

import "time"

// ServiceKind distinguishes how a deployed service is hosted.
type ServiceKind string

const (
	// ServiceKindStatic is a statically-hosted frontend.
	ServiceKindStatic ServiceKind = "static"
	// ServiceKindAPI is a dynamic backend service.
	ServiceKindAPI ServiceKind = "api"
)

// Service is a monitored deployment, supplied by the manifest.
type Service struct {
	ID       string      `json:"id" yaml:"id"`
	URL      string      `json:"url" yaml:"url"`
	Kind     ServiceKind `json:"kind" yaml:"kind"`
	Provider string      `json:"provider" yaml:"provider"`

	Targets PerformanceTargets `json:"targets" yaml:"targets"`
	Scaling ScalingBounds      `json:"scaling" yaml:"scaling"`
}

// PerformanceTargets are the per-service performance objectives.
type PerformanceTargets struct {
	ResponseTimeMs float64 `json:"response_time_ms" yaml:"response_time_ms"`
	ErrorRatePct   float64 `json:"error_rate_pct" yaml:"error_rate_pct"`
}

// MetricSample is one health-check observation. Failed probes still
// carry a latency value: the elapsed time up to the failure.
type MetricSample struct {
	Timestamp time.Time `json:"timestamp"`
	LatencyMs float64   `json:"latency_ms"`
	Success   bool      `json:"success"`
}

// Trend is the direction a service's latency is moving.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDegrading Trend = "degrading"
)

// PerformanceSnapshot is the per-tick reduction of a service's rolling
// window. It is derived state, recomputed every tick.
type PerformanceSnapshot struct {
	ServiceID    string  `json:"service_id"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
	ErrorRatePct float64 `json:"error_rate_pct"`
	Trend        Trend   `json:"trend"`
	SampleCount  int     `json:"sample_count"`
}

// IssueKind identifies the class of a detected performance issue.
type IssueKind string

const (
	IssueLatency   IssueKind = "latency"
	IssueErrorRate IssueKind = "error_rate"
)

// Severity ranks how far a metric is outside its target.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Issue is one detected deviation from the performance targets.
type Issue struct {
	ServiceID string    `json:"service_id"`
	Kind      IssueKind `json:"kind"`
	Current   float64   `json:"current"`
	Target    float64   `json:"target"`
	Severity  Severity  `json:"severity"`
}
