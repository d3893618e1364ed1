// Package analyzer reduces rolling metric windows into summary
// statistics and classifies deviations from performance targets.
package analyzer

import (
	"fmt"
	"log/slog"

	"github.com/goksnair/resume-builder-ai-sub005/internal/models"
)

const (
	// latencyWindow is how many recent samples feed the average latency.
	latencyWindow = 20
	// errorWindow is how many recent samples feed the error rate.
	errorWindow = 10
	// trendHalf is the size of each half used for trend detection.
	trendHalf = 5
	// trendBand is the relative change below which the trend is stable.
	trendBand = 0.10
)

// Analyzer computes performance snapshots from rolling windows.
type Analyzer struct {
	logger *slog.Logger
}

// New creates an Analyzer.
func New(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

// Analyze reduces a window's samples (oldest first) into a snapshot.
func (a *Analyzer) Analyze(serviceID string, samples []models.MetricSample) models.PerformanceSnapshot {
	snapshot := models.PerformanceSnapshot{
		ServiceID:   serviceID,
		Trend:       models.TrendStable,
		SampleCount: len(samples),
	}
	if len(samples) == 0 {
		return snapshot
	}

	snapshot.AvgLatencyMs = meanLatency(tail(samples, latencyWindow))

	recent := tail(samples, errorWindow)
	var failed int
	for _, s := range recent {
		if !s.Success {
			failed++
		}
	}
	snapshot.ErrorRatePct = float64(failed) / float64(len(recent)) * 100

	snapshot.Trend = trend(samples)

	return snapshot
}

// trend compares the mean latency of the most recent samples against
// the samples immediately preceding them. Halves with fewer than 2
// data points default to stable.
func trend(samples []models.MetricSample) models.Trend {
	recent := tail(samples, 2*trendHalf)
	if len(recent) <= trendHalf {
		return models.TrendStable
	}

	head := recent[len(recent)-trendHalf:]
	prev := recent[:len(recent)-trendHalf]
	if len(head) < 2 || len(prev) < 2 {
		return models.TrendStable
	}

	prevMean := meanLatency(prev)
	if prevMean == 0 {
		return models.TrendStable
	}

	change := (meanLatency(head) - prevMean) / prevMean
	switch {
	case change > trendBand:
		return models.TrendDegrading
	case change < -trendBand:
		return models.TrendImproving
	default:
		return models.TrendStable
	}
}

// ClassifyIssues compares a snapshot against the service's performance
// targets. Latency beyond twice its target is critical; an error rate
// above target is always critical.
func (a *Analyzer) ClassifyIssues(snapshot models.PerformanceSnapshot, targets models.PerformanceTargets) []models.Issue {
	var issues []models.Issue

	if targets.ResponseTimeMs > 0 && snapshot.AvgLatencyMs > targets.ResponseTimeMs {
		severity := models.SeverityWarning
		if snapshot.AvgLatencyMs > 2*targets.ResponseTimeMs {
			severity = models.SeverityCritical
		}
		issues = append(issues, models.Issue{
			ServiceID: snapshot.ServiceID,
			Kind:      models.IssueLatency,
			Current:   snapshot.AvgLatencyMs,
			Target:    targets.ResponseTimeMs,
			Severity:  severity,
		})
	}

	if snapshot.ErrorRatePct > targets.ErrorRatePct {
		issues = append(issues, models.Issue{
			ServiceID: snapshot.ServiceID,
			Kind:      models.IssueErrorRate,
			Current:   snapshot.ErrorRatePct,
			Target:    targets.ErrorRatePct,
			Severity:  models.SeverityCritical,
		})
	}

	if len(issues) > 0 {
		a.logger.Warn("performance issues detected",
			"service_id", snapshot.ServiceID,
			"issues", fmt.Sprintf("%d", len(issues)),
			"avg_latency_ms", snapshot.AvgLatencyMs,
			"error_rate_pct", snapshot.ErrorRatePct,
		)
	}

	return issues
}

func tail(samples []models.MetricSample, n int) []models.MetricSample {
	if len(samples) <= n {
		return samples
	}
	return samples[len(samples)-n:]
}

func meanLatency(samples []models.MetricSample) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s.LatencyMs
	}
	return sum / float64(len(samples))
}
