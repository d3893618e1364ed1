// Package orchestrator runs the one-shot build pipeline: checksum,
// decide, build, cache-write, report.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goksnair/resume-builder-ai-sub005/internal/checksum"
	"github.com/goksnair/resume-builder-ai-sub005/internal/models"
)

// Orchestrator decides which build targets need rebuilding and executes
// the required builds.
type Orchestrator struct {
	cache  checksum.FingerprintCache
	runner CommandRunner
	logger *slog.Logger
}

// New creates an Orchestrator.
func New(cache checksum.FingerprintCache, runner CommandRunner, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		cache:  cache,
		runner: runner,
		logger: logger,
	}
}

// Plan computes the rebuild verdict for every target.
func (o *Orchestrator) Plan(targets []models.BuildTarget) map[string]models.PlanEntry {
	plan := make(map[string]models.PlanEntry, len(targets))

	for _, target := range targets {
		if o.cache.IsCacheValid(target) {
			plan[target.ID] = models.PlanEntry{Rebuild: false, Reason: "fingerprint matches cached build"}
			continue
		}
		plan[target.ID] = models.PlanEntry{Rebuild: true, Reason: "fingerprint changed or no valid cache entry"}
	}

	return plan
}

// Execute runs the builds required by the plan. In parallel mode every
// rebuilding target runs as an independent unit of work: a failure in
// one never cancels or blocks a sibling. The returned slice always has
// one result per input target, in declaration order.
func (o *Orchestrator) Execute(ctx context.Context, targets []models.BuildTarget, plan map[string]models.PlanEntry, parallel bool) []models.BuildResult {
	results := make([]models.BuildResult, len(targets))

	var rebuilds int
	for _, target := range targets {
		if plan[target.ID].Rebuild {
			rebuilds++
		}
	}

	if parallel && rebuilds > 1 {
		var wg sync.WaitGroup
		for i, target := range targets {
			if !plan[target.ID].Rebuild {
				results[i] = o.cacheHitResult(target)
				continue
			}
			wg.Add(1)
			go func(i int, target models.BuildTarget) {
				defer wg.Done()
				results[i] = o.buildOne(ctx, target)
			}(i, target)
		}
		wg.Wait()
		return results
	}

	for i, target := range targets {
		if !plan[target.ID].Rebuild {
			results[i] = o.cacheHitResult(target)
			continue
		}
		results[i] = o.buildOne(ctx, target)
	}

	return results
}

func (o *Orchestrator) cacheHitResult(target models.BuildTarget) models.BuildResult {
	o.logger.Info("skipping build, cache hit", "target_id", target.ID)
	return models.BuildResult{
		TargetID: target.ID,
		Success:  true,
		CacheHit: true,
	}
}

// buildOne runs a single target's build command and, on success, commits
// a fresh cache entry. On failure the stale or absent entry is left
// untouched so the target is still detected as needing a rebuild.
func (o *Orchestrator) buildOne(ctx context.Context, target models.BuildTarget) models.BuildResult {
	o.logger.Info("building target", "target_id", target.ID, "command", target.BuildCommand)

	start := time.Now()
	output, err := o.runner.Run(ctx, target.SourceDirectory, target.BuildCommand)
	elapsed := time.Since(start)

	result := models.BuildResult{
		TargetID:   target.ID,
		DurationMs: elapsed.Milliseconds(),
	}

	if err != nil {
		result.Success = false
		result.ErrorDetail = fmt.Sprintf("%v: %s", err, output)
		o.logger.Error("build failed",
			"target_id", target.ID,
			"duration_ms", result.DurationMs,
			"error", err,
		)
		return result
	}

	result.Success = true

	// Fingerprint after the build so files produced during it are
	// reflected in the committed entry and the next plan is a hit.
	hash, err := o.cache.ComputeFingerprint(target)
	if err != nil {
		o.logger.Warn("fingerprint after build failed, cache entry not written",
			"target_id", target.ID, "error", err)
		return result
	}
	if err := o.cache.Commit(target, hash, elapsed); err != nil {
		o.logger.Warn("cache commit failed, next invocation will rebuild",
			"target_id", target.ID, "error", err)
	}

	o.logger.Info("build succeeded", "target_id", target.ID, "duration_ms", result.DurationMs)
	return result
}

// Report aggregates the results of one invocation. The parallel
// efficiency ratio is the sum of individual build durations over the
// observed wall time; a ratio above 1 indicates successful overlap.
func (o *Orchestrator) Report(results []models.BuildResult, wall time.Duration) models.BuildReport {
	report := models.BuildReport{
		ID:          uuid.New().String(),
		Timestamp:   time.Now().UTC(),
		Results:     results,
		TotalWallMs: wall.Milliseconds(),
	}

	var sumMs int64
	for _, r := range results {
		if r.CacheHit {
			report.CacheHits++
		}
		if !r.Success {
			report.Failures++
		}
		sumMs += r.DurationMs
	}

	if report.TotalWallMs > 0 {
		report.ParallelEfficiency = float64(sumMs) / float64(report.TotalWallMs)
	}

	return report
}
