package models

import "time"

// BuildTarget describes one independently-versioned build unit.
// Targets are supplied by the manifest and are immutable for the
// lifetime of a build invocation; identity is the ID.
type BuildTarget struct {
	ID              string   `json:"id" yaml:"id"`
	SourceDirectory string   `json:"source_directory" yaml:"source_directory"`
	ChecksumInputs  []string `json:"checksum_inputs" yaml:"checksum_inputs"`
	BuildCommand    string   `json:"build_command" yaml:"build_command"`
	CacheDirectory  string   `json:"cache_directory" yaml:"cache_directory"`
}

// CacheEntry is the persisted fingerprint record for a build target.
// It is written only after a successful build.
type CacheEntry struct {
	TargetID            string    `json:"target_id"`
	Hash                string    `json:"hash"`
	Timestamp           time.Time `json:"timestamp"`
	LastBuildDurationMs int64     `json:"last_build_duration_ms"`
}

// PlanEntry is the rebuild verdict for one target.
type PlanEntry struct {
	Rebuild bool   `json:"rebuild"`
	Reason  string `json:"reason"`
}

// BuildResult captures the outcome of one target in one invocation.
// It is never mutated after creation.
type BuildResult struct {
	TargetID    string `json:"target_id"`
	Success     bool   `json:"success"`
	DurationMs  int64  `json:"duration_ms"`
	CacheHit    bool   `json:"cache_hit"`
	ErrorDetail string `json:"error_detail,omitempty"`
}

// BuildReport aggregates the results of one build invocation.
type BuildReport struct {
	ID                 string        `json:"id"`
	Timestamp          time.Time     `json:"timestamp"`
	Results            []BuildResult `json:"results"`
	TotalWallMs        int64         `json:"total_wall_ms"`
	CacheHits          int           `json:"cache_hits"`
	Failures           int           `json:"failures"`
	ParallelEfficiency float64       `json:"parallel_efficiency"`
}

// Failed reports whether any target in the invocation failed to build.
func (r *BuildReport) Failed() bool {
	return r.Failures > 0
}
