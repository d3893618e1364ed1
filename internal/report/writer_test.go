package report

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goksnair/resume-builder-ai-sub005/internal/models"
)

func TestWriteBuildReportRoundTrips(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil)

	in := models.BuildReport{
		ID:        "report-1",
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Results: []models.BuildResult{
			{TargetID: "frontend", Success: true, DurationMs: 1500},
			{TargetID: "backend", Success: false, DurationMs: 300, ErrorDetail: "exit status 1"},
		},
		TotalWallMs:        1600,
		Failures:           1,
		ParallelEfficiency: 1.125,
	}

	path, err := w.WriteBuildReport(in)
	require.NoError(t, err)
	assert.Contains(t, path, "build-report-2025-06-01")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out models.BuildReport
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.Results, out.Results)
	assert.Equal(t, in.ParallelEfficiency, out.ParallelEfficiency)
}

func TestWriteNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil)

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	first, err := w.WriteOptimizationReport(models.OptimizationReport{ID: "a", Timestamp: ts})
	require.NoError(t, err)
	second, err := w.WriteOptimizationReport(models.OptimizationReport{ID: "b", Timestamp: ts})
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
