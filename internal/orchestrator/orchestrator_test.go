package orchestrator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goksnair/resume-builder-ai-sub005/internal/checksum"
	"github.com/goksnair/resume-builder-ai-sub005/internal/models"
)

// fakeRunner simulates build commands without shelling out.
type fakeRunner struct {
	mu       sync.Mutex
	failures map[string]bool
	delay    time.Duration
	calls    []string
}

func (f *fakeRunner) Run(_ context.Context, _ string, command string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, command)
	fail := f.failures[command]
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if fail {
		return "compile error in module", errors.New("exit status 1")
	}
	return "done", nil
}

func (f *fakeRunner) commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func newTarget(t *testing.T, id string) models.BuildTarget {
	t.Helper()
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "package.json"), []byte(`{"name":"`+id+`"}`), 0o644))
	return models.BuildTarget{
		ID:              id,
		SourceDirectory: src,
		ChecksumInputs:  []string{"package.json"},
		BuildCommand:    "build " + id,
		CacheDirectory:  t.TempDir(),
	}
}

func TestPlanWithoutCacheMarksAllForRebuild(t *testing.T) {
	targets := []models.BuildTarget{newTarget(t, "frontend"), newTarget(t, "backend")}
	o := New(checksum.NewCache(), &fakeRunner{}, nil)

	plan := o.Plan(targets)

	require.Len(t, plan, 2)
	assert.True(t, plan["frontend"].Rebuild)
	assert.True(t, plan["backend"].Rebuild)
}

func TestParallelFailureIsolation(t *testing.T) {
	targets := []models.BuildTarget{
		newTarget(t, "a"),
		newTarget(t, "b"),
		newTarget(t, "c"),
	}
	runner := &fakeRunner{failures: map[string]bool{"build b": true}}
	o := New(checksum.NewCache(), runner, nil)

	plan := o.Plan(targets)
	results := o.Execute(context.Background(), targets, plan, true)

	require.Len(t, results, 3)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Contains(t, results[1].ErrorDetail, "compile error")
	assert.True(t, results[2].Success)
}

func TestSequentialExecutionOrder(t *testing.T) {
	targets := []models.BuildTarget{
		newTarget(t, "a"),
		newTarget(t, "b"),
		newTarget(t, "c"),
	}
	runner := &fakeRunner{}
	o := New(checksum.NewCache(), runner, nil)

	plan := o.Plan(targets)
	o.Execute(context.Background(), targets, plan, false)

	assert.Equal(t, []string{"build a", "build b", "build c"}, runner.commands())
}

func TestFailedBuildLeavesCacheUntouched(t *testing.T) {
	target := newTarget(t, "flaky")
	cache := checksum.NewCache()
	runner := &fakeRunner{failures: map[string]bool{"build flaky": true}}
	o := New(cache, runner, nil)

	plan := o.Plan([]models.BuildTarget{target})
	o.Execute(context.Background(), []models.BuildTarget{target}, plan, false)

	// A later invocation must still see the target as needing a rebuild.
	plan = o.Plan([]models.BuildTarget{target})
	assert.True(t, plan["flaky"].Rebuild)

	_, err := cache.Load(target)
	assert.ErrorIs(t, err, checksum.ErrEntryNotFound)
}

func TestEndToEndBuildThenSkip(t *testing.T) {
	targets := []models.BuildTarget{newTarget(t, "frontend"), newTarget(t, "backend")}
	cache := checksum.NewCache()
	o := New(cache, &fakeRunner{}, nil)

	plan := o.Plan(targets)
	assert.True(t, plan["frontend"].Rebuild)
	assert.True(t, plan["backend"].Rebuild)

	results := o.Execute(context.Background(), targets, plan, true)
	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.True(t, results[1].Success)

	// Second invocation with no source changes is a full cache hit.
	plan = o.Plan(targets)
	assert.False(t, plan["frontend"].Rebuild)
	assert.False(t, plan["backend"].Rebuild)

	results = o.Execute(context.Background(), targets, plan, true)
	require.Len(t, results, 2)
	assert.True(t, results[0].CacheHit)
	assert.True(t, results[1].CacheHit)
}

func TestShellRunnerCapturesOutput(t *testing.T) {
	runner := NewShellRunner()

	out, err := runner.Run(context.Background(), t.TempDir(), "echo built ok")
	require.NoError(t, err)
	assert.Equal(t, "built ok", out)

	out, err = runner.Run(context.Background(), t.TempDir(), "echo broken >&2; exit 3")
	require.Error(t, err)
	assert.Equal(t, "broken", out)
}

func TestReportAggregation(t *testing.T) {
	o := New(checksum.NewCache(), &fakeRunner{}, nil)

	results := []models.BuildResult{
		{TargetID: "a", Success: true, DurationMs: 400},
		{TargetID: "b", Success: false, DurationMs: 200},
		{TargetID: "c", Success: true, CacheHit: true},
	}

	report := o.Report(results, 300*time.Millisecond)

	assert.Equal(t, int64(300), report.TotalWallMs)
	assert.Equal(t, 1, report.CacheHits)
	assert.Equal(t, 1, report.Failures)
	assert.True(t, report.Failed())
	assert.InDelta(t, 2.0, report.ParallelEfficiency, 0.001)
	assert.NotEmpty(t, report.ID)
}
