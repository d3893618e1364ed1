// Package loop runs the cooperative monitoring loop: collect, analyze,
// decide, apply, persist, once per interval per service, for the
// lifetime of the process.
package loop

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goksnair/resume-builder-ai-sub005/internal/analyzer"
	"github.com/goksnair/resume-builder-ai-sub005/internal/metrics"
	"github.com/goksnair/resume-builder-ai-sub005/internal/models"
	"github.com/goksnair/resume-builder-ai-sub005/internal/optimizer"
	"github.com/goksnair/resume-builder-ai-sub005/internal/report"
	"github.com/goksnair/resume-builder-ai-sub005/internal/scaling"
	"github.com/goksnair/resume-builder-ai-sub005/internal/store"
	"github.com/goksnair/resume-builder-ai-sub005/pkg/logger"
)

// DefaultInterval is the sleep between ticks when none is configured.
const DefaultInterval = 60 * time.Second

// Deps are the collaborators the scheduler drives each tick.
type Deps struct {
	Services  []models.Service
	Collector *metrics.Collector
	Analyzer  *analyzer.Analyzer
	Engine    *scaling.Engine
	Applier   *optimizer.Applier
	Reports   *report.Writer
	// History is optional; nil disables archiving.
	History store.Store
}

// Scheduler is the top-level control loop. No two ticks overlap: a slow
// tick simply delays the next one.
type Scheduler struct {
	deps           Deps
	clock          Clock
	interval       time.Duration
	sampleSize     int
	reportEachTick bool
	logger         *slog.Logger

	mu        sync.Mutex
	running   bool
	stopCh    chan struct{}
	doneCh    chan struct{}
	ticks     int
	snapshots map[string]models.PerformanceSnapshot
	issues    map[string][]models.Issue
}

// Option is a functional option for configuring Scheduler.
type Option func(*Scheduler)

// WithInterval sets the inter-tick sleep.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		s.interval = d
	}
}

// WithClock injects a clock, letting tests drive ticks without delays.
func WithClock(clock Clock) Option {
	return func(s *Scheduler) {
		s.clock = clock
	}
}

// WithSampleSize sets the probes per service per tick.
func WithSampleSize(n int) Option {
	return func(s *Scheduler) {
		s.sampleSize = n
	}
}

// WithReportEachTick persists an optimization report after every tick
// in addition to the final one.
func WithReportEachTick(enabled bool) Option {
	return func(s *Scheduler) {
		s.reportEachTick = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// New creates a Scheduler.
func New(deps Deps, opts ...Option) *Scheduler {
	s := &Scheduler{
		deps:      deps,
		clock:     NewRealClock(),
		interval:  DefaultInterval,
		logger:    slog.Default(),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
		snapshots: make(map[string]models.PerformanceSnapshot),
		issues:    make(map[string][]models.Issue),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes ticks until the context is cancelled or Stop is called,
// then writes the final optimization report and returns. The in-flight
// phase is always allowed to finish; no partial report is persisted
// mid-tick.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("control loop already running")
	}
	s.running = true
	s.mu.Unlock()

	defer close(s.doneCh)

	s.logger.Info("starting control loop",
		"services", len(s.deps.Services),
		"interval", s.interval,
	)

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("control loop stopped by context")
			return s.finish(ctx)
		case <-s.stopCh:
			s.logger.Info("control loop stopped")
			return s.finish(ctx)
		case <-ticker.C():
			s.tick(ctx)
		}
	}
}

// Stop asks the loop to exit after its in-flight phase. Safe to call
// before Run and more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
}

// Name implements the shutdown component interface.
func (s *Scheduler) Name() string {
	return "control-loop"
}

// Shutdown stops the loop and waits for the final report.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.Stop()
	select {
	case <-s.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// tick runs the five-phase sequence for every service sequentially.
// A failure for one service is logged and never blocks the others.
func (s *Scheduler) tick(ctx context.Context) {
	tickID := uuid.New().String()
	ctx = logger.ContextWithTickID(ctx, tickID)

	s.mu.Lock()
	s.ticks++
	tickNum := s.ticks
	s.mu.Unlock()

	s.logger.Debug("tick started", "tick_id", tickID, "tick", tickNum)

	for _, svc := range s.deps.Services {
		s.tickService(ctx, svc)
	}

	if s.reportEachTick {
		s.persist(ctx, s.buildReport())
	}
}

func (s *Scheduler) tickService(ctx context.Context, svc models.Service) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("tick failed for service",
				"service_id", svc.ID, "panic", fmt.Sprintf("%v", r))
		}
	}()

	// Collect.
	s.deps.Collector.Collect(ctx, svc, s.sampleSize)

	// Analyze.
	window := s.deps.Collector.Window(svc.ID).Snapshot()
	snapshot := s.deps.Analyzer.Analyze(svc.ID, window)
	issues := s.deps.Analyzer.ClassifyIssues(snapshot, svc.Targets)

	s.mu.Lock()
	s.snapshots[svc.ID] = snapshot
	s.issues[svc.ID] = issues
	s.mu.Unlock()

	// Decide.
	decision := s.deps.Engine.Decide(svc, snapshot)

	// Apply.
	s.deps.Applier.ApplyIssues(issues)
	s.deps.Applier.ApplyDecision(ctx, svc, decision)

	// Persist the event to the history archive when one is configured.
	if s.deps.History != nil && decision.Event != nil {
		if err := s.deps.History.Events().Record(ctx, *decision.Event); err != nil {
			s.logger.Warn("archiving scaling event failed",
				"service_id", svc.ID, "error", err)
		}
	}
}

// finish writes the final optimization report. The shutdown context may
// already be cancelled, so archiving uses a short independent deadline.
func (s *Scheduler) finish(ctx context.Context) error {
	rep := s.buildReport()

	if _, err := s.deps.Reports.WriteOptimizationReport(rep); err != nil {
		return fmt.Errorf("writing final optimization report: %w", err)
	}

	if s.deps.History != nil {
		archiveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.deps.History.Reports().Record(archiveCtx, rep); err != nil {
			s.logger.Warn("archiving final report failed", "error", err)
		}
	}

	return nil
}

func (s *Scheduler) persist(ctx context.Context, rep models.OptimizationReport) {
	if _, err := s.deps.Reports.WriteOptimizationReport(rep); err != nil {
		s.logger.Warn("writing tick report failed", "error", err)
	}
	if s.deps.History != nil {
		if err := s.deps.History.Reports().Record(ctx, rep); err != nil {
			s.logger.Warn("archiving tick report failed", "error", err)
		}
	}
}

// buildReport assembles the aggregate report from current state.
func (s *Scheduler) buildReport() models.OptimizationReport {
	s.mu.Lock()
	ticks := s.ticks
	snapshots := make(map[string]models.PerformanceSnapshot, len(s.snapshots))
	for k, v := range s.snapshots {
		snapshots[k] = v
	}
	issues := make(map[string][]models.Issue, len(s.issues))
	for k, v := range s.issues {
		issues[k] = v
	}
	s.mu.Unlock()

	rep := models.OptimizationReport{
		ID:         uuid.New().String(),
		Timestamp:  s.clock.Now().UTC(),
		Ticks:      ticks,
		Config:     s.deps.Applier.Config(),
		Mismatches: s.deps.Applier.Mismatches(),
	}

	for _, svc := range s.deps.Services {
		entry := models.ServiceReport{
			ServiceID: svc.ID,
			Snapshot:  snapshots[svc.ID],
			Issues:    issues[svc.ID],
		}
		if state, ok := s.deps.Engine.State(svc.ID); ok {
			entry.Scaling = *state
		}
		rep.Services = append(rep.Services, entry)
	}

	return rep
}

// Snapshots returns the latest per-service snapshots.
func (s *Scheduler) Snapshots() map[string]models.PerformanceSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]models.PerformanceSnapshot, len(s.snapshots))
	for k, v := range s.snapshots {
		out[k] = v
	}
	return out
}

// Ticks returns the number of completed ticks.
func (s *Scheduler) Ticks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}
