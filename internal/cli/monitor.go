package cli

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/goksnair/resume-builder-ai-sub005/internal/analyzer"
	"github.com/goksnair/resume-builder-ai-sub005/internal/loop"
	"github.com/goksnair/resume-builder-ai-sub005/internal/metrics"
	"github.com/goksnair/resume-builder-ai-sub005/internal/optimizer"
	"github.com/goksnair/resume-builder-ai-sub005/internal/report"
	"github.com/goksnair/resume-builder-ai-sub005/internal/scaling"
	"github.com/goksnair/resume-builder-ai-sub005/internal/shutdown"
	"github.com/goksnair/resume-builder-ai-sub005/internal/status"
	"github.com/goksnair/resume-builder-ai-sub005/internal/store"
	"github.com/goksnair/resume-builder-ai-sub005/internal/store/postgres"
)

var monitorCmd = &cobra.Command{
	Use:          "monitor",
	Short:        "Run the performance control loop until SIGINT or SIGTERM",
	Long:         `Probe each service's health endpoint on an interval, analyze the samples, decide scaling actions, apply optimizations, and write a final report on shutdown.`,
	RunE:         runMonitor,
	SilenceUsage: true,
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, manifest, log, err := setup(cmd)
	if err != nil {
		return err
	}

	if len(manifest.Services) == 0 {
		return fmt.Errorf("manifest declares no services to monitor")
	}

	collector := metrics.NewCollector(
		metrics.WithHTTPClient(&http.Client{Timeout: cfg.Monitor.ProbeTimeout}),
		metrics.WithSampleSize(cfg.Monitor.SampleSize),
		metrics.WithSampleDelay(cfg.Monitor.SampleDelay),
		metrics.WithWindowCapacity(cfg.Monitor.WindowCapacity),
		metrics.WithCollectorLogger(log.Logger),
	)

	engine := scaling.NewEngine(manifest.Services, log.Logger)
	registry := scaling.NewRegistry(log.Logger)
	applier := optimizer.NewApplier(registry,
		filepath.Join(cfg.ReportDir, "optimization-config.json"), log.Logger)
	writer := report.NewWriter(cfg.ReportDir, log.Logger)

	var history store.Store
	if cfg.DatabaseURL != "" {
		pg, err := postgres.NewPostgresStore(&postgres.Config{DSN: cfg.DatabaseURL}, log.Logger)
		if err != nil {
			return fmt.Errorf("connecting to history store: %w", err)
		}
		history = pg
	}

	sched := loop.New(loop.Deps{
		Services:  manifest.Services,
		Collector: collector,
		Analyzer:  analyzer.New(log.Logger),
		Engine:    engine,
		Applier:   applier,
		Reports:   writer,
		History:   history,
	},
		loop.WithInterval(cfg.Monitor.Interval),
		loop.WithSampleSize(cfg.Monitor.SampleSize),
		loop.WithReportEachTick(cfg.Monitor.ReportEachTick),
		loop.WithLogger(log.Logger),
	)

	coordinator := shutdown.NewCoordinator(
		shutdown.WithTimeout(cfg.ShutdownTimeout),
		shutdown.WithLogger(log.Logger),
	)

	if history != nil {
		coordinator.Register(shutdown.NewCloserComponent("history-store", history))
	}

	if cfg.StatusPort > 0 {
		statusSrv := status.NewServer(cfg.StatusPort, status.Sources{
			Snapshots: sched.Snapshots,
			States:    engine.States,
			Events:    engine.Events,
			Config:    applier.Config,
			Ticks:     sched.Ticks,
		}, log.Logger)

		coordinator.Register(shutdown.NewHTTPServerComponent("status-server", statusSrv.HTTPServer()))

		go func() {
			if err := statusSrv.Start(); err != nil {
				log.WithError(err).Error("status server failed")
			}
		}()

		log.Info("status server listening", "port", cfg.StatusPort)
	}

	coordinator.Register(sched)

	go func() {
		if err := sched.Run(context.Background()); err != nil {
			log.WithError(err).Error("control loop exited with error")
		}
	}()

	log.Info("monitoring started",
		"services", len(manifest.Services),
		"interval", cfg.Monitor.Interval,
	)

	coordinator.WaitForSignal()

	if coordinator.ExitCode() != 0 {
		return fmt.Errorf("shutdown completed with errors")
	}

	return nil
}
