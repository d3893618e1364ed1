package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goksnair/resume-builder-ai-sub005/internal/checksum"
	"github.com/goksnair/resume-builder-ai-sub005/internal/models"
	"github.com/goksnair/resume-builder-ai-sub005/internal/orchestrator"
	"github.com/goksnair/resume-builder-ai-sub005/internal/report"
)

var buildCmd = &cobra.Command{
	Use:          "build",
	Short:        "Build all manifest targets, skipping unchanged ones",
	Long:         `Plan rebuilds from source fingerprints, execute the builds that are needed, and write a build report.`,
	RunE:         runBuild,
	SilenceUsage: true,
}

func init() {
	buildCmd.Flags().BoolP("parallel", "p", false, "Build targets that need rebuilding concurrently")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, manifest, log, err := setup(cmd)
	if err != nil {
		return err
	}

	if len(manifest.Targets) == 0 {
		return fmt.Errorf("manifest declares no build targets")
	}

	viper.BindPFlag("parallel", cmd.Flags().Lookup("parallel"))
	parallel := viper.GetBool("parallel")

	targets := withCacheDir(manifest.Targets, cfg.CacheDir)
	cache := checksum.NewCache(
		checksum.WithMaxAge(cfg.MaxCacheAge),
		checksum.WithLogger(log.Logger),
	)
	orch := orchestrator.New(cache, orchestrator.NewShellRunner(), log.Logger)

	plan := orch.Plan(targets)
	start := time.Now()
	results := orch.Execute(cmd.Context(), targets, plan, parallel)
	rep := orch.Report(results, time.Since(start))

	writer := report.NewWriter(cfg.ReportDir, log.Logger)
	if _, err := writer.WriteBuildReport(rep); err != nil {
		log.WithError(err).Warn("writing build report")
	}

	log.Info("build finished",
		"targets", len(targets),
		"cache_hits", rep.CacheHits,
		"failures", rep.Failures,
		"wall_ms", rep.TotalWallMs,
	)

	if rep.Failed() {
		return fmt.Errorf("%d of %d targets failed", rep.Failures, len(targets))
	}

	return nil
}

// withCacheDir fills in the invocation-wide cache directory for targets
// that do not pin their own.
func withCacheDir(targets []models.BuildTarget, dir string) []models.BuildTarget {
	out := make([]models.BuildTarget, len(targets))
	copy(out, targets)

	for i := range out {
		if out[i].CacheDirectory == "" {
			out[i].CacheDirectory = dir
		}
	}

	return out
}
