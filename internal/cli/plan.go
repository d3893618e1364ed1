package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/goksnair/resume-builder-ai-sub005/internal/checksum"
	"github.com/goksnair/resume-builder-ai-sub005/internal/orchestrator"
)

var planCmd = &cobra.Command{
	Use:          "plan",
	Short:        "Show which targets would be rebuilt, without building",
	RunE:         runPlan,
	SilenceUsage: true,
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, manifest, log, err := setup(cmd)
	if err != nil {
		return err
	}

	if len(manifest.Targets) == 0 {
		return fmt.Errorf("manifest declares no build targets")
	}

	targets := withCacheDir(manifest.Targets, cfg.CacheDir)
	cache := checksum.NewCache(
		checksum.WithMaxAge(cfg.MaxCacheAge),
		checksum.WithLogger(log.Logger),
	)
	orch := orchestrator.New(cache, orchestrator.NewShellRunner(), log.Logger)

	plan := orch.Plan(targets)

	ids := make([]string, 0, len(plan))
	for id := range plan {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	type planLine struct {
		TargetID string `json:"target_id"`
		Rebuild  bool   `json:"rebuild"`
		Reason   string `json:"reason"`
	}

	lines := make([]planLine, 0, len(ids))
	for _, id := range ids {
		entry := plan[id]
		lines = append(lines, planLine{TargetID: id, Rebuild: entry.Rebuild, Reason: entry.Reason})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(lines)
}
