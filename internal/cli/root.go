// Package cli implements the optimizer command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goksnair/resume-builder-ai-sub005/internal/status"
	"github.com/goksnair/resume-builder-ai-sub005/pkg/config"
	"github.com/goksnair/resume-builder-ai-sub005/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:          "optimizer",
	Short:        "Adaptive build and performance optimizer",
	Long:         `Checksum-based build orchestration plus a control loop that probes service health, analyzes performance and applies scaling and optimization decisions.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = status.Version
	rootCmd.PersistentFlags().StringP("manifest", "m", "optimizer.yaml", "Path to the target and service manifest")
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(monitorCmd)

	viper.SetDefault("manifest", "optimizer.yaml")
	viper.SetEnvPrefix("OPTIMIZER")
	viper.AutomaticEnv()
}

// setup loads environment configuration, the manifest from the bound
// --manifest flag, and a logger at the configured level.
func setup(cmd *cobra.Command) (*config.Config, *config.Manifest, *logger.Logger, error) {
	viper.BindPFlag("manifest", cmd.Flags().Lookup("manifest"))

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	log := logger.New(logger.ParseLevel(cfg.LogLevel), cfg.LogJSON)

	manifest, err := config.LoadManifest(viper.GetString("manifest"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading manifest: %w", err)
	}

	return cfg, manifest, log, nil
}
