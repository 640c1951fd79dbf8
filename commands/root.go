package commands

import (
	"context"
	"fmt"

	"github.com/meikuraledutech/pipeline"
	"github.com/meikuraledutech/pipeline/config"
	"github.com/meikuraledutech/pipeline/memory"
	"github.com/meikuraledutech/pipeline/postgres"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "pipeline",
	Short:        "Pipeline graph evaluator",
	Long:         `Evaluate node/edge pipelines for cycles, connectivity and node type inventory.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// openStore returns the evaluation history store selected by cfg.
// A nil store means history is disabled. The returned func must always be called.
func openStore(ctx context.Context, cfg config.DatabaseConfig) (pipeline.Store, func(), error) {
	if cfg.URL != "" {
		pool, err := postgres.Connect(ctx, cfg.URL)
		if err != nil {
			return nil, func() {}, fmt.Errorf("connect: %w", err)
		}
		return postgres.New(pool), pool.Close, nil
	}
	if cfg.HistoryEnabled {
		return memory.New(), func() {}, nil
	}
	return nil, func() {}, nil
}
