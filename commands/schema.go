package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/meikuraledutech/pipeline"
	"github.com/meikuraledutech/pipeline/config"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Manage the evaluation history schema",
}

var schemaCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the evaluation history tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSchema(cmd, true)
	},
}

var schemaDropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop the evaluation history tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSchema(cmd, false)
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.AddCommand(schemaCreateCmd)
	schemaCmd.AddCommand(schemaDropCmd)
}

func runSchema(cmd *cobra.Command, create bool) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL is not set")
	}

	store, closeStore, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer closeStore()

	return applySchema(ctx, cmd.OutOrStdout(), store, create)
}

// applySchema creates or drops the history schema of store and reports
// the result on out.
func applySchema(ctx context.Context, out io.Writer, store pipeline.Store, create bool) error {
	if create {
		if err := store.CreateSchema(ctx); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
		fmt.Fprintln(out, "schema created")
		return nil
	}
	if err := store.DropSchema(ctx); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	fmt.Fprintln(out, "schema dropped")
	return nil
}
