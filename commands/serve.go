package commands

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/meikuraledutech/pipeline"
	"github.com/meikuraledutech/pipeline/config"
	"github.com/meikuraledutech/pipeline/logging"
	"github.com/meikuraledutech/pipeline/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pipeline evaluation API",
	Long: `Start the HTTP API.

Configuration is read from --config and the environment, for example:
  SERVER_PORT=8000 LOG_FORMAT=json pipeline serve
  DATABASE_URL=postgres://localhost/pipeline pipeline serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer closeStore()
	if store != nil {
		if err := store.CreateSchema(ctx); err != nil {
			return err
		}
		logger.Info("evaluation history enabled", "postgres", cfg.Database.URL != "")
	}

	srv := server.New(server.Dependencies{
		Logger: logger,
		Evaluator: pipeline.Evaluator{
			MaxNodes: cfg.Limits.MaxNodes,
			MaxEdges: cfg.Limits.MaxEdges,
		},
		Store: store,
		HTTP:  cfg.HTTP,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
