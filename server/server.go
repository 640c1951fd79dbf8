// Package server exposes pipeline evaluation over HTTP using fiber.
package server

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/meikuraledutech/pipeline"
	"github.com/meikuraledutech/pipeline/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies collects what the HTTP layer needs.
// Store is optional; without it no history routes are mounted.
type Dependencies struct {
	Logger    *slog.Logger
	Evaluator pipeline.Evaluator
	Store     pipeline.Store
	HTTP      config.HTTPConfig
}

// Server represents the HTTP server lifecycle.
type Server struct {
	app    *fiber.App
	logger *slog.Logger
	cfg    config.HTTPConfig
}

// New constructs a Server with all routes and middleware installed.
func New(deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	app := fiber.New(fiber.Config{
		AppName:      "pipeline",
		BodyLimit:    deps.HTTP.BodyLimit,
		ReadTimeout:  deps.HTTP.ReadTimeout,
		WriteTimeout: deps.HTTP.WriteTimeout,
		IdleTimeout:  deps.HTTP.IdleTimeout,
		ErrorHandler: errorHandler,
	})

	app.Use(requestLogger(logger))
	app.Use(recoverer.New())
	if len(deps.HTTP.AllowedOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     deps.HTTP.AllowedOrigins,
			AllowCredentials: deps.HTTP.AllowCredentials,
			AllowMethods: []string{
				fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch,
				fiber.MethodDelete, fiber.MethodHead, fiber.MethodOptions,
			},
		}))
	}

	h := &handlers{
		logger:    logger,
		evaluator: deps.Evaluator,
		store:     deps.Store,
	}

	// ── Pipelines ─────────────────────────────────────────────────────
	app.Get("/", h.ping)
	app.Post("/pipelines/parse", h.parsePipeline)
	app.Get("/healthz", h.health)

	// ── Evaluation history ────────────────────────────────────────────
	if deps.Store != nil {
		app.Get("/evaluations", h.listEvaluations)
		app.Get("/evaluations/:id", h.getEvaluation)
		app.Delete("/evaluations/:id", h.deleteEvaluation)
	}

	if deps.HTTP.MetricsEnabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	return &Server{app: app, logger: logger, cfg: deps.HTTP}
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start listens for HTTP traffic until Shutdown is called.
func (s *Server) Start() error {
	addr := s.cfg.Addr()
	s.logger.Info("starting http server", "addr", addr)
	return s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown gracefully terminates all active connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.app.ShutdownWithContext(ctx)
}
