package server

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/meikuraledutech/pipeline"
	"github.com/meikuraledutech/pipeline/metrics"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

type handlers struct {
	logger    *slog.Logger
	evaluator pipeline.Evaluator
	store     pipeline.Store
}

func (h *handlers) ping(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"Ping": "Pong"})
}

func (h *handlers) parsePipeline(c fiber.Ctx) error {
	var req pipeline.Request
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": "invalid body: " + err.Error()})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": err.Error()})
	}

	report, err := h.evaluator.Evaluate(req.Nodes, req.Edges)
	metrics.ObserveEvaluation(report.NumNodes, report.NumEdges, report.IsDAG, err)

	var procErr *pipeline.ProcessingError
	if errors.As(err, &procErr) {
		h.logger.Warn("pipeline evaluation failed", "error", err, "nodes", len(req.Nodes), "edges", len(req.Edges))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": procErr.Error()})
	}
	if err != nil {
		return err
	}

	h.logger.Debug("pipeline evaluated",
		"nodes", report.NumNodes,
		"edges", report.NumEdges,
		"is_dag", report.IsDAG,
		"is_connected", report.IsConnected,
	)

	if h.store != nil {
		if _, err := h.store.RecordEvaluation(c.Context(), report); err != nil {
			h.logger.Error("record evaluation", "error", err)
		}
	}

	return c.JSON(report)
}

func (h *handlers) health(c fiber.Ctx) error {
	if h.store == nil {
		return c.JSON(fiber.Map{"status": "ok"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Error("health probe failed", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *handlers) listEvaluations(c fiber.Ctx) error {
	limit := defaultListLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "limit must be a positive integer"})
		}
		limit = min(n, maxListLimit)
	}

	evaluations, err := h.store.ListEvaluations(c.Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(evaluations)
}

func (h *handlers) getEvaluation(c fiber.Ctx) error {
	ev, err := h.store.GetEvaluation(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if ev == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "evaluation not found"})
	}
	return c.JSON(ev)
}

func (h *handlers) deleteEvaluation(c fiber.Ctx) error {
	err := h.store.DeleteEvaluation(c.Context(), c.Params("id"))
	if errors.Is(err, pipeline.ErrEvaluationNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "evaluation not found"})
	}
	if err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
