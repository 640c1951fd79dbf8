package server

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/meikuraledutech/pipeline/metrics"
)

// errorHandler renders errors that handlers did not answer themselves.
// Internal details are logged by requestLogger, not returned.
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	detail := "internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		detail = fe.Message
	}

	return c.Status(code).JSON(fiber.Map{"detail": detail})
}

// requestLogger logs each request and records its duration and status.
func requestLogger(logger *slog.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		if chainErr := c.Next(); chainErr != nil {
			logger.Error("request failed", "method", c.Method(), "path", c.Path(), "error", chainErr)
			if err := c.App().Config().ErrorHandler(c, chainErr); err != nil {
				logger.Error("error handler failed", "path", c.Path(), "error", err)
				if err := c.SendStatus(fiber.StatusInternalServerError); err != nil {
					logger.Error("write fallback status", "path", c.Path(), "error", err)
				}
			}
		}

		duration := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path

		logger.Info("request completed",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration_ms", duration.Milliseconds(),
		)

		metrics.HTTPRequestDuration.WithLabelValues(c.Method(), route).Observe(duration.Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		return nil
	}
}
