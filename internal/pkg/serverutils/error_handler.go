package serverutils

import (
	"errors"

	"playlist-recommender-be/internal/pkg/apperrors"
	"playlist-recommender-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps core errors onto HTTP statuses and keeps a log
// trail that distinguishes "no tracks found" (a plain 200) from "retrieval
// failed".
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := fiber.StatusInternalServerError

		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
		case errors.Is(err, apperrors.ErrEmptySeeds),
			errors.Is(err, apperrors.ErrEmptyQueryText):
			status = fiber.StatusUnprocessableEntity
		case errors.Is(err, apperrors.ErrEmbeddingFailure):
			status = fiber.StatusBadGateway
		case errors.Is(err, apperrors.ErrStoreUnavailable):
			status = fiber.StatusServiceUnavailable
		}

		details := map[string]interface{}{
			"method": ctx.Method(),
			"path":   ctx.Path(),
			"status": status,
			"error":  err.Error(),
		}
		if status >= fiber.StatusInternalServerError {
			log.Error("http", "request failed", details)
		} else {
			log.Warn("http", "request rejected", details)
		}

		return ctx.Status(status).JSON(ErrorResponse(err.Error()))
	}
}
