package handlers

import (
	"errors"
	"fmt"

	"markethub/internal/apperrors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respondError writes err as a JSON error body with the status of its kind.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	status, body := errorResponse(c, logger, err)
	return c.Status(status).JSON(body)
}

// errorResponse maps err to a status and body. Internal errors are logged and
// never leak their cause.
func errorResponse(c *fiber.Ctx, logger *zap.Logger, err error) (int, fiber.Map) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		appErr = apperrors.Internal(err, "internal server error")
	}

	status := appErr.HTTPCode()
	if status >= fiber.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	message := appErr.Message()
	if appErr.Kind() == apperrors.KindInternal {
		message = "internal server error"
	}
	return status, fiber.Map{
		"message": message,
		"code":    appErr.Kind(),
	}
}

func badRequest(c *fiber.Ctx, message string, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// validationFailed reports the fields of a struct that failed validation.
func validationFailed(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return badRequest(c, "Validation failed", err)
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
