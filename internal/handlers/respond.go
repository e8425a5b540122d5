package handlers

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/services"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var errorStatuses = []struct {
	kind   error
	status int
}{
	{services.ErrValidation, fiber.StatusBadRequest},
	{services.ErrInvalidTransition, fiber.StatusBadRequest},
	{services.ErrInvalidState, fiber.StatusBadRequest},
	{services.ErrInvariantViolation, fiber.StatusBadRequest},
	{services.ErrAuthentication, fiber.StatusUnauthorized},
	{services.ErrAccountDeactivated, fiber.StatusUnauthorized},
	{services.ErrForbidden, fiber.StatusForbidden},
	{services.ErrNotFound, fiber.StatusNotFound},
	{services.ErrConflict, fiber.StatusConflict},
}

// respondError writes the envelope for a service error. Unclassified errors
// are logged, reported to Sentry and answered with a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	for _, e := range errorStatuses {
		if errors.Is(err, e.kind) {
			return c.Status(e.status).JSON(dto.Fail(err.Error()))
		}
	}

	reportServerError(c, err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Internal server error"))
}

func reportServerError(c *fiber.Ctx, err error) {
	attrs := []any{
		"request_id", c.Locals("requestid"),
		"method", c.Method(),
		"path", c.Path(),
		"error", err.Error(),
	}
	if caller, ok := middleware.CallerFrom(c); ok {
		attrs = append(attrs, "user_id", caller.ID.String())
	}
	slog.Error("request failed", attrs...)

	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
}

// ErrorHandler is the fiber error handler: framework errors keep their code,
// and 5xx details are never exposed.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= 500 {
		reportServerError(c, err)
		message = "Internal server error"
	}
	return c.Status(code).JSON(dto.Fail(message))
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", services.ErrValidation, param)
	}
	return id, nil
}

// parseBody decodes and reports malformed JSON as a validation error.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: invalid request body", services.ErrValidation)
	}
	return nil
}

func currentCaller(c *fiber.Ctx) (*services.Caller, error) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		return nil, services.ErrAuthentication
	}
	return caller, nil
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(message))
}
