package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/services"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const callerKey = "caller"

// JWTProtected verifies the bearer token and stores it in Locals("user").
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized: invalid or expired token"))
		},
	})
}

// CallerResolver loads the current user behind a verified token.
type CallerResolver interface {
	ResolveCaller(ctx context.Context, token *jwt.Token) (*services.Caller, error)
}

// ResolveCaller must run after JWTProtected. It re-reads the user on every
// request so a deactivated account is locked out even with a live token.
func ResolveCaller(resolver CallerResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, _ := c.Locals("user").(*jwt.Token)

		caller, err := resolver.ResolveCaller(c.UserContext(), token)
		switch {
		case err == nil:
		case errors.Is(err, services.ErrAccountDeactivated):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Account is deactivated"))
		case errors.Is(err, services.ErrAuthentication):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized: " + err.Error()))
		default:
			slog.Error("failed to resolve caller",
				"request_id", requestID(c),
				"method", c.Method(),
				"path", c.Path(),
				"error", err.Error(),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Internal server error"))
		}

		c.Locals(callerKey, caller)
		return c.Next()
	}
}

// CallerFrom returns the caller stored by ResolveCaller.
func CallerFrom(c *fiber.Ctx) (*services.Caller, bool) {
	caller, ok := c.Locals(callerKey).(*services.Caller)
	return caller, ok && caller != nil
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
