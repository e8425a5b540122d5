package middleware

import (
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/models"
	"github.com/gofiber/fiber/v2"
)

// Authorize admits callers whose role is in roles. An empty list admits any
// authenticated caller. Ownership checks stay in the services.
func Authorize(roles ...models.Role) fiber.Handler {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *fiber.Ctx) error {
		caller, ok := CallerFrom(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized"))
		}
		if len(allowed) == 0 || allowed[caller.Role] {
			return c.Next()
		}

		route := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.Fail(
			fmt.Sprintf("Role %s is not allowed to access %s %s", caller.Role, strings.ToUpper(c.Method()), route),
		))
	}
}
