package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	store string
	ping  func() error
}

// NewHealthHandler reports on the named store; ping may be nil for stores
// without a connection to check.
func NewHealthHandler(store string, ping func() error) *HealthHandler {
	return &HealthHandler{store: store, ping: ping}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := "ok"
	storeStatus := h.store + ": ok"
	if h.ping != nil {
		if err := h.ping(); err != nil {
			status = "degraded"
			storeStatus = h.store + ": unhealthy"
		}
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(dto.Response{
		Success: status == "ok",
		Data: dto.HealthResponse{
			Status:    status,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Store:     storeStatus,
		},
	})
}
