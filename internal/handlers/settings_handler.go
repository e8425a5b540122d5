package handlers

import (
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type SettingsHandler struct {
	settingsService *services.SettingsService
}

func NewSettingsHandler(settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings returns every platform setting decoded by type (public).
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.settingsService.GetSettings(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(settings))
}

// SetSetting creates or replaces one key (admin only).
func (h *SettingsHandler) SetSetting(c *fiber.Ctx) error {
	var req dto.SetSettingRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	if req.Value == "" {
		return badRequest(c, "value is required")
	}

	setting, err := h.settingsService.SetSetting(c.UserContext(), c.Params("key"), req.Value, req.Type)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OKMessage("Setting saved", setting))
}

func (h *SettingsHandler) DeleteSetting(c *fiber.Ctx) error {
	if err := h.settingsService.DeleteSetting(c.UserContext(), c.Params("key")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OKMessage("Setting deleted", nil))
}
