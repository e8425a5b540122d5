package handlers

import (
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ProviderHandler struct {
	providerService *services.ProviderService
}

func NewProviderHandler(providerService *services.ProviderService) *ProviderHandler {
	return &ProviderHandler{providerService: providerService}
}

func (h *ProviderHandler) GetProvider(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	provider, err := h.providerService.GetProvider(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(provider))
}

func (h *ProviderHandler) UpdateCommission(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.UpdateCommissionRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	provider, err := h.providerService.UpdateCommissionRate(c.UserContext(), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OKMessage("Commission rate updated", provider))
}

func (h *ProviderHandler) CreateListing(c *fiber.Ctx) error {
	caller, err := currentCaller(c)
	if err != nil {
		return respondError(c, err)
	}
	var req dto.CreateListingRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	listing, err := h.providerService.CreateListing(c.UserContext(), caller, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(listing))
}

func (h *ProviderHandler) GetListing(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	listing, err := h.providerService.GetListing(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(listing))
}

func (h *ProviderHandler) SetListingStatus(c *fiber.Ctx) error {
	caller, err := currentCaller(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.SetActiveRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	if req.IsActive == nil {
		return badRequest(c, "isActive is required")
	}

	listing, err := h.providerService.SetListingActive(c.UserContext(), id, caller, *req.IsActive)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(listing))
}
