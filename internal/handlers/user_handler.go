package handlers

import (
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	var query dto.ListUsersQuery
	if err := c.QueryParser(&query); err != nil {
		return badRequest(c, "Invalid query parameters")
	}

	page, err := h.userService.ListUsers(c.UserContext(), &query)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(page))
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	user, err := h.userService.GetUser(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(user))
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	caller, err := currentCaller(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	outcome, err := h.userService.DeleteUser(c.UserContext(), id, caller.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OKMessage("User "+string(outcome), fiber.Map{"result": outcome}))
}

func (h *UserHandler) ToggleStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	user, err := h.userService.ToggleUserStatus(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	message := "User deactivated"
	if user.IsActive {
		message = "User activated"
	}
	return c.JSON(dto.OKMessage(message, user))
}
