package handlers

import (
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type BookingHandler struct {
	bookingService *services.BookingService
}

func NewBookingHandler(bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

func (h *BookingHandler) Create(c *fiber.Ctx) error {
	caller, err := currentCaller(c)
	if err != nil {
		return respondError(c, err)
	}
	var req dto.CreateBookingRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	booking, err := h.bookingService.CreateBooking(c.UserContext(), caller, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OKMessage("Booking created", booking))
}

func (h *BookingHandler) List(c *fiber.Ctx) error {
	caller, err := currentCaller(c)
	if err != nil {
		return respondError(c, err)
	}
	var query dto.ListBookingsQuery
	if err := c.QueryParser(&query); err != nil {
		return badRequest(c, "Invalid query parameters")
	}

	page, err := h.bookingService.ListBookings(c.UserContext(), caller, &query)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(page))
}

func (h *BookingHandler) Get(c *fiber.Ctx) error {
	caller, err := currentCaller(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	booking, err := h.bookingService.GetBooking(c.UserContext(), id, caller)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(booking))
}

func (h *BookingHandler) UpdateStatus(c *fiber.Ctx) error {
	caller, err := currentCaller(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.UpdateBookingStatusRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	if req.Status == "" {
		return badRequest(c, "status is required")
	}

	booking, err := h.bookingService.UpdateStatus(c.UserContext(), id, caller, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OKMessage("Booking status is "+string(booking.BookingStatus), booking))
}

func (h *BookingHandler) AdjustAmount(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.AdjustAmountRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	booking, err := h.bookingService.AdjustTotalAmount(c.UserContext(), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(booking))
}

func (h *BookingHandler) MarkCommissionPaid(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	booking, err := h.bookingService.MarkCommissionPaid(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OKMessage("Commission marked as paid", booking))
}

func (h *BookingHandler) CommissionSummary(c *fiber.Ctx) error {
	totals, err := h.bookingService.CommissionSummary(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(totals))
}
