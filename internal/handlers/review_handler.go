package handlers

import (
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	caller, err := currentCaller(c)
	if err != nil {
		return respondError(c, err)
	}
	var req dto.CreateReviewRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	review, err := h.reviewService.CreateReview(c.UserContext(), caller.ID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OKMessage("Review created", review))
}

func (h *ReviewHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	review, err := h.reviewService.GetReview(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(review))
}

func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	caller, err := currentCaller(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.UpdateReviewRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	review, err := h.reviewService.UpdateReview(c.UserContext(), id, caller.ID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(review))
}

func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	caller, err := currentCaller(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.reviewService.DeleteReview(c.UserContext(), id, caller.ID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OKMessage("Review deleted", nil))
}

func (h *ReviewHandler) ListForProvider(c *fiber.Ctx) error {
	id, err := parseID(c, "providerId")
	if err != nil {
		return respondError(c, err)
	}

	reviews, err := h.reviewService.ListReviewsForProvider(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(reviews))
}

func (h *ReviewHandler) ListForListing(c *fiber.Ctx) error {
	id, err := parseID(c, "listingId")
	if err != nil {
		return respondError(c, err)
	}

	reviews, err := h.reviewService.ListReviewsForListing(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(reviews))
}
