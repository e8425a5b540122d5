package dto

import "github.com/google/uuid"

type CreateReviewRequest struct {
	BookingID  uuid.UUID `json:"bookingId" validate:"required"`
	Rating     int       `json:"rating" validate:"required,gte=1,lte=5"`
	ReviewText string    `json:"reviewText" validate:"max=1000"`
}

type UpdateReviewRequest struct {
	Rating     int    `json:"rating" validate:"required,gte=1,lte=5"`
	ReviewText string `json:"reviewText" validate:"max=1000"`
}
