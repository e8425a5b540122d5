package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	ServiceProviderID   uuid.UUID `json:"serviceProviderId" validate:"required"`
	ServiceListingID    uuid.UUID `json:"serviceListingId" validate:"required"`
	ServiceDateTime     time.Time `json:"serviceDateTime" validate:"required"`
	TotalAmount         *float64  `json:"totalAmount" validate:"required,gte=0,lte=9999999999.99"`
	SpecialInstructions string    `json:"specialInstructions" validate:"max=500"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type AdjustAmountRequest struct {
	TotalAmount *float64 `json:"totalAmount" validate:"required,gte=0,lte=9999999999.99"`
}

type ListBookingsQuery struct {
	Status string `query:"status"`
	Limit  int    `query:"limit" validate:"gte=0,lte=100"`
	Offset int    `query:"offset" validate:"gte=0"`
}
