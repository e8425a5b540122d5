package services

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/repository"
	"github.com/google/uuid"
)

// MarkCommissionPaid records that the platform commission of a completed booking
// has been settled. Marking an already paid booking is a no-op.
func (s *BookingService) MarkCommissionPaid(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.BookingStatus != models.BookingStatusCompleted {
		return nil, newError(ErrInvalidState, "commission can only be settled for Completed bookings")
	}
	if booking.CommissionPaid {
		return booking, nil
	}

	updated, err := s.store.Bookings.MarkCommissionPaid(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to mark commission paid: %w", err)
	}
	if !updated {
		return nil, newError(ErrInvalidState, "commission can only be settled for Completed bookings")
	}
	return s.findBooking(ctx, id)
}

// CommissionSummary aggregates commission figures over all completed bookings.
func (s *BookingService) CommissionSummary(ctx context.Context) (*repository.CommissionTotals, error) {
	totals, err := s.store.Bookings.CommissionTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute commission totals: %w", err)
	}
	return totals, nil
}
