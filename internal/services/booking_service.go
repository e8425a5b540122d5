package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/repository"
	"github.com/google/uuid"
)

const defaultPageSize = 20

type transition struct {
	from, to models.BookingStatus
}

// transitionRoles lists which booking party may perform each legal transition.
// Roles here are relative to the booking: RoleCustomer is the booking's customer
// and RoleServiceProvider is the user owning the booked provider profile.
var transitionRoles = map[transition][]models.Role{
	{models.BookingStatusPending, models.BookingStatusConfirmed}:   {models.RoleServiceProvider, models.RoleAdmin},
	{models.BookingStatusPending, models.BookingStatusCancelled}:   {models.RoleCustomer, models.RoleServiceProvider, models.RoleAdmin},
	{models.BookingStatusConfirmed, models.BookingStatusCompleted}: {models.RoleServiceProvider, models.RoleAdmin},
	{models.BookingStatusConfirmed, models.BookingStatusCancelled}: {models.RoleCustomer, models.RoleServiceProvider, models.RoleAdmin},
}

type BookingService struct {
	store *repository.Store
}

func NewBookingService(store *repository.Store) *BookingService {
	return &BookingService{store: store}
}

// CreateBooking books a listing for the calling customer at the provider's current rate.
func (s *BookingService) CreateBooking(ctx context.Context, caller *Caller, req *dto.CreateBookingRequest) (*models.Booking, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}

	provider, err := s.store.Providers.FindByID(ctx, req.ServiceProviderID)
	if err != nil {
		return nil, notFoundOr(err, "service provider not found")
	}
	listing, err := s.store.Listings.FindByID(ctx, req.ServiceListingID)
	if err != nil {
		return nil, notFoundOr(err, "service listing not found")
	}
	if listing.ServiceProviderID != provider.ID {
		return nil, newError(ErrValidation, "listing does not belong to this service provider")
	}
	if !listing.IsActive {
		return nil, newError(ErrValidation, "listing is not active")
	}
	if provider.UserID == caller.ID {
		return nil, newError(ErrValidation, "cannot book your own service")
	}
	owner, err := s.store.Users.FindByID(ctx, provider.UserID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to load provider account: %w", err)
	}
	if owner == nil || !owner.IsActive {
		return nil, newError(ErrValidation, "service provider is not accepting bookings")
	}

	booking := models.Booking{
		ID:                  uuid.New(),
		CustomerID:          caller.ID,
		ServiceProviderID:   provider.ID,
		ServiceListingID:    listing.ID,
		ServiceDateTime:     req.ServiceDateTime.UTC(),
		BookingStatus:       models.BookingStatusPending,
		SpecialInstructions: strings.TrimSpace(req.SpecialInstructions),
	}
	if err := booking.SetTotalAmount(*req.TotalAmount, provider.CommissionRate); err != nil {
		return nil, amountError(err)
	}

	if err := s.store.Bookings.Create(ctx, &booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	slog.Info("booking created",
		"booking_id", booking.ID,
		"customer_id", booking.CustomerID,
		"service_provider_id", booking.ServiceProviderID,
		"total_amount", booking.TotalAmount,
		"commission_amount", booking.CommissionAmount,
	)
	return &booking, nil
}

// UpdateStatus moves a booking along its state machine on behalf of caller.
// Requesting the status the booking already has succeeds without a write.
func (s *BookingService) UpdateStatus(ctx context.Context, id uuid.UUID, caller *Caller, status string) (*models.Booking, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	target, err := models.ParseBookingStatus(status)
	if err != nil {
		return nil, newError(ErrValidation, "status must be one of Pending, Confirmed, Completed, Cancelled")
	}

	party, err := s.partyRole(ctx, booking, caller)
	if err != nil {
		return nil, err
	}

	if booking.BookingStatus == target {
		return booking, nil
	}
	if !booking.BookingStatus.CanTransitionTo(target) {
		return nil, newError(ErrInvalidTransition, "cannot change booking status from %s to %s", booking.BookingStatus, target)
	}
	if !roleAllowed(transitionRoles[transition{booking.BookingStatus, target}], party) {
		return nil, newError(ErrForbidden, "%s cannot change booking status from %s to %s", party, booking.BookingStatus, target)
	}

	from := booking.BookingStatus
	updated, err := s.store.Bookings.UpdateStatus(ctx, id, from, target)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	current, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if !updated && current.BookingStatus != target {
		// Lost a race to a writer that moved the booking somewhere else.
		return nil, newError(ErrInvalidTransition, "cannot change booking status from %s to %s", current.BookingStatus, target)
	}

	if updated {
		slog.Info("booking status changed", "booking_id", id, "from", from, "to", target, "caller_id", caller.ID)
	}
	return current, nil
}

// AdjustTotalAmount rewrites the amount of an open booking and recomputes its
// commission split with the provider's current rate.
func (s *BookingService) AdjustTotalAmount(ctx context.Context, id uuid.UUID, req *dto.AdjustAmountRequest) (*models.Booking, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.BookingStatus.IsTerminal() {
		return nil, newError(ErrInvalidState, "cannot change the amount of a %s booking", booking.BookingStatus)
	}

	provider, err := s.store.Providers.FindByID(ctx, booking.ServiceProviderID)
	if err != nil {
		return nil, notFoundOr(err, "service provider not found")
	}

	if err := booking.SetTotalAmount(*req.TotalAmount, provider.CommissionRate); err != nil {
		return nil, amountError(err)
	}
	updated, err := s.store.Bookings.UpdateAmounts(ctx, booking, booking.BookingStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking amount: %w", err)
	}
	if !updated {
		return nil, newError(ErrInvalidState, "booking status changed while updating its amount")
	}

	return s.findBooking(ctx, id)
}

func (s *BookingService) GetBooking(ctx context.Context, id uuid.UUID, caller *Caller) (*models.Booking, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.partyRole(ctx, booking, caller); err != nil {
		return nil, err
	}
	return booking, nil
}

// ListBookings returns the bookings visible to caller, newest first.
func (s *BookingService) ListBookings(ctx context.Context, caller *Caller, query *dto.ListBookingsQuery) (*dto.Page, error) {
	if err := validateInput(query); err != nil {
		return nil, err
	}

	filter := repository.BookingFilter{Limit: query.Limit, Offset: query.Offset}
	if filter.Limit == 0 {
		filter.Limit = defaultPageSize
	}
	if query.Status != "" {
		status, err := models.ParseBookingStatus(query.Status)
		if err != nil {
			return nil, newError(ErrValidation, "status must be one of Pending, Confirmed, Completed, Cancelled")
		}
		filter.Status = status
	}

	switch caller.Role {
	case models.RoleAdmin:
	case models.RoleServiceProvider:
		provider, err := s.store.Providers.FindByUserID(ctx, caller.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return &dto.Page{Items: []models.Booking{}, Limit: filter.Limit, Offset: filter.Offset}, nil
			}
			return nil, fmt.Errorf("failed to load provider profile: %w", err)
		}
		filter.ServiceProviderID = provider.ID
	default:
		filter.CustomerID = caller.ID
	}

	bookings, total, err := s.store.Bookings.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return &dto.Page{Items: bookings, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (s *BookingService) findBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	booking, err := s.store.Bookings.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "booking not found")
	}
	return booking, nil
}

// partyRole reports how caller relates to booking. Admins act as admins even
// on their own bookings.
func (s *BookingService) partyRole(ctx context.Context, booking *models.Booking, caller *Caller) (models.Role, error) {
	if caller.IsAdmin() {
		return models.RoleAdmin, nil
	}
	if booking.CustomerID == caller.ID {
		return models.RoleCustomer, nil
	}
	if caller.Role == models.RoleServiceProvider {
		provider, err := s.store.Providers.FindByID(ctx, booking.ServiceProviderID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("failed to load provider: %w", err)
		}
		if provider != nil && provider.UserID == caller.ID {
			return models.RoleServiceProvider, nil
		}
	}
	return "", newError(ErrForbidden, "you are not a party to this booking")
}

func roleAllowed(allowed []models.Role, role models.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// amountError maps a rejected amount to ErrValidation. A bad stored rate is not
// the caller's input and is reported as an invariant violation.
func amountError(err error) error {
	if errors.Is(err, models.ErrInvalidRate) {
		return newError(ErrInvariantViolation, "provider commission rate is invalid")
	}
	return newError(ErrValidation, "%v", err)
}
