package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/repository"
	"github.com/google/uuid"
)

type ProviderService struct {
	store *repository.Store
}

func NewProviderService(store *repository.Store) *ProviderService {
	return &ProviderService{store: store}
}

func (s *ProviderService) GetProvider(ctx context.Context, id uuid.UUID) (*models.ServiceProvider, error) {
	provider, err := s.store.Providers.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "service provider not found")
	}
	return provider, nil
}

func (s *ProviderService) GetProviderByUser(ctx context.Context, userID uuid.UUID) (*models.ServiceProvider, error) {
	provider, err := s.store.Providers.FindByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "service provider profile not found")
	}
	return provider, nil
}

// UpdateCommissionRate changes the rate applied to bookings created from now on.
// Existing bookings keep the rate they were created with.
func (s *ProviderService) UpdateCommissionRate(ctx context.Context, id uuid.UUID, req *dto.UpdateCommissionRequest) (*models.ServiceProvider, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}
	if err := s.store.Providers.UpdateCommissionRate(ctx, id, *req.CommissionRate); err != nil {
		return nil, notFoundOr(err, "service provider not found")
	}
	return s.GetProvider(ctx, id)
}

func (s *ProviderService) CreateListing(ctx context.Context, caller *Caller, req *dto.CreateListingRequest) (*models.ServiceListing, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}
	if caller.Role != models.RoleServiceProvider {
		return nil, newError(ErrForbidden, "only service providers can create listings")
	}
	provider, err := s.GetProviderByUser(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	listing := models.ServiceListing{
		ID:                uuid.New(),
		ServiceProviderID: provider.ID,
		Title:             strings.TrimSpace(req.Title),
		Description:       req.Description,
		Price:             models.RoundCents(*req.Price),
		IsActive:          true,
	}
	if err := s.store.Listings.Create(ctx, &listing); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}
	return &listing, nil
}

func (s *ProviderService) GetListing(ctx context.Context, id uuid.UUID) (*models.ServiceListing, error) {
	listing, err := s.store.Listings.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "service listing not found")
	}
	return listing, nil
}

// SetListingActive is allowed for the listing's provider and for admins.
func (s *ProviderService) SetListingActive(ctx context.Context, id uuid.UUID, caller *Caller, active bool) (*models.ServiceListing, error) {
	listing, err := s.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() {
		provider, err := s.store.Providers.FindByID(ctx, listing.ServiceProviderID)
		if err != nil {
			return nil, notFoundOr(err, "service provider not found")
		}
		if provider.UserID != caller.ID {
			return nil, newError(ErrForbidden, "only the listing owner can change its status")
		}
	}

	if err := s.store.Listings.SetActive(ctx, id, active); err != nil {
		return nil, notFoundOr(err, "service listing not found")
	}
	listing.IsActive = active
	return listing, nil
}

// notFoundOr turns a repository miss into ErrNotFound with message and wraps anything else.
func notFoundOr(err error, message string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return newError(ErrNotFound, "%s", message)
	}
	return fmt.Errorf("%s: %w", strings.TrimSuffix(message, " not found"), err)
}
