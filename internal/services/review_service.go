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

type ReviewService struct {
	store  *repository.Store
	filter *ContentFilter
}

func NewReviewService(store *repository.Store, filter *ContentFilter) *ReviewService {
	return &ReviewService{store: store, filter: filter}
}

// CreateReview records the single review the booking's customer may leave once
// the booking is completed.
func (s *ReviewService) CreateReview(ctx context.Context, callerID uuid.UUID, req *dto.CreateReviewRequest) (*models.Review, error) {
	booking, err := s.store.Bookings.FindByID(ctx, req.BookingID)
	if err != nil {
		return nil, notFoundOr(err, "booking not found")
	}
	if booking.CustomerID != callerID {
		return nil, newError(ErrForbidden, "only the booking's customer can review it")
	}
	if booking.BookingStatus != models.BookingStatusCompleted {
		return nil, newError(ErrInvalidState, "only completed bookings can be reviewed")
	}

	if _, err := s.store.Reviews.FindByBookingID(ctx, booking.ID); err == nil {
		return nil, newError(ErrConflict, "this booking has already been reviewed")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}

	if err := validateInput(req); err != nil {
		return nil, err
	}
	text, err := s.checkText(req.ReviewText)
	if err != nil {
		return nil, err
	}

	review := models.Review{
		ID:         uuid.New(),
		BookingID:  booking.ID,
		CustomerID: callerID,
		Rating:     req.Rating,
		ReviewText: text,
	}
	if err := s.store.Reviews.Create(ctx, &review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(ErrConflict, "this booking has already been reviewed")
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	slog.Info("review created", "review_id", review.ID, "booking_id", booking.ID, "rating", review.Rating)
	return &review, nil
}

func (s *ReviewService) UpdateReview(ctx context.Context, id, callerID uuid.UUID, req *dto.UpdateReviewRequest) (*models.Review, error) {
	review, err := s.ownedReview(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	if err := validateInput(req); err != nil {
		return nil, err
	}
	text, err := s.checkText(req.ReviewText)
	if err != nil {
		return nil, err
	}

	review.Rating = req.Rating
	review.ReviewText = text
	if err := s.store.Reviews.Update(ctx, review); err != nil {
		return nil, notFoundOr(err, "review not found")
	}
	return review, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, id, callerID uuid.UUID) error {
	if _, err := s.ownedReview(ctx, id, callerID); err != nil {
		return err
	}
	if err := s.store.Reviews.Delete(ctx, id); err != nil {
		return notFoundOr(err, "review not found")
	}
	return nil
}

func (s *ReviewService) GetReview(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	review, err := s.store.Reviews.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "review not found")
	}
	return review, nil
}

// ListReviewsForProvider returns the reviews left on any booking of the provider, newest first.
func (s *ReviewService) ListReviewsForProvider(ctx context.Context, providerID uuid.UUID) ([]models.Review, error) {
	if _, err := s.store.Providers.FindByID(ctx, providerID); err != nil {
		return nil, notFoundOr(err, "service provider not found")
	}
	bookingIDs, err := s.store.Bookings.IDsByProvider(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list provider bookings: %w", err)
	}
	return s.reviewsFor(ctx, bookingIDs)
}

// ListReviewsForListing returns the reviews left on any booking of the listing, newest first.
func (s *ReviewService) ListReviewsForListing(ctx context.Context, listingID uuid.UUID) ([]models.Review, error) {
	if _, err := s.store.Listings.FindByID(ctx, listingID); err != nil {
		return nil, notFoundOr(err, "service listing not found")
	}
	bookingIDs, err := s.store.Bookings.IDsByListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list listing bookings: %w", err)
	}
	return s.reviewsFor(ctx, bookingIDs)
}

func (s *ReviewService) reviewsFor(ctx context.Context, bookingIDs []uuid.UUID) ([]models.Review, error) {
	if len(bookingIDs) == 0 {
		return []models.Review{}, nil
	}
	reviews, err := s.store.Reviews.ListByBookingIDs(ctx, bookingIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (s *ReviewService) ownedReview(ctx context.Context, id, callerID uuid.UUID) (*models.Review, error) {
	review, err := s.store.Reviews.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "review not found")
	}
	if review.CustomerID != callerID {
		return nil, newError(ErrForbidden, "you can only modify your own reviews")
	}
	return review, nil
}

func (s *ReviewService) checkText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return text, nil
	}
	if ok, reason := s.filter.Check(text); !ok {
		return "", newError(ErrValidation, "%s", s.filter.RejectionMessage(reason))
	}
	return text, nil
}
