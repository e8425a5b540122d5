package services

import (
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedBooking(t *testing.T, f *fixture) (*models.User, providerSetup, *models.Booking) {
	t.Helper()
	customer := f.user(t, models.RoleCustomer)
	ps := f.provider(t, 10)
	b := f.book(t, customer, ps, 100)
	f.advance(t, b, ps.user, models.BookingStatusConfirmed, models.BookingStatusCompleted)
	return customer, ps, b
}

func TestCreateReview_ScenarioC(t *testing.T) {
	f := newFixture(t)
	customer, _, b := completedBooking(t, f)
	req := &dto.CreateReviewRequest{BookingID: b.ID, Rating: 4, ReviewText: "Great"}

	review, err := f.reviews.CreateReview(f.ctx, customer.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 4, review.Rating)
	assert.Equal(t, "Great", review.ReviewText)
	assert.Equal(t, customer.ID, review.CustomerID)

	_, err = f.reviews.CreateReview(f.ctx, customer.ID, req)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateReview_RequiresCompletedBooking(t *testing.T) {
	f := newFixture(t)
	customer := f.user(t, models.RoleCustomer)
	ps := f.provider(t, 10)

	paths := map[string][]models.BookingStatus{
		"Pending":   nil,
		"Confirmed": {models.BookingStatusConfirmed},
		"Cancelled": {models.BookingStatusCancelled},
	}
	for name, path := range paths {
		t.Run(name, func(t *testing.T) {
			b := f.book(t, customer, ps, 100)
			f.advance(t, b, ps.user, path...)

			_, err := f.reviews.CreateReview(f.ctx, customer.ID, &dto.CreateReviewRequest{BookingID: b.ID, Rating: 5})
			assert.ErrorIs(t, err, ErrInvalidState)
		})
	}
}

func TestCreateReview_OnlyBookingCustomer(t *testing.T) {
	f := newFixture(t)
	_, ps, b := completedBooking(t, f)
	stranger := f.user(t, models.RoleCustomer)

	for _, id := range []uuid.UUID{stranger.ID, ps.user.ID} {
		_, err := f.reviews.CreateReview(f.ctx, id, &dto.CreateReviewRequest{BookingID: b.ID, Rating: 5})
		assert.ErrorIs(t, err, ErrForbidden)
	}

	_, err := f.reviews.CreateReview(f.ctx, stranger.ID, &dto.CreateReviewRequest{BookingID: uuid.New(), Rating: 5})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateReview_InputChecks(t *testing.T) {
	f := newFixture(t)
	customer, _, b := completedBooking(t, f)

	for _, rating := range []int{0, 6, -1} {
		_, err := f.reviews.CreateReview(f.ctx, customer.ID, &dto.CreateReviewRequest{BookingID: b.ID, Rating: rating})
		assert.ErrorIs(t, err, ErrValidation, "rating %d", rating)
	}

	_, err := f.reviews.CreateReview(f.ctx, customer.ID, &dto.CreateReviewRequest{
		BookingID:  b.ID,
		Rating:     5,
		ReviewText: "call me at 555-123-4567 instead",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateReview_ParallelRace(t *testing.T) {
	for round := 0; round < 20; round++ {
		f := newFixture(t)
		customer, _, b := completedBooking(t, f)

		const attempts = 2
		var wg sync.WaitGroup
		errs := make([]error, attempts)
		start := make(chan struct{})
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				_, errs[i] = f.reviews.CreateReview(f.ctx, customer.ID, &dto.CreateReviewRequest{BookingID: b.ID, Rating: 3})
			}(i)
		}
		close(start)
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, ErrConflict)
		}
		require.Equal(t, 1, succeeded, "round %d", round)
	}
}

func TestUpdateAndDeleteReview_Ownership(t *testing.T) {
	f := newFixture(t)
	customer, _, b := completedBooking(t, f)
	stranger := f.user(t, models.RoleCustomer)

	review, err := f.reviews.CreateReview(f.ctx, customer.ID, &dto.CreateReviewRequest{BookingID: b.ID, Rating: 2, ReviewText: "Late"})
	require.NoError(t, err)

	_, err = f.reviews.UpdateReview(f.ctx, review.ID, stranger.ID, &dto.UpdateReviewRequest{Rating: 1})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, f.reviews.DeleteReview(f.ctx, review.ID, stranger.ID), ErrForbidden)

	_, err = f.reviews.UpdateReview(f.ctx, uuid.New(), customer.ID, &dto.UpdateReviewRequest{Rating: 1})
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := f.reviews.UpdateReview(f.ctx, review.ID, customer.ID, &dto.UpdateReviewRequest{Rating: 4, ReviewText: "Late but thorough"})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)

	stored, err := f.reviews.GetReview(f.ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, "Late but thorough", stored.ReviewText)

	require.NoError(t, f.reviews.DeleteReview(f.ctx, review.ID, customer.ID))
	_, err = f.reviews.GetReview(f.ctx, review.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.reviews.DeleteReview(f.ctx, review.ID, customer.ID), ErrNotFound)
}

func TestListReviews_JoinsThroughBookings(t *testing.T) {
	f := newFixture(t)
	customer := f.user(t, models.RoleCustomer)
	ps := f.provider(t, 10)
	other := f.provider(t, 10)

	second := &models.ServiceListing{ServiceProviderID: ps.provider.ID, Title: "Windows", Price: 40, IsActive: true}
	require.NoError(t, f.store.Listings.Create(f.ctx, second))

	review := func(listing *models.ServiceListing, prov providerSetup, rating int) *models.Review {
		b, err := f.bookings.CreateBooking(f.ctx, caller(customer), &dto.CreateBookingRequest{
			ServiceProviderID: prov.provider.ID,
			ServiceListingID:  listing.ID,
			ServiceDateTime:   time.Now().Add(24 * time.Hour),
			TotalAmount:       amount(60),
		})
		require.NoError(t, err)
		f.advance(t, b, prov.user, models.BookingStatusConfirmed, models.BookingStatusCompleted)
		r, err := f.reviews.CreateReview(f.ctx, customer.ID, &dto.CreateReviewRequest{BookingID: b.ID, Rating: rating})
		require.NoError(t, err)
		return r
	}

	r1 := review(ps.listing, ps, 5)
	r2 := review(second, ps, 4)
	r3 := review(other.listing, other, 3)
	f.book(t, customer, ps, 10) // unreviewed booking

	byProvider, err := f.reviews.ListReviewsForProvider(f.ctx, ps.provider.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{r2.ID, r1.ID}, reviewIDs(byProvider))

	byListing, err := f.reviews.ListReviewsForListing(f.ctx, other.listing.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{r3.ID}, reviewIDs(byListing))

	fresh := f.provider(t, 10)
	empty, err := f.reviews.ListReviewsForProvider(f.ctx, fresh.provider.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = f.reviews.ListReviewsForProvider(f.ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.reviews.ListReviewsForListing(f.ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func reviewIDs(reviews []models.Review) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.ID)
	}
	return ids
}
