package memory

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/repository"
	"github.com/google/uuid"
)

type bookingRepo struct {
	db *db
}

func (r *bookingRepo) Create(_ context.Context, booking *models.Booking) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stamp(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if booking.BookingStatus == "" {
		booking.BookingStatus = models.BookingStatusPending
	}
	r.db.bookings[booking.ID] = &row[models.Booking]{seq: r.db.next(), val: *booking}
	return nil
}

func (r *bookingRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	b, ok := r.db.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	booking := b.val
	return &booking, nil
}

func (r *bookingRepo) List(_ context.Context, filter repository.BookingFilter) ([]models.Booking, int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	rows := make([]*row[models.Booking], 0)
	for _, b := range r.db.bookings {
		if filter.CustomerID != uuid.Nil && b.val.CustomerID != filter.CustomerID {
			continue
		}
		if filter.ServiceProviderID != uuid.Nil && b.val.ServiceProviderID != filter.ServiceProviderID {
			continue
		}
		if filter.Status != "" && b.val.BookingStatus != filter.Status {
			continue
		}
		rows = append(rows, b)
	}
	newestFirst(rows, func(b *models.Booking) time.Time { return b.CreatedAt })

	bookings := make([]models.Booking, len(rows))
	for i, b := range rows {
		bookings[i] = b.val
	}
	return page(bookings, filter.Limit, filter.Offset), int64(len(bookings)), nil
}

func (r *bookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to models.BookingStatus) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	b, ok := r.db.bookings[id]
	if !ok || b.val.BookingStatus != from {
		return false, nil
	}
	b.val.BookingStatus = to
	b.val.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *bookingRepo) UpdateAmounts(_ context.Context, booking *models.Booking, expected models.BookingStatus) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	b, ok := r.db.bookings[booking.ID]
	if !ok || b.val.BookingStatus != expected {
		return false, nil
	}
	if err := b.val.SetTotalAmount(booking.TotalAmount, booking.CommissionRate); err != nil {
		return false, err
	}
	b.val.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *bookingRepo) MarkCommissionPaid(_ context.Context, id uuid.UUID) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	b, ok := r.db.bookings[id]
	if !ok || b.val.BookingStatus != models.BookingStatusCompleted {
		return false, nil
	}
	b.val.CommissionPaid = true
	b.val.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *bookingRepo) IDsByProvider(_ context.Context, providerID uuid.UUID) ([]uuid.UUID, error) {
	return r.ids(func(b *models.Booking) bool { return b.ServiceProviderID == providerID }), nil
}

func (r *bookingRepo) IDsByListing(_ context.Context, listingID uuid.UUID) ([]uuid.UUID, error) {
	return r.ids(func(b *models.Booking) bool { return b.ServiceListingID == listingID }), nil
}

func (r *bookingRepo) ids(match func(*models.Booking) bool) []uuid.UUID {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	ids := make([]uuid.UUID, 0)
	for id, b := range r.db.bookings {
		if match(&b.val) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (r *bookingRepo) CommissionTotals(_ context.Context) (*repository.CommissionTotals, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var totals repository.CommissionTotals
	var gross, paid, unpaid, earnings int64
	for _, b := range r.db.bookings {
		if b.val.BookingStatus != models.BookingStatusCompleted {
			continue
		}
		totals.CompletedBookings++
		gross += cents(b.val.TotalAmount)
		earnings += cents(b.val.ProviderEarning)
		if b.val.CommissionPaid {
			paid += cents(b.val.CommissionAmount)
		} else {
			unpaid += cents(b.val.CommissionAmount)
		}
	}
	totals.GrossAmount = float64(gross) / 100
	totals.CommissionPaid = float64(paid) / 100
	totals.CommissionUnpaid = float64(unpaid) / 100
	totals.ProviderEarnings = float64(earnings) / 100
	return &totals, nil
}
