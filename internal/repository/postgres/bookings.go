package postgres

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type bookingRepo struct {
	db *gorm.DB
}

func (r *bookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	return translate(r.db.WithContext(ctx).Create(booking).Error)
}

func (r *bookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &booking, nil
}

func (r *bookingRepo) List(ctx context.Context, filter repository.BookingFilter) ([]models.Booking, int64, error) {
	var bookings []models.Booking
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Booking{})
	if filter.CustomerID != uuid.Nil {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.ServiceProviderID != uuid.Nil {
		query = query.Where("service_provider_id = ?", filter.ServiceProviderID)
	}
	if filter.Status != "" {
		query = query.Where("booking_status = ?", filter.Status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Scopes(paginate(filter.Limit, filter.Offset)).Find(&bookings).Error; err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// UpdateStatus is a compare-and-swap on booking_status; concurrent transitions
// from the same prior state have exactly one winner.
func (r *bookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.BookingStatus) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND booking_status = ?", id, from).
		Update("booking_status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *bookingRepo) UpdateAmounts(ctx context.Context, booking *models.Booking, expected models.BookingStatus) (bool, error) {
	result := r.db.WithContext(ctx).Model(booking).
		Where("booking_status = ?", expected).
		Select("total_amount", "commission_rate", "commission_amount", "provider_earning").
		Updates(booking)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *bookingRepo) MarkCommissionPaid(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND booking_status = ?", id, models.BookingStatusCompleted).
		Update("commission_paid", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *bookingRepo) IDsByProvider(ctx context.Context, providerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("service_provider_id = ?", providerID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *bookingRepo) IDsByListing(ctx context.Context, listingID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("service_listing_id = ?", listingID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *bookingRepo) CommissionTotals(ctx context.Context) (*repository.CommissionTotals, error) {
	var totals repository.CommissionTotals
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Select(`COUNT(*) AS completed_bookings,
			COALESCE(SUM(total_amount), 0) AS gross_amount,
			COALESCE(SUM(CASE WHEN commission_paid THEN commission_amount ELSE 0 END), 0) AS commission_paid,
			COALESCE(SUM(CASE WHEN commission_paid THEN 0 ELSE commission_amount END), 0) AS commission_unpaid,
			COALESCE(SUM(provider_earning), 0) AS provider_earnings`).
		Where("booking_status = ?", models.BookingStatusCompleted).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}
