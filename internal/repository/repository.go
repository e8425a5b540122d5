// Package repository declares the persistence contracts used by the services.
// Implementations live in the postgres (GORM) and memory subpackages.
package repository

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/models"
	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

// UserFilter narrows user listings. A zero value matches every user.
type UserFilter struct {
	UserType models.Role
	Limit    int
	Offset   int
}

// BookingFilter narrows booking listings. Nil IDs are ignored.
type BookingFilter struct {
	CustomerID        uuid.UUID
	ServiceProviderID uuid.UUID
	Status            models.BookingStatus
	Limit             int
	Offset            int
}

// CommissionTotals aggregates commission figures over completed bookings.
type CommissionTotals struct {
	CompletedBookings int64   `json:"completedBookings"`
	GrossAmount       float64 `json:"grossAmount"`
	CommissionPaid    float64 `json:"commissionPaid"`
	CommissionUnpaid  float64 `json:"commissionUnpaid"`
	ProviderEarnings  float64 `json:"providerEarnings"`
}

type UserRepository interface {
	// Create returns ErrDuplicate when the email is already registered.
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filter UserFilter) ([]models.User, int64, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	// Delete hard-deletes the user together with its refresh tokens.
	Delete(ctx context.Context, id uuid.UUID) error
	CountAdmins(ctx context.Context, activeOnly bool) (int64, error)
	// WithAdminLock runs fn while admin rows are locked, so that two concurrent
	// admin removals cannot both observe the same admin count. Every repository
	// in tx shares the locking transaction; use it instead of the outer Store
	// inside fn.
	WithAdminLock(ctx context.Context, fn func(tx *Store) error) error
}

type ProviderRepository interface {
	// Create returns ErrDuplicate when the user already owns a provider profile.
	Create(ctx context.Context, provider *models.ServiceProvider) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ServiceProvider, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.ServiceProvider, error)
	UpdateCommissionRate(ctx context.Context, id uuid.UUID, rate float64) error
}

type ListingRepository interface {
	Create(ctx context.Context, listing *models.ServiceListing) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ServiceListing, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	// List returns bookings newest first plus the total number of matches.
	List(ctx context.Context, filter BookingFilter) ([]models.Booking, int64, error)
	// UpdateStatus moves the booking to `to` only if it is still in `from`.
	// It reports false when no row matched that condition.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.BookingStatus) (bool, error)
	// UpdateAmounts writes the amount and derived commission fields of booking,
	// provided the stored status still equals expected.
	UpdateAmounts(ctx context.Context, booking *models.Booking, expected models.BookingStatus) (bool, error)
	// MarkCommissionPaid flags the commission of a completed booking as paid.
	MarkCommissionPaid(ctx context.Context, id uuid.UUID) (bool, error)
	IDsByProvider(ctx context.Context, providerID uuid.UUID) ([]uuid.UUID, error)
	IDsByListing(ctx context.Context, listingID uuid.UUID) ([]uuid.UUID, error)
	CommissionTotals(ctx context.Context) (*CommissionTotals, error)
}

type ReviewRepository interface {
	// Create returns ErrDuplicate when a review already exists for the booking.
	Create(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Review, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ListByBookingIDs returns the reviews of the given bookings, newest first.
	ListByBookingIDs(ctx context.Context, bookingIDs []uuid.UUID) ([]models.Review, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	// FindActive returns an unrevoked token by hash, expired or not.
	FindActive(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, tokenHash string) error
}

type SettingRepository interface {
	List(ctx context.Context) ([]models.PlatformSetting, error)
	Get(ctx context.Context, key string) (*models.PlatformSetting, error)
	Upsert(ctx context.Context, setting *models.PlatformSetting) error
	// CreateIfMissing inserts setting unless its key already exists.
	CreateIfMissing(ctx context.Context, setting *models.PlatformSetting) error
	Delete(ctx context.Context, key string) error
}

// Store bundles the repositories a service layer needs.
type Store struct {
	Users         UserRepository
	Providers     ProviderRepository
	Listings      ListingRepository
	Bookings      BookingRepository
	Reviews       ReviewRepository
	RefreshTokens RefreshTokenRepository
	Settings      SettingRepository
}
