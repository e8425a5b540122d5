package services

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ctx       context.Context
	store     *repository.Store
	cfg       *config.Config
	settings  *SettingsService
	auth      *AuthService
	providers *ProviderService
	bookings  *BookingService
	reviews   *ReviewService
	users     *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
	}
	settings := NewSettingsService(store.Settings)
	require.NoError(t, settings.SeedDefaults(context.Background()))

	return &fixture{
		ctx:       context.Background(),
		store:     store,
		cfg:       cfg,
		settings:  settings,
		auth:      NewAuthService(store, cfg, settings),
		providers: NewProviderService(store),
		bookings:  NewBookingService(store),
		reviews:   NewReviewService(store, NewContentFilter()),
		users:     NewUserService(store),
	}
}

func (f *fixture) user(t *testing.T, role models.Role) *models.User {
	t.Helper()
	u := &models.User{
		Name:     string(role) + " user",
		Email:    uuid.NewString() + "@example.com",
		Password: "not-a-real-hash",
		UserType: role,
		IsActive: true,
	}
	require.NoError(t, f.store.Users.Create(f.ctx, u))
	return u
}

func caller(u *models.User) *Caller {
	return &Caller{ID: u.ID, Role: u.UserType, IsActive: u.IsActive}
}

type providerSetup struct {
	user     *models.User
	provider *models.ServiceProvider
	listing  *models.ServiceListing
}

func (f *fixture) provider(t *testing.T, rate float64) providerSetup {
	t.Helper()
	u := f.user(t, models.RoleServiceProvider)
	p := &models.ServiceProvider{UserID: u.ID, BusinessName: "Sparkle Cleaning", CommissionRate: rate}
	require.NoError(t, f.store.Providers.Create(f.ctx, p))
	l := &models.ServiceListing{ServiceProviderID: p.ID, Title: "Deep clean", Price: 120, IsActive: true}
	require.NoError(t, f.store.Listings.Create(f.ctx, l))
	return providerSetup{user: u, provider: p, listing: l}
}

func amount(v float64) *float64 {
	return &v
}

func (f *fixture) book(t *testing.T, customer *models.User, ps providerSetup, total float64) *models.Booking {
	t.Helper()
	b, err := f.bookings.CreateBooking(f.ctx, caller(customer), &dto.CreateBookingRequest{
		ServiceProviderID: ps.provider.ID,
		ServiceListingID:  ps.listing.ID,
		ServiceDateTime:   time.Now().Add(48 * time.Hour),
		TotalAmount:       amount(total),
	})
	require.NoError(t, err)
	return b
}

func (f *fixture) advance(t *testing.T, b *models.Booking, by *models.User, statuses ...models.BookingStatus) {
	t.Helper()
	for _, st := range statuses {
		_, err := f.bookings.UpdateStatus(f.ctx, b.ID, caller(by), string(st))
		require.NoError(t, err)
	}
}
