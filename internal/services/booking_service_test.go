package services

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBooking_DerivesCommission(t *testing.T) {
	f := newFixture(t)
	customer := f.user(t, models.RoleCustomer)
	ps := f.provider(t, 20)

	b := f.book(t, customer, ps, 2000)

	assert.Equal(t, models.BookingStatusPending, b.BookingStatus)
	assert.Equal(t, 400.0, b.CommissionAmount)
	assert.Equal(t, 1600.0, b.ProviderEarning)
	assert.Equal(t, 20.0, b.CommissionRate)
	assert.False(t, b.CommissionPaid)

	stored, err := f.store.Bookings.FindByID(f.ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.CommissionAmount, stored.CommissionAmount)
	assert.Equal(t, b.ProviderEarning, stored.ProviderEarning)
}

func TestCreateBooking_CommissionAlwaysSumsToTotal(t *testing.T) {
	f := newFixture(t)
	customer := f.user(t, models.RoleCustomer)

	rates := []float64{0, 7.5, 10, 12.345, 33.33, 100}
	totals := []float64{0, 0.01, 0.99, 19.99, 100.005, 333.33, 1234.56}
	for _, rate := range rates {
		ps := f.provider(t, rate)
		for _, total := range totals {
			b := f.book(t, customer, ps, total)
			assert.Equal(t, cents(b.TotalAmount), cents(b.CommissionAmount)+cents(b.ProviderEarning),
				"rate %v total %v", rate, total)
			assert.GreaterOrEqual(t, b.CommissionAmount, 0.0)
			assert.GreaterOrEqual(t, b.ProviderEarning, 0.0)
		}
	}
}

func cents(v float64) int64 {
	if v < 0 {
		return int64(v*100 - 0.5)
	}
	return int64(v*100 + 0.5)
}

func TestCreateBooking_RateChangeIsNotRetroactive(t *testing.T) {
	f := newFixture(t)
	customer := f.user(t, models.RoleCustomer)
	ps := f.provider(t, 10)

	first := f.book(t, customer, ps, 100)
	_, err := f.providers.UpdateCommissionRate(f.ctx, ps.provider.ID, &dto.UpdateCommissionRequest{CommissionRate: amount(25)})
	require.NoError(t, err)
	second := f.book(t, customer, ps, 100)

	stored, err := f.store.Bookings.FindByID(f.ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, stored.CommissionAmount)
	assert.Equal(t, 25.0, second.CommissionAmount)
}

func TestCreateBooking_Rejections(t *testing.T) {
	f := newFixture(t)
	customer := f.user(t, models.RoleCustomer)
	ps := f.provider(t, 10)
	other := f.provider(t, 10)

	inactive := &models.ServiceListing{ServiceProviderID: ps.provider.ID, Title: "Old", Price: 10, IsActive: true}
	require.NoError(t, f.store.Listings.Create(f.ctx, inactive))
	require.NoError(t, f.store.Listings.SetActive(f.ctx, inactive.ID, false))

	valid := func() *dto.CreateBookingRequest {
		return &dto.CreateBookingRequest{
			ServiceProviderID: ps.provider.ID,
			ServiceListingID:  ps.listing.ID,
			ServiceDateTime:   time.Now().Add(time.Hour),
			TotalAmount:       amount(50),
		}
	}

	tests := []struct {
		name   string
		caller *models.User
		mutate func(r *dto.CreateBookingRequest)
		want   error
	}{
		{"negative amount", customer, func(r *dto.CreateBookingRequest) { r.TotalAmount = amount(-1) }, ErrValidation},
		{"missing amount", customer, func(r *dto.CreateBookingRequest) { r.TotalAmount = nil }, ErrValidation},
		{"amount above column range", customer, func(r *dto.CreateBookingRequest) { r.TotalAmount = amount(models.MaxAmount + 0.01) }, ErrValidation},
		{"huge amount", customer, func(r *dto.CreateBookingRequest) { r.TotalAmount = amount(1e19) }, ErrValidation},
		{"NaN amount", customer, func(r *dto.CreateBookingRequest) { r.TotalAmount = amount(math.NaN()) }, ErrValidation},
		{"infinite amount", customer, func(r *dto.CreateBookingRequest) { r.TotalAmount = amount(math.Inf(1)) }, ErrValidation},
		{"missing date", customer, func(r *dto.CreateBookingRequest) { r.ServiceDateTime = time.Time{} }, ErrValidation},
		{"long instructions", customer, func(r *dto.CreateBookingRequest) { r.SpecialInstructions = string(make([]byte, 501)) }, ErrValidation},
		{"unknown provider", customer, func(r *dto.CreateBookingRequest) { r.ServiceProviderID = uuid.New() }, ErrNotFound},
		{"unknown listing", customer, func(r *dto.CreateBookingRequest) { r.ServiceListingID = uuid.New() }, ErrNotFound},
		{"foreign listing", customer, func(r *dto.CreateBookingRequest) { r.ServiceListingID = other.listing.ID }, ErrValidation},
		{"inactive listing", customer, func(r *dto.CreateBookingRequest) { r.ServiceListingID = inactive.ID }, ErrValidation},
		{"own profile", ps.user, func(r *dto.CreateBookingRequest) {}, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(req)
			_, err := f.bookings.CreateBooking(f.ctx, caller(tt.caller), req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreateBooking_InactiveProviderAccount(t *testing.T) {
	f := newFixture(t)
	customer := f.user(t, models.RoleCustomer)
	ps := f.provider(t, 10)
	require.NoError(t, f.store.Users.SetActive(f.ctx, ps.user.ID, false))

	_, err := f.bookings.CreateBooking(f.ctx, caller(customer), &dto.CreateBookingRequest{
		ServiceProviderID: ps.provider.ID,
		ServiceListingID:  ps.listing.ID,
		ServiceDateTime:   time.Now().Add(time.Hour),
		TotalAmount:       amount(80),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateStatus_ScenarioB(t *testing.T) {
	f := newFixture(t)
	customer := f.user(t, models.RoleCustomer)
	ps := f.provider(t, 10)
	b := f.book(t, customer, ps, 100)

	confirmed, err := f.bookings.UpdateStatus(f.ctx, b.ID, caller(ps.user), "Confirmed")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, confirmed.BookingStatus)

	_, err = f.bookings.UpdateStatus(f.ctx, b.ID, caller(customer), "Pending")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_TransitionAuthorization(t *testing.T) {
	tests := []struct {
		name    string
		setup   []models.BookingStatus
		actor   string
		target  models.BookingStatus
		wantErr error
	}{
		{"customer cannot confirm", nil, "customer", models.BookingStatusConfirmed, ErrForbidden},
		{"provider confirms", nil, "provider", models.BookingStatusConfirmed, nil},
		{"admin confirms", nil, "admin", models.BookingStatusConfirmed, nil},
		{"customer cancels pending", nil, "customer", models.BookingStatusCancelled, nil},
		{"provider cancels pending", nil, "provider", models.BookingStatusCancelled, nil},
		{"customer cannot complete", []models.BookingStatus{models.BookingStatusConfirmed}, "customer", models.BookingStatusCompleted, ErrForbidden},
		{"provider completes", []models.BookingStatus{models.BookingStatusConfirmed}, "provider", models.BookingStatusCompleted, nil},
		{"admin completes", []models.BookingStatus{models.BookingStatusConfirmed}, "admin", models.BookingStatusCompleted, nil},
		{"customer cancels confirmed", []models.BookingStatus{models.BookingStatusConfirmed}, "customer", models.BookingStatusCancelled, nil},
		{"pending cannot complete", nil, "provider", models.BookingStatusCompleted, ErrInvalidTransition},
		{"stranger is forbidden", nil, "stranger", models.BookingStatusCancelled, ErrForbidden},
		{"other provider is forbidden", nil, "other provider", models.BookingStatusConfirmed, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			customer := f.user(t, models.RoleCustomer)
			ps := f.provider(t, 10)
			actors := map[string]*models.User{
				"customer":       customer,
				"provider":       ps.user,
				"admin":          f.user(t, models.RoleAdmin),
				"stranger":       f.user(t, models.RoleCustomer),
				"other provider": f.provider(t, 10).user,
			}
			b := f.book(t, customer, ps, 100)
			f.advance(t, b, ps.user, tt.setup...)

			got, err := f.bookings.UpdateStatus(f.ctx, b.ID, caller(actors[tt.actor]), string(tt.target))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.target, got.BookingStatus)
		})
	}
}

func TestUpdateStatus_TerminalStatesAreFinal(t *testing.T) {
	all := []models.BookingStatus{
		models.BookingStatusPending,
		models.BookingStatusConfirmed,
		models.BookingStatusCompleted,
		models.BookingStatusCancelled,
	}
	terminalPaths := map[models.BookingStatus][]models.BookingStatus{
		models.BookingStatusCompleted: {models.BookingStatusConfirmed, models.BookingStatusCompleted},
		models.BookingStatusCancelled: {models.BookingStatusCancelled},
	}

	for terminal, path := range terminalPaths {
		f := newFixture(t)
		customer := f.user(t, models.RoleCustomer)
		admin := f.user(t, models.RoleAdmin)
		ps := f.provider(t, 10)
		b := f.book(t, customer, ps, 100)
		f.advance(t, b, ps.user, path...)

		for _, target := range all {
			if target == terminal {
				continue
			}
			for _, actor := range []*models.User{customer, ps.user, admin} {
				_, err := f.bookings.UpdateStatus(f.ctx, b.ID, caller(actor), string(target))
				assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s by %s", terminal, target, actor.UserType)
			}
		}

		stored, err := f.store.Bookings.FindByID(f.ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, terminal, stored.BookingStatus)
	}
}

func TestUpdateStatus_SameStatusIsNoOp(t *testing.T) {
	f := newFixture(t)
	customer := f.user(t, models.RoleCustomer)
	ps := f.provider(t, 10)
	b := f.book(t, customer, ps, 100)
	f.advance(t, b, ps.user, models.BookingStatusConfirmed, models.BookingStatusCompleted)

	before, err := f.store.Bookings.FindByID(f.ctx, b.ID)
	require.NoError(t, err)

	for _, actor := range []*models.User{customer, ps.user} {
		got, err := f.bookings.UpdateStatus(f.ctx, b.ID, caller(actor), "Completed")
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusCompleted, got.BookingStatus)
	}

	after, err := f.store.Bookings.FindByID(f.ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdateStatus_Errors(t *testing.T) {
	f := newFixture(t)
	customer := f.user(t, models.RoleCustomer)
	ps := f.provider(t, 10)
	b := f.book(t, customer, ps, 100)

	_, err := f.bookings.UpdateStatus(f.ctx, uuid.New(), caller(customer), "Cancelled")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.bookings.UpdateStatus(f.ctx, b.ID, caller(customer), "Archived")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateStatus_ConcurrentConflictingTransitions(t *testing.T) {
	f := newFixture(t)
	customer := f.user(t, models.RoleCustomer)
	ps := f.provider(t, 10)
	b := f.book(t, customer, ps, 100)
	f.advance(t, b, ps.user, models.BookingStatusConfirmed)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	targets := []struct {
		actor  *models.User
		status models.BookingStatus
	}{
		{ps.user, models.BookingStatusCompleted},
		{customer, models.BookingStatusCancelled},
	}
	for i, tgt := range targets {
		wg.Add(1)
		go func(i int, actor *models.User, status models.BookingStatus) {
			defer wg.Done()
			_, errs[i] = f.bookings.UpdateStatus(f.ctx, b.ID, caller(actor), string(status))
		}(i, tgt.actor, tgt.status)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrInvalidTransition)
		}
	}
	assert.Equal(t, 1, succeeded)

	stored, err := f.store.Bookings.FindByID(f.ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, stored.BookingStatus.IsTerminal())
}

func TestUpdateStatus_ConcurrentSameTarget(t *testing.T) {
	f := newFixture(t)
	customer := f.user(t, models.RoleCustomer)
	ps := f.provider(t, 10)
	b := f.book(t, customer, ps, 100)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.bookings.UpdateStatus(f.ctx, b.ID, caller(ps.user), "Confirmed")
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestAdjustTotalAmount(t *testing.T) {
	f := newFixture(t)
	customer := f.user(t, models.RoleCustomer)
	ps := f.provider(t, 10)
	b := f.book(t, customer, ps, 100)

	_, err := f.providers.UpdateCommissionRate(f.ctx, ps.provider.ID, &dto.UpdateCommissionRequest{CommissionRate: amount(15)})
	require.NoError(t, err)

	got, err := f.bookings.AdjustTotalAmount(f.ctx, b.ID, &dto.AdjustAmountRequest{TotalAmount: amount(250)})
	require.NoError(t, err)
	assert.Equal(t, 250.0, got.TotalAmount)
	assert.Equal(t, 37.5, got.CommissionAmount)
	assert.Equal(t, 212.5, got.ProviderEarning)

	_, err = f.bookings.AdjustTotalAmount(f.ctx, b.ID, &dto.AdjustAmountRequest{TotalAmount: amount(-5)})
	assert.ErrorIs(t, err, ErrValidation)

	f.advance(t, b, customer, models.BookingStatusCancelled)
	_, err = f.bookings.AdjustTotalAmount(f.ctx, b.ID, &dto.AdjustAmountRequest{TotalAmount: amount(10)})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestAdjustTotalAmount_Limits(t *testing.T) {
	f := newFixture(t)
	customer := f.user(t, models.RoleCustomer)
	ps := f.provider(t, 10)
	b := f.book(t, customer, ps, 100)

	got, err := f.bookings.AdjustTotalAmount(f.ctx, b.ID, &dto.AdjustAmountRequest{TotalAmount: amount(models.MaxAmount)})
	require.NoError(t, err)
	assert.Equal(t, models.MaxAmount, got.TotalAmount)
	assert.Equal(t, 1000000000.0, got.CommissionAmount)
	assert.Equal(t, 8999999999.99, got.ProviderEarning)

	for _, v := range []float64{models.MaxAmount + 0.01, 1e19, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := f.bookings.AdjustTotalAmount(f.ctx, b.ID, &dto.AdjustAmountRequest{TotalAmount: amount(v)})
		assert.ErrorIs(t, err, ErrValidation, "amount %v", v)
	}

	stored, err := f.bookings.GetBooking(f.ctx, b.ID, caller(customer))
	require.NoError(t, err)
	assert.Equal(t, models.MaxAmount, stored.TotalAmount)
}

func TestCreateBooking_RejectsCorruptProviderRate(t *testing.T) {
	f := newFixture(t)
	customer := f.user(t, models.RoleCustomer)

	for _, rate := range []float64{math.NaN(), math.Inf(1), -1, 100.5} {
		ps := f.provider(t, rate)
		_, err := f.bookings.CreateBooking(f.ctx, caller(customer), &dto.CreateBookingRequest{
			ServiceProviderID: ps.provider.ID,
			ServiceListingID:  ps.listing.ID,
			ServiceDateTime:   time.Now().Add(time.Hour),
			TotalAmount:       amount(100),
		})
		assert.ErrorIs(t, err, ErrInvariantViolation, "rate %v", rate)
	}
}

func TestGetAndListBookings_Visibility(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, models.RoleCustomer)
	bob := f.user(t, models.RoleCustomer)
	admin := f.user(t, models.RoleAdmin)
	ps := f.provider(t, 10)
	other := f.provider(t, 10)

	a1 := f.book(t, alice, ps, 10)
	a2 := f.book(t, alice, other, 20)
	b1 := f.book(t, bob, ps, 30)

	_, err := f.bookings.GetBooking(f.ctx, a1.ID, caller(bob))
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.bookings.GetBooking(f.ctx, a2.ID, caller(ps.user))
	assert.ErrorIs(t, err, ErrForbidden)
	got, err := f.bookings.GetBooking(f.ctx, a1.ID, caller(ps.user))
	require.NoError(t, err)
	assert.Equal(t, a1.ID, got.ID)

	ids := func(p *dto.Page) []uuid.UUID {
		var out []uuid.UUID
		for _, b := range p.Items.([]models.Booking) {
			out = append(out, b.ID)
		}
		return out
	}

	page, err := f.bookings.ListBookings(f.ctx, caller(alice), &dto.ListBookingsQuery{})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a2.ID, a1.ID}, ids(page))

	page, err = f.bookings.ListBookings(f.ctx, caller(ps.user), &dto.ListBookingsQuery{})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b1.ID, a1.ID}, ids(page))

	page, err = f.bookings.ListBookings(f.ctx, caller(admin), &dto.ListBookingsQuery{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, ids(page), 2)

	f.advance(t, b1, bob, models.BookingStatusCancelled)
	page, err = f.bookings.ListBookings(f.ctx, caller(admin), &dto.ListBookingsQuery{Status: "Cancelled"})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b1.ID}, ids(page))

	_, err = f.bookings.ListBookings(f.ctx, caller(admin), &dto.ListBookingsQuery{Status: "Lost"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCommissionSettlement(t *testing.T) {
	f := newFixture(t)
	customer := f.user(t, models.RoleCustomer)
	ps := f.provider(t, 20)

	done := f.book(t, customer, ps, 200)
	f.advance(t, done, ps.user, models.BookingStatusConfirmed, models.BookingStatusCompleted)
	open := f.book(t, customer, ps, 50)
	unpaid := f.book(t, customer, ps, 100)
	f.advance(t, unpaid, ps.user, models.BookingStatusConfirmed, models.BookingStatusCompleted)

	_, err := f.bookings.MarkCommissionPaid(f.ctx, open.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	paid, err := f.bookings.MarkCommissionPaid(f.ctx, done.ID)
	require.NoError(t, err)
	assert.True(t, paid.CommissionPaid)

	again, err := f.bookings.MarkCommissionPaid(f.ctx, done.ID)
	require.NoError(t, err)
	assert.True(t, again.CommissionPaid)

	totals, err := f.bookings.CommissionSummary(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), totals.CompletedBookings)
	assert.Equal(t, 300.0, totals.GrossAmount)
	assert.Equal(t, 40.0, totals.CommissionPaid)
	assert.Equal(t, 20.0, totals.CommissionUnpaid)
	assert.Equal(t, 240.0, totals.ProviderEarnings)
}
