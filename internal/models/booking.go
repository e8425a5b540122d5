package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusCompleted BookingStatus = "Completed"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

var bookingTransitions = map[BookingStatus]map[BookingStatus]bool{
	BookingStatusPending:   {BookingStatusConfirmed: true, BookingStatusCancelled: true},
	BookingStatusConfirmed: {BookingStatusCompleted: true, BookingStatusCancelled: true},
	BookingStatusCompleted: {},
	BookingStatusCancelled: {},
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	st := BookingStatus(s)
	if _, ok := bookingTransitions[st]; !ok {
		return "", fmt.Errorf("unknown booking status: %q", s)
	}
	return st, nil
}

// CanTransitionTo reports whether next is directly reachable from s.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	return bookingTransitions[s][next]
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// Booking is one scheduled engagement between a customer and a provider listing.
// CommissionAmount and ProviderEarning are derived from TotalAmount and CommissionRate
// and are only written through SetTotalAmount.
type Booking struct {
	ID                  uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID          uuid.UUID     `gorm:"type:uuid;not null;index" json:"customerId"`
	ServiceProviderID   uuid.UUID     `gorm:"type:uuid;not null;index" json:"serviceProviderId"`
	ServiceListingID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"serviceListingId"`
	ServiceDateTime     time.Time     `gorm:"not null" json:"serviceDateTime"`
	TotalAmount         float64       `gorm:"type:numeric(12,2);not null" json:"totalAmount"`
	BookingStatus       BookingStatus `gorm:"size:20;not null;default:'Pending';index" json:"bookingStatus"`
	CommissionRate      float64       `gorm:"type:numeric(5,2);not null" json:"commissionRate"`
	CommissionAmount    float64       `gorm:"type:numeric(12,2);not null" json:"commissionAmount"`
	ProviderEarning     float64       `gorm:"type:numeric(12,2);not null" json:"providerEarning"`
	CommissionPaid      bool          `gorm:"not null;default:false" json:"commissionPaid"`
	SpecialInstructions string        `gorm:"size:500" json:"specialInstructions,omitempty"`
	CreatedAt           time.Time     `json:"createdAt"`
	UpdatedAt           time.Time     `json:"updatedAt"`
}

// SetTotalAmount stores amount (rounded to cents) and recomputes the derived pair from rate.
// The booking is left untouched when amount or rate is out of range.
func (b *Booking) SetTotalAmount(amount, rate float64) error {
	if err := CheckAmount(amount); err != nil {
		return err
	}
	if err := CheckRate(rate); err != nil {
		return err
	}
	b.TotalAmount = RoundCents(amount)
	b.CommissionRate = rate
	b.CommissionAmount, b.ProviderEarning = DeriveCommission(b.TotalAmount, rate)
	return nil
}

// BeforeSave keeps the derived commission pair consistent with TotalAmount on every write.
func (b *Booking) BeforeSave(tx *gorm.DB) error {
	commission, earning := DeriveCommission(b.TotalAmount, b.CommissionRate)
	if commission != b.CommissionAmount || earning != b.ProviderEarning {
		return b.SetTotalAmount(b.TotalAmount, b.CommissionRate)
	}
	if err := CheckAmount(b.TotalAmount); err != nil {
		return err
	}
	return CheckRate(b.CommissionRate)
}

// Review is the single customer review allowed for a completed booking.
type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BookingID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"bookingId"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customerId"`
	Rating     int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	ReviewText string    `gorm:"size:1000" json:"reviewText"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
