package models

import (
	"errors"
	"math"
)

// MaxAmount is the largest value a numeric(12,2) money column holds.
const MaxAmount = 9999999999.99

var (
	ErrInvalidAmount = errors.New("amount must be a finite number between 0 and 9999999999.99")
	ErrInvalidRate   = errors.New("commission rate must be a finite number between 0 and 100")
)

// CheckAmount rejects negative, non-finite and out-of-column amounts.
func CheckAmount(amount float64) error {
	if math.IsNaN(amount) || amount < 0 || amount > MaxAmount {
		return ErrInvalidAmount
	}
	return nil
}

// CheckRate rejects rates outside [0, 100], NaN included.
func CheckRate(rate float64) error {
	if math.IsNaN(rate) || rate < 0 || rate > 100 {
		return ErrInvalidRate
	}
	return nil
}

// DeriveCommission splits totalAmount into the platform commission and the provider
// earning for a percentage rate. The split is done in cents so that
// commission + earning always equals the (cent-rounded) total.
// Inputs failing CheckAmount or CheckRate are clamped into range first.
func DeriveCommission(totalAmount, rate float64) (commission, earning float64) {
	totalCents := toCents(totalAmount)
	switch {
	case math.IsNaN(rate) || rate < 0:
		rate = 0
	case rate > 100:
		rate = 100
	}
	commissionCents := int64(math.Round(float64(totalCents) * rate / 100))
	return float64(commissionCents) / 100, float64(totalCents-commissionCents) / 100
}

func toCents(amount float64) int64 {
	switch {
	case math.IsNaN(amount) || amount <= 0:
		return 0
	case amount >= MaxAmount:
		return int64(math.Round(MaxAmount * 100))
	}
	return int64(math.Round(amount * 100))
}

// RoundCents rounds amount to two decimal places.
func RoundCents(amount float64) float64 {
	return float64(toCents(amount)) / 100
}
