package postgres

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type reviewRepo struct {
	db *gorm.DB
}

// Create relies on the unique index on reviews.booking_id for at-most-once semantics.
func (r *reviewRepo) Create(ctx context.Context, review *models.Review) error {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	return translate(r.db.WithContext(ctx).Create(review).Error)
}

func (r *reviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *reviewRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&review).Error; err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *reviewRepo) Update(ctx context.Context, review *models.Review) error {
	result := r.db.WithContext(ctx).Model(review).
		Select("rating", "review_text").
		Updates(review)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *reviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *reviewRepo) ListByBookingIDs(ctx context.Context, bookingIDs []uuid.UUID) ([]models.Review, error) {
	reviews := []models.Review{}
	if len(bookingIDs) == 0 {
		return reviews, nil
	}
	err := r.db.WithContext(ctx).
		Where("booking_id IN ?", bookingIDs).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

type refreshTokenRepo struct {
	db *gorm.DB
}

func (r *refreshTokenRepo) Create(ctx context.Context, token *models.RefreshToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	return translate(r.db.WithContext(ctx).Create(token).Error)
}

func (r *refreshTokenRepo) FindActive(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := r.db.WithContext(ctx).Where("token_hash = ? AND revoked = false", tokenHash).First(&token).Error; err != nil {
		return nil, translate(err)
	}
	return &token, nil
}

func (r *refreshTokenRepo) Revoke(ctx context.Context, tokenHash string) error {
	return r.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}
