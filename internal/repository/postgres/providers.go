package postgres

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type providerRepo struct {
	db *gorm.DB
}

func (r *providerRepo) Create(ctx context.Context, provider *models.ServiceProvider) error {
	if provider.ID == uuid.Nil {
		provider.ID = uuid.New()
	}
	return translate(r.db.WithContext(ctx).Create(provider).Error)
}

func (r *providerRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ServiceProvider, error) {
	var provider models.ServiceProvider
	if err := r.db.WithContext(ctx).First(&provider, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &provider, nil
}

func (r *providerRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.ServiceProvider, error) {
	var provider models.ServiceProvider
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&provider).Error; err != nil {
		return nil, translate(err)
	}
	return &provider, nil
}

func (r *providerRepo) UpdateCommissionRate(ctx context.Context, id uuid.UUID, rate float64) error {
	result := r.db.WithContext(ctx).Model(&models.ServiceProvider{}).
		Where("id = ?", id).
		Update("commission_rate", rate)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type listingRepo struct {
	db *gorm.DB
}

func (r *listingRepo) Create(ctx context.Context, listing *models.ServiceListing) error {
	if listing.ID == uuid.Nil {
		listing.ID = uuid.New()
	}
	return translate(r.db.WithContext(ctx).Create(listing).Error)
}

func (r *listingRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ServiceListing, error) {
	var listing models.ServiceListing
	if err := r.db.WithContext(ctx).First(&listing, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &listing, nil
}

func (r *listingRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result := r.db.WithContext(ctx).Model(&models.ServiceListing{}).
		Where("id = ?", id).
		Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
