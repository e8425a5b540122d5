package memory

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/repository"
	"github.com/google/uuid"
)

type providerRepo struct {
	db *db
}

func (r *providerRepo) Create(_ context.Context, provider *models.ServiceProvider) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, p := range r.db.providers {
		if p.val.UserID == provider.UserID {
			return repository.ErrDuplicate
		}
	}
	stamp(&provider.ID, &provider.CreatedAt, &provider.UpdatedAt)
	r.db.providers[provider.ID] = &row[models.ServiceProvider]{seq: r.db.next(), val: *provider}
	return nil
}

func (r *providerRepo) FindByID(_ context.Context, id uuid.UUID) (*models.ServiceProvider, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	p, ok := r.db.providers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	provider := p.val
	return &provider, nil
}

func (r *providerRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*models.ServiceProvider, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, p := range r.db.providers {
		if p.val.UserID == userID {
			provider := p.val
			return &provider, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *providerRepo) UpdateCommissionRate(_ context.Context, id uuid.UUID, rate float64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.providers[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.val.CommissionRate = rate
	p.val.UpdatedAt = time.Now().UTC()
	return nil
}

type listingRepo struct {
	db *db
}

func (r *listingRepo) Create(_ context.Context, listing *models.ServiceListing) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stamp(&listing.ID, &listing.CreatedAt, &listing.UpdatedAt)
	r.db.listings[listing.ID] = &row[models.ServiceListing]{seq: r.db.next(), val: *listing}
	return nil
}

func (r *listingRepo) FindByID(_ context.Context, id uuid.UUID) (*models.ServiceListing, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	l, ok := r.db.listings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	listing := l.val
	return &listing, nil
}

func (r *listingRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	l, ok := r.db.listings[id]
	if !ok {
		return repository.ErrNotFound
	}
	l.val.IsActive = active
	l.val.UpdatedAt = time.Now().UTC()
	return nil
}
