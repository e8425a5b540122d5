package memory

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/repository"
	"github.com/google/uuid"
)

type reviewRepo struct {
	db *db
}

// Create enforces the booking_id unique key under the store lock.
func (r *reviewRepo) Create(_ context.Context, review *models.Review) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, rv := range r.db.reviews {
		if rv.val.BookingID == review.BookingID {
			return repository.ErrDuplicate
		}
	}
	stamp(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	r.db.reviews[review.ID] = &row[models.Review]{seq: r.db.next(), val: *review}
	return nil
}

func (r *reviewRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Review, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	rv, ok := r.db.reviews[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	review := rv.val
	return &review, nil
}

func (r *reviewRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) (*models.Review, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, rv := range r.db.reviews {
		if rv.val.BookingID == bookingID {
			review := rv.val
			return &review, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *reviewRepo) Update(_ context.Context, review *models.Review) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	rv, ok := r.db.reviews[review.ID]
	if !ok {
		return repository.ErrNotFound
	}
	rv.val.Rating = review.Rating
	rv.val.ReviewText = review.ReviewText
	rv.val.UpdatedAt = time.Now().UTC()
	review.UpdatedAt = rv.val.UpdatedAt
	return nil
}

func (r *reviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.reviews[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.reviews, id)
	return nil
}

func (r *reviewRepo) ListByBookingIDs(_ context.Context, bookingIDs []uuid.UUID) ([]models.Review, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	wanted := make(map[uuid.UUID]struct{}, len(bookingIDs))
	for _, id := range bookingIDs {
		wanted[id] = struct{}{}
	}

	rows := make([]*row[models.Review], 0)
	for _, rv := range r.db.reviews {
		if _, ok := wanted[rv.val.BookingID]; ok {
			rows = append(rows, rv)
		}
	}
	newestFirst(rows, func(rv *models.Review) time.Time { return rv.CreatedAt })

	reviews := make([]models.Review, len(rows))
	for i, rv := range rows {
		reviews[i] = rv.val
	}
	return reviews, nil
}

type refreshTokenRepo struct {
	db *db
}

func (r *refreshTokenRepo) Create(_ context.Context, token *models.RefreshToken) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, exists := r.db.tokens[token.TokenHash]; exists {
		return repository.ErrDuplicate
	}
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}
	t := *token
	r.db.tokens[token.TokenHash] = &t
	return nil
}

func (r *refreshTokenRepo) FindActive(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	t, ok := r.db.tokens[tokenHash]
	if !ok || t.Revoked {
		return nil, repository.ErrNotFound
	}
	token := *t
	return &token, nil
}

func (r *refreshTokenRepo) Revoke(_ context.Context, tokenHash string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if t, ok := r.db.tokens[tokenHash]; ok {
		t.Revoked = true
	}
	return nil
}
