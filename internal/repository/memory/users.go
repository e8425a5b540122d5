package memory

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/repository"
	"github.com/google/uuid"
)

type userRepo struct {
	db *db
}

func (r *userRepo) Create(_ context.Context, user *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if sameEmail(u.val.Email, user.Email) {
			return repository.ErrDuplicate
		}
	}
	stamp(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if _, exists := r.db.users[user.ID]; exists {
		return repository.ErrDuplicate
	}
	r.db.users[user.ID] = &row[models.User]{seq: r.db.next(), val: *user}
	return nil
}

func (r *userRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user := u.val
	return &user, nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, u := range r.db.users {
		if sameEmail(u.val.Email, email) {
			user := u.val
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) List(_ context.Context, filter repository.UserFilter) ([]models.User, int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	rows := make([]*row[models.User], 0, len(r.db.users))
	for _, u := range r.db.users {
		if filter.UserType != "" && u.val.UserType != filter.UserType {
			continue
		}
		rows = append(rows, u)
	}
	newestFirst(rows, func(u *models.User) time.Time { return u.CreatedAt })

	users := make([]models.User, len(rows))
	for i, u := range rows {
		users[i] = u.val
	}
	return page(users, filter.Limit, filter.Offset), int64(len(users)), nil
}

func (r *userRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.val.IsActive = active
	u.val.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *userRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[id]; !ok {
		return repository.ErrNotFound
	}
	for hash, t := range r.db.tokens {
		if t.UserID == id {
			delete(r.db.tokens, hash)
		}
	}
	delete(r.db.users, id)
	return nil
}

func (r *userRepo) CountAdmins(_ context.Context, activeOnly bool) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var count int64
	for _, u := range r.db.users {
		if u.val.UserType != models.RoleAdmin {
			continue
		}
		if activeOnly && !u.val.IsActive {
			continue
		}
		count++
	}
	return count, nil
}

func (r *userRepo) WithAdminLock(_ context.Context, fn func(tx *repository.Store) error) error {
	r.db.adminMu.Lock()
	defer r.db.adminMu.Unlock()
	return fn(r.db.store())
}
