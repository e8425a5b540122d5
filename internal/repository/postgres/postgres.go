// Package postgres implements the repository contracts on top of GORM and PostgreSQL.
package postgres

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// New builds a repository.Store backed by db.
func New(db *gorm.DB) *repository.Store {
	return &repository.Store{
		Users:         &userRepo{db: db},
		Providers:     &providerRepo{db: db},
		Listings:      &listingRepo{db: db},
		Bookings:      &bookingRepo{db: db},
		Reviews:       &reviewRepo{db: db},
		RefreshTokens: &refreshTokenRepo{db: db},
		Settings:      &settingRepo{db: db},
	}
}

// translate maps driver errors onto the repository sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repository.ErrDuplicate
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrDuplicate
	}
	return err
}

func paginate(limit, offset int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if limit > 0 {
			db = db.Limit(limit)
		}
		if offset > 0 {
			db = db.Offset(offset)
		}
		return db
	}
}
