// Package memory is an in-process implementation of the repository contracts.
// It enforces the same unique keys and conditional updates as the SQL schema and
// backs local development (STORE_DRIVER=memory) and the test suites.
package memory

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/repository"
	"github.com/google/uuid"
)

type db struct {
	mu      sync.RWMutex
	adminMu sync.Mutex
	seq     int64

	users     map[uuid.UUID]*row[models.User]
	providers map[uuid.UUID]*row[models.ServiceProvider]
	listings  map[uuid.UUID]*row[models.ServiceListing]
	bookings  map[uuid.UUID]*row[models.Booking]
	reviews   map[uuid.UUID]*row[models.Review]
	tokens    map[string]*models.RefreshToken
	settings  map[string]*models.PlatformSetting
}

// row keeps an insertion sequence next to each record so that
// "newest first" ordering is stable when timestamps collide.
type row[T any] struct {
	seq int64
	val T
}

// New returns an empty in-memory store.
func New() *repository.Store {
	d := &db{
		users:     make(map[uuid.UUID]*row[models.User]),
		providers: make(map[uuid.UUID]*row[models.ServiceProvider]),
		listings:  make(map[uuid.UUID]*row[models.ServiceListing]),
		bookings:  make(map[uuid.UUID]*row[models.Booking]),
		reviews:   make(map[uuid.UUID]*row[models.Review]),
		tokens:    make(map[string]*models.RefreshToken),
		settings:  make(map[string]*models.PlatformSetting),
	}
	return d.store()
}

func (d *db) store() *repository.Store {
	return &repository.Store{
		Users:         &userRepo{db: d},
		Providers:     &providerRepo{db: d},
		Listings:      &listingRepo{db: d},
		Bookings:      &bookingRepo{db: d},
		Reviews:       &reviewRepo{db: d},
		RefreshTokens: &refreshTokenRepo{db: d},
		Settings:      &settingRepo{db: d},
	}
}

func (d *db) next() int64 {
	d.seq++
	return d.seq
}

func stamp(id *uuid.UUID, createdAt, updatedAt *time.Time) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	now := time.Now().UTC()
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
}

// newestFirst sorts rows by creation time, then insertion order, descending.
func newestFirst[T any](rows []*row[T], createdAt func(*T) time.Time) {
	sort.SliceStable(rows, func(i, j int) bool {
		ti, tj := createdAt(&rows[i].val), createdAt(&rows[j].val)
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return rows[i].seq > rows[j].seq
	})
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func sameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
