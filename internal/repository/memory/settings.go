package memory

import (
	"context"
	"sort"
	"time"

	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/repository"
	"github.com/google/uuid"
)

type settingRepo struct {
	db *db
}

func (r *settingRepo) List(_ context.Context) ([]models.PlatformSetting, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	settings := make([]models.PlatformSetting, 0, len(r.db.settings))
	for _, s := range r.db.settings {
		settings = append(settings, *s)
	}
	sort.Slice(settings, func(i, j int) bool { return settings[i].Key < settings[j].Key })
	return settings, nil
}

func (r *settingRepo) Get(_ context.Context, key string) (*models.PlatformSetting, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	s, ok := r.db.settings[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	setting := *s
	return &setting, nil
}

func (r *settingRepo) Upsert(_ context.Context, setting *models.PlatformSetting) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := r.db.settings[setting.Key]; ok {
		existing.Value = setting.Value
		existing.Type = setting.Type
		existing.UpdatedAt = now
		*setting = *existing
		return nil
	}
	r.insert(setting, now)
	return nil
}

func (r *settingRepo) CreateIfMissing(_ context.Context, setting *models.PlatformSetting) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.settings[setting.Key]; ok {
		return nil
	}
	r.insert(setting, time.Now().UTC())
	return nil
}

func (r *settingRepo) insert(setting *models.PlatformSetting, now time.Time) {
	if setting.ID == uuid.Nil {
		setting.ID = uuid.New()
	}
	setting.CreatedAt = now
	setting.UpdatedAt = now
	s := *setting
	r.db.settings[setting.Key] = &s
}

func (r *settingRepo) Delete(_ context.Context, key string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.settings[key]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.settings, key)
	return nil
}
