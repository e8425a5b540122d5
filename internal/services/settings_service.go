package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/repository"
)

var defaultSettings = []models.PlatformSetting{
	{Key: models.SettingDefaultCommissionRate, Value: strconv.FormatFloat(models.DefaultCommissionRate, 'f', -1, 64), Type: "float"},
}

type SettingsService struct {
	settings repository.SettingRepository
}

func NewSettingsService(settings repository.SettingRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

// GetSettings returns every setting decoded by its declared type.
func (s *SettingsService) GetSettings(ctx context.Context) (map[string]interface{}, error) {
	settings, err := s.settings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}

	result := make(map[string]interface{}, len(settings))
	for _, setting := range settings {
		value, err := decodeSetting(setting.Type, setting.Value)
		if err != nil {
			slog.Warn("stored setting does not match its type", "key", setting.Key, "type", setting.Type, "error", err)
			value = setting.Value
		}
		result[setting.Key] = value
	}
	return result, nil
}

func (s *SettingsService) SetSetting(ctx context.Context, key, value, valueType string) (*models.PlatformSetting, error) {
	if key == "" || len(key) > 100 {
		return nil, newError(ErrValidation, "key must be between 1 and 100 characters")
	}
	if valueType == "" {
		valueType = "string"
	}
	if _, err := decodeSetting(valueType, value); err != nil {
		return nil, newError(ErrValidation, "value is not a valid %s: %v", valueType, err)
	}
	if key == models.SettingDefaultCommissionRate {
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil || models.CheckRate(rate) != nil {
			return nil, newError(ErrValidation, "%s must be a number between 0 and 100", key)
		}
		valueType = "float"
	}

	setting := &models.PlatformSetting{Key: key, Value: value, Type: valueType}
	if err := s.settings.Upsert(ctx, setting); err != nil {
		return nil, fmt.Errorf("failed to save setting: %w", err)
	}
	return setting, nil
}

func (s *SettingsService) DeleteSetting(ctx context.Context, key string) error {
	if err := s.settings.Delete(ctx, key); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, "setting %q not found", key)
		}
		return fmt.Errorf("failed to delete setting: %w", err)
	}
	return nil
}

// SeedDefaults inserts the built-in settings that are not stored yet.
func (s *SettingsService) SeedDefaults(ctx context.Context) error {
	for _, def := range defaultSettings {
		setting := def
		if err := s.settings.CreateIfMissing(ctx, &setting); err != nil {
			return fmt.Errorf("failed to seed setting %s: %w", setting.Key, err)
		}
	}
	return nil
}

// DefaultCommissionRate is the rate given to newly registered providers.
func (s *SettingsService) DefaultCommissionRate(ctx context.Context) float64 {
	setting, err := s.settings.Get(ctx, models.SettingDefaultCommissionRate)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			slog.Error("failed to read default commission rate", "error", err)
		}
		return models.DefaultCommissionRate
	}
	rate, err := strconv.ParseFloat(setting.Value, 64)
	if err != nil || models.CheckRate(rate) != nil {
		slog.Warn("invalid default commission rate setting, using fallback", "value", setting.Value)
		return models.DefaultCommissionRate
	}
	return rate
}

func decodeSetting(valueType, raw string) (interface{}, error) {
	switch valueType {
	case "bool":
		return strconv.ParseBool(raw)
	case "int":
		return strconv.Atoi(raw)
	case "float":
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%q is not a finite number", raw)
		}
		return v, nil
	case "json":
		var value interface{}
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			return nil, err
		}
		return value, nil
	case "string":
		return raw, nil
	default:
		return nil, fmt.Errorf("unknown type %q", valueType)
	}
}
