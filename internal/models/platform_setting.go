package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const SettingDefaultCommissionRate = "default_commission_rate"

// PlatformSetting is an admin-managed key/value setting.
type PlatformSetting struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Key       string    `gorm:"size:100;not null;uniqueIndex" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	Type      string    `gorm:"size:20;default:'string'" json:"type"` // string, bool, int, float, json
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate ensures UUID is set before creation
func (s *PlatformSetting) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (PlatformSetting) TableName() string {
	return "platform_settings"
}
