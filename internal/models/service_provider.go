package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DefaultCommissionRate is the platform cut, in percent, used when no setting overrides it.
const DefaultCommissionRate = 10.0

// ServiceProvider is the provider profile owned 1:1 by a service_provider user.
type ServiceProvider struct {
	ID             uuid.UUID                   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID         uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	BusinessName   string                      `gorm:"size:160" json:"businessName"`
	Description    string                      `gorm:"type:text" json:"description,omitempty"`
	Specialties    datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"specialties"`
	CommissionRate float64                     `gorm:"type:numeric(5,2);not null;default:10" json:"commissionRate"`
	CreatedAt      time.Time                   `json:"createdAt"`
	UpdatedAt      time.Time                   `json:"updatedAt"`
}

// ServiceListing is a bookable offer published by a provider.
type ServiceListing struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ServiceProviderID uuid.UUID `gorm:"type:uuid;not null;index" json:"serviceProviderId"`
	Title             string    `gorm:"size:200;not null" json:"title"`
	Description       string    `gorm:"type:text" json:"description,omitempty"`
	Price             float64   `gorm:"type:numeric(12,2);not null" json:"price"`
	IsActive          bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
