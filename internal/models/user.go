package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a customer, service provider or admin account.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Phone     string    `gorm:"size:32" json:"phone,omitempty"`
	Password  string    `gorm:"not null" json:"-"`
	UserType  Role      `gorm:"size:20;not null;default:'customer';index" json:"userType"`
	IsActive  bool      `gorm:"not null;default:true;index" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.UserType == RoleAdmin
}
