package dto

import (
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/models"
	"github.com/google/uuid"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	UserType string `json:"userType" validate:"omitempty,oneof=customer service_provider"`

	// Provider profile, used when UserType is service_provider.
	BusinessName string   `json:"businessName" validate:"omitempty,max=160"`
	Description  string   `json:"description" validate:"omitempty,max=2000"`
	Specialties  []string `json:"specialties" validate:"omitempty,max=20,dive,max=60"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID                uuid.UUID   `json:"id"`
	Name              string      `json:"name"`
	Email             string      `json:"email"`
	UserType          models.Role `json:"userType"`
	IsActive          bool        `json:"isActive"`
	ServiceProviderID *uuid.UUID  `json:"serviceProviderId,omitempty"`
}

func NewUserResponse(user *models.User, providerID *uuid.UUID) UserResponse {
	return UserResponse{
		ID:                user.ID,
		Name:              user.Name,
		Email:             user.Email,
		UserType:          user.UserType,
		IsActive:          user.IsActive,
		ServiceProviderID: providerID,
	}
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Store     string `json:"store"`
}
