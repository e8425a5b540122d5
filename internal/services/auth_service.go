package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Caller is the authenticated user behind a request, re-read from the store.
type Caller struct {
	ID       uuid.UUID
	Role     models.Role
	IsActive bool
}

func (c *Caller) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

type AuthService struct {
	store    *repository.Store
	cfg      *config.Config
	settings *SettingsService
}

func NewAuthService(store *repository.Store, cfg *config.Config, settings *SettingsService) *AuthService {
	return &AuthService{
		store:    store,
		cfg:      cfg,
		settings: settings,
	}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateInput(req); err != nil {
		return nil, err
	}

	role := models.RoleCustomer
	if req.UserType != "" {
		parsed, err := models.ParseRole(req.UserType)
		if err != nil || parsed == models.RoleAdmin {
			return nil, newError(ErrValidation, "userType must be customer or service_provider")
		}
		role = parsed
	}

	email := req.Email
	if _, err := s.store.Users.FindByEmail(ctx, email); err == nil {
		return nil, newError(ErrConflict, "email already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Phone:    strings.TrimSpace(req.Phone),
		Password: string(hash),
		UserType: role,
		IsActive: true,
	}
	if err := s.store.Users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(ErrConflict, "email already registered")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	var providerID *uuid.UUID
	if role == models.RoleServiceProvider {
		provider := models.ServiceProvider{
			ID:             uuid.New(),
			UserID:         user.ID,
			BusinessName:   strings.TrimSpace(req.BusinessName),
			Description:    req.Description,
			Specialties:    req.Specialties,
			CommissionRate: s.settings.DefaultCommissionRate(ctx),
		}
		if provider.BusinessName == "" {
			provider.BusinessName = user.Name
		}
		if err := s.store.Providers.Create(ctx, &provider); err != nil {
			if delErr := s.store.Users.Delete(ctx, user.ID); delErr != nil {
				slog.Error("failed to roll back user after provider profile error", "user_id", user.ID, "error", delErr)
			}
			return nil, fmt.Errorf("failed to create provider profile: %w", err)
		}
		providerID = &provider.ID
	}

	slog.Info("user registered", "user_id", user.ID, "user_type", role)
	return s.generateTokenPair(ctx, &user, providerID)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateInput(req); err != nil {
		return nil, err
	}

	user, err := s.store.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrAuthentication, "invalid email or password")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, newError(ErrAuthentication, "invalid email or password")
	}
	if !user.IsActive {
		return nil, newError(ErrAccountDeactivated, "account is deactivated")
	}

	return s.generateTokenPair(ctx, user, s.providerIDFor(ctx, user))
}

// Refresh rotates a refresh token: the presented one is revoked and a new pair issued.
func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}

	tokenHash := hashToken(req.RefreshToken)
	stored, err := s.store.RefreshTokens.FindActive(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrAuthentication, "invalid or expired refresh token")
		}
		return nil, fmt.Errorf("failed to load refresh token: %w", err)
	}

	if err := s.store.RefreshTokens.Revoke(ctx, tokenHash); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, newError(ErrAuthentication, "invalid or expired refresh token")
	}

	user, err := s.store.Users.FindByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrAuthentication, "invalid or expired refresh token")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive {
		return nil, newError(ErrAccountDeactivated, "account is deactivated")
	}

	return s.generateTokenPair(ctx, user, s.providerIDFor(ctx, user))
}

func (s *AuthService) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	if err := validateInput(req); err != nil {
		return err
	}
	if err := s.store.RefreshTokens.Revoke(ctx, hashToken(req.RefreshToken)); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// ResolveCaller maps a verified access token to the current state of its user.
// The user is loaded on every call so deactivation applies to live tokens too.
func (s *AuthService) ResolveCaller(ctx context.Context, token *jwt.Token) (*Caller, error) {
	if token == nil || !token.Valid {
		return nil, newError(ErrAuthentication, "invalid or expired token")
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return nil, newError(ErrAuthentication, "invalid token subject")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, newError(ErrAuthentication, "invalid token subject")
	}

	user, err := s.store.Users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrAuthentication, "user no longer exists")
		}
		return nil, fmt.Errorf("failed to load caller: %w", err)
	}
	if !user.IsActive {
		return nil, newError(ErrAccountDeactivated, "account is deactivated")
	}

	return &Caller{ID: user.ID, Role: user.UserType, IsActive: user.IsActive}, nil
}

// EnsureAdmin creates the bootstrap admin when the store has no admin at all.
// It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	count, err := s.store.Users.CountAdmins(ctx, false)
	if err != nil {
		return false, fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	if email == "" || len(password) < 8 {
		return false, errors.New("no admin exists: BOOTSTRAP_ADMIN_EMAIL and an 8+ character BOOTSTRAP_ADMIN_PASSWORD are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}
	admin := models.User{
		ID:       uuid.New(),
		Name:     "Administrator",
		Email:    normalizeEmail(email),
		Password: string(hash),
		UserType: models.RoleAdmin,
		IsActive: true,
	}
	if err := s.store.Users.Create(ctx, &admin); err != nil {
		return false, fmt.Errorf("failed to create bootstrap admin: %w", err)
	}
	slog.Info("bootstrap admin created", "user_id", admin.ID, "email", admin.Email)
	return true, nil
}

func (s *AuthService) providerIDFor(ctx context.Context, user *models.User) *uuid.UUID {
	if user.UserType != models.RoleServiceProvider {
		return nil
	}
	provider, err := s.store.Providers.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil
	}
	return &provider.ID
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *models.User, providerID *uuid.UUID) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         dto.NewUserResponse(user, providerID),
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": string(user.UserType),
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)
	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.store.RefreshTokens.Create(ctx, &record); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
