package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/repository"
	"github.com/google/uuid"
)

// DeleteOutcome tells whether DeleteUser removed the account or only deactivated it.
type DeleteOutcome string

const (
	OutcomeDeleted     DeleteOutcome = "deleted"
	OutcomeDeactivated DeleteOutcome = "deactivated"
)

type UserService struct {
	store *repository.Store
}

func NewUserService(store *repository.Store) *UserService {
	return &UserService{store: store}
}

// DeleteUser removes an account. Providers that own a profile are deactivated
// instead so their bookings and reviews keep resolving.
func (s *UserService) DeleteUser(ctx context.Context, id, callerID uuid.UUID) (DeleteOutcome, error) {
	var outcome DeleteOutcome
	err := s.store.Users.WithAdminLock(ctx, func(tx *repository.Store) error {
		users := tx.Users
		target, err := users.FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "user not found")
		}
		if err := guardLastAdmin(ctx, users, target, OutcomeDeleted); err != nil {
			return err
		}

		if target.UserType == models.RoleServiceProvider {
			_, err := tx.Providers.FindByUserID(ctx, target.ID)
			switch {
			case err == nil:
				if err := users.SetActive(ctx, target.ID, false); err != nil {
					return notFoundOr(err, "user not found")
				}
				outcome = OutcomeDeactivated
				return nil
			case !errors.Is(err, repository.ErrNotFound):
				return fmt.Errorf("failed to load provider profile: %w", err)
			}
		}

		if err := users.Delete(ctx, target.ID); err != nil {
			return notFoundOr(err, "user not found")
		}
		outcome = OutcomeDeleted
		return nil
	})
	if err != nil {
		return "", err
	}

	slog.Info("user removed", "user_id", id, "outcome", outcome, "caller_id", callerID)
	return outcome, nil
}

// ToggleUserStatus flips the active flag and returns the updated user.
func (s *UserService) ToggleUserStatus(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var updated *models.User
	err := s.store.Users.WithAdminLock(ctx, func(tx *repository.Store) error {
		users := tx.Users
		target, err := users.FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "user not found")
		}
		if target.IsActive {
			if err := guardLastAdmin(ctx, users, target, OutcomeDeactivated); err != nil {
				return err
			}
		}

		if err := users.SetActive(ctx, id, !target.IsActive); err != nil {
			return notFoundOr(err, "user not found")
		}
		target.IsActive = !target.IsActive
		updated = target
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *UserService) ListUsers(ctx context.Context, query *dto.ListUsersQuery) (*dto.Page, error) {
	if err := validateInput(query); err != nil {
		return nil, err
	}
	filter := repository.UserFilter{
		UserType: models.Role(query.UserType),
		Limit:    query.Limit,
		Offset:   query.Offset,
	}
	if filter.Limit == 0 {
		filter.Limit = defaultPageSize
	}

	users, total, err := s.store.Users.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return &dto.Page{Items: users, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.store.Users.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user not found")
	}
	return user, nil
}

// guardLastAdmin rejects removing (op deleted) or deactivating (op deactivated)
// target when that would leave the platform without an active admin. Deletion
// also refuses to remove the only admin account, active or not.
func guardLastAdmin(ctx context.Context, users repository.UserRepository, target *models.User, op DeleteOutcome) error {
	if !target.IsAdmin() {
		return nil
	}
	if op == OutcomeDeleted {
		total, err := users.CountAdmins(ctx, false)
		if err != nil {
			return fmt.Errorf("failed to count admins: %w", err)
		}
		if total <= 1 {
			return newError(ErrInvariantViolation, "cannot delete the only admin account")
		}
	}
	if !target.IsActive {
		return nil
	}
	active, err := users.CountAdmins(ctx, true)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if active <= 1 {
		return newError(ErrInvariantViolation, "cannot %s the last active admin", verb(op))
	}
	return nil
}

func verb(op DeleteOutcome) string {
	if op == OutcomeDeactivated {
		return "deactivate"
	}
	return "delete"
}
