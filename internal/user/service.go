// File: internal/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"

	"blog_backend/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines user operations outside of the login flow.
type Service interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	ChangeRole(ctx context.Context, id uuid.UUID, role Role) (*User, error)
	ChangeRoleByEmail(ctx context.Context, email string, role Role) (*User, error)
	// RoleKeyByID returns the current role key, so authorization never trusts a cached role.
	RoleKeyByID(ctx context.Context, id uuid.UUID) (string, error)
}

// ServiceImplementation implements Service on top of a Repository.
type ServiceImplementation struct {
	repo   Repository
	logger *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new user service.
func NewService(repo Repository, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:   repo,
		logger: logger.Named("UserService"),
	}
}

func (s *ServiceImplementation) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("User not found by ID", zap.String("userID", id.String()))
		} else {
			s.logger.Error("Error finding user by ID", zap.Error(err), zap.String("userID", id.String()))
		}
		return nil, err
	}
	return u, nil
}

func (s *ServiceImplementation) RoleKeyByID(ctx context.Context, id uuid.UUID) (string, error) {
	u, err := s.GetUserByID(ctx, id)
	if err != nil {
		return "", err
	}
	return u.RoleKey(), nil
}

func (s *ServiceImplementation) ChangeRole(ctx context.Context, id uuid.UUID, role Role) (*User, error) {
	return s.changeRole(ctx, role, func(tx Repository) (*User, error) {
		return tx.FindByID(ctx, id)
	})
}

func (s *ServiceImplementation) ChangeRoleByEmail(ctx context.Context, email string, role Role) (*User, error) {
	return s.changeRole(ctx, role, func(tx Repository) (*User, error) {
		return tx.FindByEmail(ctx, email)
	})
}

func (s *ServiceImplementation) changeRole(ctx context.Context, role Role, find func(tx Repository) (*User, error)) (*User, error) {
	if !role.Valid() {
		return nil, common.ErrBadRequest.WithDetails(fmt.Sprintf("Unknown role %q.", role))
	}

	var updated *User
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		u, err := find(tx)
		if err != nil {
			return err
		}
		previous := u.Role
		u.Role = role
		if err := tx.Save(ctx, u); err != nil {
			return err
		}
		s.logger.Info("User role changed",
			zap.String("userID", u.ID.String()),
			zap.String("from", string(previous)),
			zap.String("to", string(role)),
		)
		updated = u
		return nil
	})
	if err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return nil, err
		}
		s.logger.Error("Failed to change user role", zap.Error(err))
		return nil, fmt.Errorf("failed to change user role: %w", err)
	}
	return updated, nil
}
