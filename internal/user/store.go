// File: internal/user/store.go
package user

import (
	"context"
	"errors"
	"fmt"

	"blog_backend/internal/common"

	"go.uber.org/zap"
)

// Profile is the provider-owned part of a user, as delivered by a login.
type Profile struct {
	Name    string
	Email   string
	Picture *string
}

// Store provisions users from login profiles.
//
// UpsertProfile reads and writes inside one transaction. Two concurrent first
// logins for the same email are still not serialized: the loser hits the unique
// email index and gets common.ErrConflict instead of creating a second row.
type Store struct {
	repo   Repository
	logger *zap.Logger
}

func NewStore(repo Repository, logger *zap.Logger) *Store {
	return &Store{repo: repo, logger: logger.Named("UserStore")}
}

// UpsertProfile updates name and picture of the user owning profile.Email, or
// creates that user with DefaultRole when none exists.
func (s *Store) UpsertProfile(ctx context.Context, profile Profile) (*User, error) {
	var saved *User
	created := false

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		existing, err := tx.FindByEmail(ctx, profile.Email)
		switch {
		case err == nil:
			saved = existing.Update(profile.Name, profile.Picture)
		case errors.Is(err, common.ErrNotFound):
			saved = &User{
				Name:    profile.Name,
				Email:   profile.Email,
				Picture: profile.Picture,
				Role:    DefaultRole,
			}
			created = true
		default:
			return fmt.Errorf("failed to look up user by email: %w", err)
		}
		return tx.Save(ctx, saved)
	})
	if err != nil {
		s.logger.Error("Failed to upsert user from login profile", zap.Error(err), zap.String("email", profile.Email))
		if _, ok := common.IsAPIError(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	if created {
		s.logger.Info("New user created from login", zap.String("userID", saved.ID.String()))
	} else {
		s.logger.Debug("User profile refreshed from login", zap.String("userID", saved.ID.String()))
	}
	return saved, nil
}
