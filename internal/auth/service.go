// File: internal/auth/service.go
package auth

import (
	"context"
	"fmt"

	"blog_backend/internal/common"
	"blog_backend/internal/session"
	"blog_backend/internal/user"

	"go.uber.org/zap"
)

// UserStore provisions local users from login profiles.
type UserStore interface {
	UpsertProfile(ctx context.Context, profile user.Profile) (*user.User, error)
}

// SessionWriter is the caller's session. *session.Session implements it.
type SessionWriter interface {
	Set(ctx context.Context, key string, value interface{}) error
}

// Service turns a verified provider payload into a local user and a logged-in session.
type Service struct {
	users  UserStore
	logger *zap.Logger
}

func NewService(users UserStore, logger *zap.Logger) *Service {
	return &Service{
		users:  users,
		logger: logger.Named("LoginService"),
	}
}

// HandleLogin normalizes raw, upserts the user by email, stores the user's session
// snapshot under "user" in sess, and returns the principal carrying the user's role key.
//
// Normalization and storage failures return before sess is touched. Nothing is retried.
func (s *Service) HandleLogin(ctx context.Context, sess SessionWriter, providerID, primaryKeyField string, raw map[string]interface{}) (*Principal, error) {
	attrs, err := Normalize(providerID, primaryKeyField, raw)
	if err != nil {
		s.logger.Warn("Rejected provider payload", zap.String("provider", providerID), zap.Error(err))
		return nil, err
	}

	u, err := s.users.UpsertProfile(ctx, attrs.Profile())
	if err != nil {
		return nil, err
	}

	if err := sess.Set(ctx, common.SessionUserAttribute, session.Project(u)); err != nil {
		s.logger.Error("Failed to store session user", zap.Error(err), zap.String("userID", u.ID.String()))
		return nil, fmt.Errorf("failed to store session user: %w", err)
	}

	s.logger.Info("User logged in",
		zap.String("provider", attrs.Provider.String()),
		zap.String("userID", u.ID.String()),
		zap.String("role", u.RoleKey()),
	)

	return &Principal{
		Authorities:      []string{u.RoleKey()},
		Attributes:       attrs.Attributes,
		NameAttributeKey: attrs.NameAttributeKey,
	}, nil
}
