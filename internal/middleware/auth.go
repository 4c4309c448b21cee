// File: internal/middleware/auth.go
package middleware

import (
	"context"
	"errors"

	"blog_backend/internal/common"
	"blog_backend/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserRoleKey is the context key for the role key RequireRole resolved.
const UserRoleKey = "userRole"

// RoleResolver looks up a user's current role key, e.g. "ROLE_USER".
type RoleResolver interface {
	RoleKeyByID(ctx context.Context, id uuid.UUID) (string, error)
}

// RequireSession rejects requests whose session holds no logged-in user.
// On success the *session.Snapshot is available through GetSessionUser.
func RequireSession(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := GetSession(c)
		if sess == nil {
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Login is required."))
			return
		}

		var snap session.Snapshot
		if err := sess.Get(c.Request.Context(), common.SessionUserAttribute, &snap); err != nil {
			if errors.Is(err, session.ErrNotFound) {
				common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Login is required."))
				return
			}
			logger.Error("Failed to read session user", zap.Error(err))
			common.RespondWithError(c, common.ErrServiceUnavailable.WithDetails("Session store unavailable."))
			return
		}

		c.Set(common.SessionUserKey, &snap)
		c.Next()
	}
}

// GetSessionUser returns the snapshot RequireSession loaded, or nil.
func GetSessionUser(c *gin.Context) *session.Snapshot {
	val, exists := c.Get(common.SessionUserKey)
	if !exists {
		return nil
	}
	snap, ok := val.(*session.Snapshot)
	if !ok {
		return nil
	}
	return snap
}

// GetUserRoleFromContext retrieves the role key RequireRole resolved.
func GetUserRoleFromContext(c *gin.Context) string {
	return c.GetString(UserRoleKey)
}

// RequireRole lets a request through only when the session user's current role key is
// one of allowedRoleKeys. The role is read from the store on each request because the
// session snapshot carries none, so promotions apply without a new login.
// Must run after RequireSession.
func RequireRole(resolver RoleResolver, logger *zap.Logger, allowedRoleKeys ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := GetSessionUser(c)
		if snap == nil {
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Login is required."))
			return
		}

		roleKey, err := resolver.RoleKeyByID(c.Request.Context(), snap.ID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				logger.Warn("Session refers to a user that no longer exists", zap.String("userID", snap.ID.String()))
				common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Login is required."))
				return
			}
			common.RespondWithError(c, err)
			return
		}

		for _, allowed := range allowedRoleKeys {
			if roleKey == allowed {
				c.Set(UserRoleKey, roleKey)
				c.Next()
				return
			}
		}

		logger.Debug("Role not permitted",
			zap.String("userID", snap.ID.String()),
			zap.String("role", roleKey),
			zap.Strings("allowed", allowedRoleKeys),
		)
		common.RespondWithError(c, common.ErrForbidden.WithDetails("You do not have sufficient permissions for this resource."))
	}
}
