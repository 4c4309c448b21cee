// File: internal/session/manager.go
package session

import (
	"errors"
	"fmt"
	"time"

	"blog_backend/internal/config"
	"blog_backend/internal/platform/crypto"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const cookieIssuer = "blog_backend/session"

// Manager creates sessions and encodes their IDs into tamper-evident cookie values.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
}

// NewManager builds a manager over store. Cookie values are HS256 JWTs signed with secret.
func NewManager(store Store, secret string, ttl time.Duration) *Manager {
	return &Manager{store: store, secret: []byte(secret), ttl: ttl}
}

// NewManagerFromConfig picks the session backend named by SESSION_DRIVER.
// The returned cleanup closes the backend.
func NewManagerFromConfig(cfg *config.Config, logger *zap.Logger) (*Manager, func(), error) {
	var store Store
	switch cfg.SessionDriver {
	case "redis":
		rs, err := NewRedisStore(RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
		if err != nil {
			return nil, nil, err
		}
		store = rs
	case "memory", "":
		store = NewMemoryStore(cfg.SessionTTL, time.Minute)
	default:
		return nil, nil, fmt.Errorf("session: unsupported driver %q", cfg.SessionDriver)
	}

	logger.Info("Session store initialized", zap.String("driver", cfg.SessionDriver), zap.Duration("ttl", cfg.SessionTTL))
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close session store", zap.Error(err))
		}
	}
	return NewManager(store, cfg.SessionSecret, cfg.SessionTTL), cleanup, nil
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// New starts a session with a fresh random ID. Nothing is written until the first Set.
func (m *Manager) New() (*Session, error) {
	id, err := crypto.GenerateSecureRandomString(32)
	if err != nil {
		return nil, fmt.Errorf("session: generate id: %w", err)
	}
	return m.Open(id), nil
}

// Open binds to an existing session ID.
func (m *Manager) Open(id string) *Session {
	return &Session{id: id, store: m.store, ttl: m.ttl}
}

// EncodeCookie signs the session ID for transport in a cookie.
func (m *Manager) EncodeCookie(s *Session) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        s.id,
		Issuer:    cookieIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("session: sign cookie: %w", err)
	}
	return token, nil
}

// DecodeCookie verifies a cookie value and returns the session it names.
func (m *Manager) DecodeCookie(value string) (*Session, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(value, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cookieIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("session: invalid cookie: %w", err)
	}
	if claims.ID == "" {
		return nil, errors.New("session: cookie carries no session id")
	}
	return m.Open(claims.ID), nil
}
