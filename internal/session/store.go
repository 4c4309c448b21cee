// File: internal/session/store.go
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a session or one of its attributes does not exist.
var ErrNotFound = errors.New("session: not found")

// Store is the backend holding session attributes, keyed by session ID.
type Store interface {
	// SetAttribute writes one attribute and extends the session lifetime to ttl.
	SetAttribute(ctx context.Context, sid, key string, value []byte, ttl time.Duration) error
	// GetAttribute returns ErrNotFound when the session or the attribute is missing.
	GetAttribute(ctx context.Context, sid, key string) ([]byte, error)
	Destroy(ctx context.Context, sid string) error
	Close() error
}
