// File: internal/session/session.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Session is one client's view of the store. It is never shared across clients.
type Session struct {
	id    string
	store Store
	ttl   time.Duration
}

func (s *Session) ID() string {
	return s.id
}

// Set stores value under key as JSON, replacing any previous value.
func (s *Session) Set(ctx context.Context, key string, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("session: encode %q: %w", key, err)
	}
	return s.store.SetAttribute(ctx, s.id, key, b, s.ttl)
}

// Get decodes the value under key into dst. It returns ErrNotFound when absent.
func (s *Session) Get(ctx context.Context, key string, dst interface{}) error {
	b, err := s.store.GetAttribute(ctx, s.id, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("session: decode %q: %w", key, err)
	}
	return nil
}

// Destroy drops every attribute of the session.
func (s *Session) Destroy(ctx context.Context) error {
	return s.store.Destroy(ctx, s.id)
}
