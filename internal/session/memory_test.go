package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute, time.Minute)

	require.NoError(t, s.SetAttribute(ctx, "sid", "user", []byte(`{"a":1}`), time.Minute))
	require.NoError(t, s.SetAttribute(ctx, "sid", "other", []byte(`2`), time.Minute))

	b, err := s.GetAttribute(ctx, "sid", "user")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(b))

	b, err = s.GetAttribute(ctx, "sid", "other")
	require.NoError(t, err)
	assert.Equal(t, "2", string(b))
	assert.Equal(t, 1, s.Count())
}

func TestMemoryStore_Missing(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute, time.Minute)

	_, err := s.GetAttribute(ctx, "nope", "user")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SetAttribute(ctx, "sid", "user", []byte(`1`), time.Minute))
	_, err = s.GetAttribute(ctx, "sid", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ReturnedBytesAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute, time.Minute)

	in := []byte("abc")
	require.NoError(t, s.SetAttribute(ctx, "sid", "k", in, time.Minute))
	in[0] = 'x'

	out, err := s.GetAttribute(ctx, "sid", "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(out))

	out[0] = 'y'
	again, err := s.GetAttribute(ctx, "sid", "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestMemoryStore_DestroyAndExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute, time.Minute)

	require.NoError(t, s.SetAttribute(ctx, "sid", "k", []byte("v"), time.Minute))
	require.NoError(t, s.Destroy(ctx, "sid"))
	_, err := s.GetAttribute(ctx, "sid", "k")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SetAttribute(ctx, "short", "k", []byte("v"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)
	_, err = s.GetAttribute(ctx, "short", "k")
	assert.ErrorIs(t, err, ErrNotFound)
}
