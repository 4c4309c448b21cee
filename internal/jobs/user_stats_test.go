package jobs

import (
	"context"
	"errors"
	"testing"

	"blog_backend/internal/config"
	"blog_backend/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockRoleCounter struct {
	mock.Mock
}

func (m *MockRoleCounter) CountByRole(ctx context.Context) (map[user.Role]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[user.Role]int64), args.Error(1)
}

type captureSink struct {
	calls []map[string]int64
}

func (s *captureSink) SetUsersByRole(counts map[string]int64) {
	s.calls = append(s.calls, counts)
}

func TestUserStatsJob_Run(t *testing.T) {
	counter := new(MockRoleCounter)
	sink := &captureSink{}
	counter.On("CountByRole", mock.Anything).
		Return(map[user.Role]int64{user.RoleGuest: 4, user.RoleUser: 2, user.RoleAdmin: 1}, nil).Once()

	job := NewUserStatsJob(counter, sink, &config.Config{}, zap.NewNop())
	require.NoError(t, job.Run(context.Background()))

	require.Len(t, sink.calls, 1)
	assert.Equal(t, map[string]int64{"GUEST": 4, "USER": 2, "ADMIN": 1}, sink.calls[0])
	counter.AssertExpectations(t)
}

func TestUserStatsJob_RunError(t *testing.T) {
	counter := new(MockRoleCounter)
	sink := &captureSink{}
	counter.On("CountByRole", mock.Anything).Return(nil, errors.New("db down")).Once()

	job := NewUserStatsJob(counter, sink, &config.Config{}, zap.NewNop())
	assert.Error(t, job.Run(context.Background()))
	assert.Empty(t, sink.calls)
}

func TestUserStatsJob_SetupAndStart(t *testing.T) {
	t.Run("empty schedule disables the job", func(t *testing.T) {
		counter := new(MockRoleCounter)
		job := NewUserStatsJob(counter, &captureSink{}, &config.Config{}, zap.NewNop())
		require.NoError(t, job.SetupAndStart())
		counter.AssertNotCalled(t, "CountByRole", mock.Anything)
	})

	t.Run("invalid schedule", func(t *testing.T) {
		job := NewUserStatsJob(new(MockRoleCounter), &captureSink{}, &config.Config{UserStatsJobSchedule: "not a spec"}, zap.NewNop())
		assert.Error(t, job.SetupAndStart())
	})

	t.Run("runs once on start", func(t *testing.T) {
		counter := new(MockRoleCounter)
		sink := &captureSink{}
		counter.On("CountByRole", mock.Anything).Return(map[user.Role]int64{user.RoleGuest: 1}, nil)

		job := NewUserStatsJob(counter, sink, &config.Config{UserStatsJobSchedule: "@every 1h"}, zap.NewNop())
		require.NoError(t, job.SetupAndStart())
		job.Stop()

		require.NotEmpty(t, sink.calls)
		assert.Equal(t, int64(1), sink.calls[0]["GUEST"])
	})
}

func TestCronLogger(t *testing.T) {
	l := NewCronLogger(zap.NewNop())
	l.Info("tick", "now", 1, "dangling")
	l.Error(errors.New("x"), "failed", "job", 2)

	fields := toFields([]interface{}{"a", 1, "b"})
	require.Len(t, fields, 2)
	assert.Equal(t, "a", fields[0].Key)
	assert.Equal(t, "b", fields[1].Key)
}
