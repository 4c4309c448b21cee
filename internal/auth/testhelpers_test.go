package auth

import (
	"context"
	"testing"
	"time"

	"blog_backend/internal/session"
	"blog_backend/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&user.User{}))
	return db
}

func newTestSessions() *session.Manager {
	return session.NewManager(session.NewMemoryStore(time.Minute, time.Minute), "test-secret", time.Minute)
}

func newLoginService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	store := user.NewStore(user.NewGORMRepository(db), zap.NewNop())
	return NewService(store, zap.NewNop()), db
}

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) UpsertProfile(ctx context.Context, profile user.Profile) (*user.User, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type MockSessionWriter struct {
	mock.Mock
}

func (m *MockSessionWriter) Set(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

type recordedLogin struct {
	provider, result string
}

type fakeRecorder struct {
	logins []recordedLogin
}

func (f *fakeRecorder) RecordLogin(provider, result string) {
	f.logins = append(f.logins, recordedLogin{provider, result})
}
