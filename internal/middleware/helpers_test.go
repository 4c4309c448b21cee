package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"blog_backend/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockRoleResolver struct {
	mock.Mock
}

func (m *MockRoleResolver) RoleKeyByID(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

var testCookie = SessionCookie{Name: "SESSION", SameSite: http.SameSiteLaxMode, MaxAge: 60}

func newTestManager() *session.Manager {
	return session.NewManager(session.NewMemoryStore(time.Minute, time.Minute), "test-secret", time.Minute)
}

// loggedInCookie creates a session holding snap and returns its cookie.
func loggedInCookie(m *session.Manager, snap session.Snapshot) *http.Cookie {
	sess, err := m.New()
	if err != nil {
		panic(err)
	}
	if err := sess.Set(context.Background(), "user", snap); err != nil {
		panic(err)
	}
	value, err := m.EncodeCookie(sess)
	if err != nil {
		panic(err)
	}
	return &http.Cookie{Name: testCookie.Name, Value: value}
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
