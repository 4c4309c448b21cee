package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestRecordLogin(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())
	m.RecordLogin("google", LoginSuccess)
	m.RecordLogin("google", LoginSuccess)
	m.RecordLogin("kakao", LoginFailure)

	body := scrape(t, m)
	assert.Contains(t, body, `oauth_logins_total{provider="google",result="success"} 2`)
	assert.Contains(t, body, `oauth_logins_total{provider="kakao",result="failure"} 1`)
}

func TestSetUsersByRole(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())
	m.SetUsersByRole(map[string]int64{"GUEST": 3, "ADMIN": 1})
	m.SetUsersByRole(map[string]int64{"GUEST": 5})

	body := scrape(t, m)
	assert.Contains(t, body, `users_by_role{role="GUEST"} 5`)
	assert.Contains(t, body, `users_by_role{role="ADMIN"} 1`)
}

func TestNew_IncludesRuntimeCollectors(t *testing.T) {
	m := New()
	m.ObserveHTTP(http.MethodGet, "/health", http.StatusOK, 5*time.Millisecond)

	body := scrape(t, m)
	assert.Contains(t, body, `http_requests_total{method="GET",route="/health",status="200"} 1`)
	assert.Contains(t, body, "http_request_duration_seconds_bucket")
	assert.Contains(t, body, "go_goroutines")
}
