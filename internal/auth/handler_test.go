package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"blog_backend/internal/config"
	"blog_backend/internal/middleware"
	"blog_backend/internal/platform/metrics"
	"blog_backend/internal/session"
	"blog_backend/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// HandlerTestSuite drives the login endpoints against a fake provider.
type HandlerTestSuite struct {
	suite.Suite
	Router   *gin.Engine
	DB       *gorm.DB
	Cfg      *config.Config
	Sessions *session.Manager
	Recorder *fakeRecorder

	provider     *httptest.Server
	userInfoBody string
	userInfoCode int
}

func (s *HandlerTestSuite) SetupTest() {
	s.userInfoBody = `{"sub":"g-1","email":"a@x.com","name":"Alice","picture":"http://p/a.png"}`
	s.userInfoCode = http.StatusOK

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		s.Require().NoError(r.ParseForm())
		if r.FormValue("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("Bearer at-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(s.userInfoCode)
		_, _ = w.Write([]byte(s.userInfoBody))
	})
	s.provider = httptest.NewServer(mux)

	s.Cfg = &config.Config{
		GinMode:                  gin.TestMode,
		OAuthStateCookieName:     "oauth_state",
		OAuthCookieMaxAgeMinutes: 10,
		OAuthCookieSameSite:      "Lax",
		SessionCookieName:        "SESSION",
		SessionTTL:               time.Minute,
		LogoutSuccessRedirect:    "/",
	}

	s.DB = newTestDB(s.T())
	repo := user.NewGORMRepository(s.DB)
	svc := NewService(user.NewStore(repo, zap.NewNop()), zap.NewNop())
	clients := NewClients(s.provider.Client(), &Registration{
		Provider: ProviderGoogle,
		OAuth2: &oauth2.Config{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			RedirectURL:  "http://localhost/login/oauth2/code/google",
			Scopes:       []string{"profile", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   s.provider.URL + "/authorize",
				TokenURL:  s.provider.URL + "/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		UserInfoURL: s.provider.URL + "/userinfo",
	})
	s.Sessions = newTestSessions()
	s.Recorder = &fakeRecorder{}

	h := NewHandler(svc, clients, s.Sessions, s.Cfg, s.Recorder, zap.NewNop())
	cookie := middleware.NewSessionCookie(s.Cfg)

	router := gin.New()
	router.Use(middleware.LoadSession(s.Sessions, cookie, zap.NewNop()))
	h.RegisterRoutes(router)
	api := router.Group("/api/v1")
	h.RegisterUserRoutes(api, middleware.RequireSession(zap.NewNop()))
	s.Router = router
}

func (s *HandlerTestSuite) TearDownTest() {
	s.provider.Close()
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func (s *HandlerTestSuite) cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (s *HandlerTestSuite) callback(query, state string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/login/oauth2/code/google?"+query, nil)
	if state != "" {
		req.AddCookie(&http.Cookie{Name: s.Cfg.OAuthStateCookieName, Value: state})
	}
	return s.do(req)
}

func (s *HandlerTestSuite) userCount() int64 {
	var n int64
	s.Require().NoError(s.DB.Model(&user.User{}).Count(&n).Error)
	return n
}

func (s *HandlerTestSuite) TestAuthorize_RedirectsWithState() {
	w := s.do(httptest.NewRequest(http.MethodGet, "/oauth2/authorization/google", nil))

	s.Equal(http.StatusFound, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	s.Require().NoError(err)
	s.Equal("/authorize", loc.Path)
	s.Equal("client-id", loc.Query().Get("client_id"))

	stateCookie := s.cookieNamed(w, s.Cfg.OAuthStateCookieName)
	s.Require().NotNil(stateCookie)
	s.Equal(loc.Query().Get("state"), stateCookie.Value)
	s.True(stateCookie.HttpOnly)
}

func (s *HandlerTestSuite) TestAuthorize_UnknownOrUnconfiguredProvider() {
	for _, p := range []string{"facebook", "kakao"} {
		w := s.do(httptest.NewRequest(http.MethodGet, "/oauth2/authorization/"+p, nil))
		s.Equal(http.StatusNotFound, w.Code, p)
		s.Contains(w.Body.String(), "UNKNOWN_PROVIDER")
	}
}

func (s *HandlerTestSuite) TestCallback_Success_CreatesUserAndSession() {
	w := s.callback("code=good-code&state=st-1", "st-1")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Data Principal `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal([]string{"ROLE_GUEST"}, body.Data.Authorities)
	s.Equal("sub", body.Data.NameAttributeKey)
	s.Equal("g-1", body.Data.Name())

	s.Equal(int64(1), s.userCount())
	s.Equal([]recordedLogin{{"google", metrics.LoginSuccess}}, s.Recorder.logins)

	stateCookie := s.cookieNamed(w, s.Cfg.OAuthStateCookieName)
	s.Require().NotNil(stateCookie)
	s.LessOrEqual(stateCookie.MaxAge, 0, "state cookie is cleared")

	sessionCookie := s.cookieNamed(w, s.Cfg.SessionCookieName)
	s.Require().NotNil(sessionCookie)

	me := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	me.AddCookie(sessionCookie)
	mw := s.do(me)
	s.Require().Equal(http.StatusOK, mw.Code)
	s.Contains(mw.Body.String(), `"email":"a@x.com"`)
	s.Contains(mw.Body.String(), `"name":"Alice"`)
	s.NotContains(mw.Body.String(), "ROLE_")
}

func (s *HandlerTestSuite) TestCallback_RedirectsWhenConfigured() {
	s.Cfg.LoginSuccessRedirect = "/welcome"
	w := s.callback("code=good-code&state=st-1", "st-1")
	s.Equal(http.StatusFound, w.Code)
	s.Equal("/welcome", w.Header().Get("Location"))
}

func (s *HandlerTestSuite) TestCallback_Failures() {
	tests := []struct {
		name       string
		query      string
		cookie     string
		wantStatus int
	}{
		{"state mismatch", "code=good-code&state=st-1", "other", http.StatusBadRequest},
		{"no state cookie", "code=good-code&state=st-1", "", http.StatusBadRequest},
		{"missing code", "state=st-1", "st-1", http.StatusBadRequest},
		{"provider error", "error=access_denied&state=st-1", "st-1", http.StatusUnauthorized},
		{"exchange rejected", "code=bad-code&state=st-1", "st-1", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := s.callback(tt.query, tt.cookie)
			s.Equal(tt.wantStatus, w.Code)
			s.Nil(s.cookieNamed(w, s.Cfg.SessionCookieName))
		})
	}
	s.Zero(s.userCount())
	s.Len(s.Recorder.logins, len(tests))
	for _, l := range s.Recorder.logins {
		s.Equal(metrics.LoginFailure, l.result)
	}
}

func (s *HandlerTestSuite) TestCallback_UserInfoFailure() {
	s.userInfoCode = http.StatusInternalServerError
	s.userInfoBody = `{"error":"boom"}`

	w := s.callback("code=good-code&state=st-1", "st-1")
	s.Equal(http.StatusServiceUnavailable, w.Code)
	s.Zero(s.userCount())
}

func (s *HandlerTestSuite) TestCallback_PayloadWithoutEmail() {
	s.userInfoBody = `{"sub":"g-1","name":"Alice"}`

	w := s.callback("code=good-code&state=st-1", "st-1")
	s.Equal(http.StatusBadGateway, w.Code)
	s.Contains(w.Body.String(), "PROVIDER_MISCONFIGURED")
	s.Zero(s.userCount())
	s.Nil(s.cookieNamed(w, s.Cfg.SessionCookieName))
}

func (s *HandlerTestSuite) TestLogout_DestroysSession() {
	login := s.callback("code=good-code&state=st-1", "st-1")
	s.Require().Equal(http.StatusOK, login.Code)
	sessionCookie := s.cookieNamed(login, s.Cfg.SessionCookieName)
	s.Require().NotNil(sessionCookie)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(sessionCookie)
	w := s.do(req)
	s.Equal(http.StatusSeeOther, w.Code)
	s.Equal("/", w.Header().Get("Location"))

	me := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	me.AddCookie(sessionCookie)
	s.Equal(http.StatusUnauthorized, s.do(me).Code)
}

func (s *HandlerTestSuite) TestMe_RequiresLogin() {
	w := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil))
	s.Equal(http.StatusUnauthorized, w.Code)
}
