// File: internal/auth/handler.go
package auth

import (
	"fmt"
	"net/http"

	"blog_backend/internal/common"
	"blog_backend/internal/config"
	"blog_backend/internal/middleware"
	"blog_backend/internal/platform/crypto"
	"blog_backend/internal/platform/metrics"
	"blog_backend/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoginRecorder counts login outcomes per provider.
type LoginRecorder interface {
	RecordLogin(provider, result string)
}

// Handler serves the browser side of the OAuth2 login and the session endpoints.
type Handler struct {
	service  *Service
	clients  *Clients
	sessions *session.Manager
	cookie   middleware.SessionCookie
	cfg      *config.Config
	recorder LoginRecorder
	logger   *zap.Logger
}

func NewHandler(
	service *Service,
	clients *Clients,
	sessions *session.Manager,
	cfg *config.Config,
	recorder LoginRecorder,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		service:  service,
		clients:  clients,
		sessions: sessions,
		cookie:   middleware.NewSessionCookie(cfg),
		cfg:      cfg,
		recorder: recorder,
		logger:   logger.Named("AuthHandler"),
	}
}

// RegisterRoutes mounts the login and logout endpoints. loginMws run in front of
// the two OAuth2 endpoints only.
func (h *Handler) RegisterRoutes(router gin.IRouter, loginMws ...gin.HandlerFunc) {
	router.GET("/oauth2/authorization/:provider", append(loginMws, h.authorize)...)
	router.GET("/login/oauth2/code/:provider", append(loginMws, h.callback)...)
	router.POST("/logout", h.logout)
}

// RegisterUserRoutes mounts the current-user endpoint. router or mws must apply
// middleware.RequireSession.
func (h *Handler) RegisterUserRoutes(router *gin.RouterGroup, mws ...gin.HandlerFunc) {
	router.GET("/users/me", append(mws, h.me)...)
}

func (h *Handler) authorize(c *gin.Context) {
	reg, err := h.clients.Registration(c.Param("provider"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	state, err := crypto.GenerateSecureRandomString(32)
	if err != nil {
		h.logger.Error("Failed to generate OAuth state", zap.Error(err))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Could not initiate login."))
		return
	}
	h.setStateCookie(c, state, h.cfg.OAuthCookieMaxAgeMinutes*60)

	c.Redirect(http.StatusFound, h.clients.AuthCodeURL(reg, state))
}

func (h *Handler) callback(c *gin.Context) {
	providerID := c.Param("provider")
	reg, err := h.clients.Registration(providerID)
	if err != nil {
		h.recorder.RecordLogin("unknown", metrics.LoginFailure)
		common.RespondWithError(c, err)
		return
	}
	provider := reg.Provider.String()

	fail := func(err error) {
		h.recorder.RecordLogin(provider, metrics.LoginFailure)
		common.RespondWithError(c, err)
	}

	storedState, stateErr := c.Cookie(h.cfg.OAuthStateCookieName)
	h.setStateCookie(c, "", -1)

	if errParam := c.Query("error"); errParam != "" {
		h.logger.Warn("Provider returned an error", zap.String("provider", provider),
			zap.String("error", errParam), zap.String("description", c.Query("error_description")))
		fail(common.ErrUnauthorized.WithDetails(fmt.Sprintf("%s login failed: %s", provider, errParam)))
		return
	}

	code, state := c.Query("code"), c.Query("state")
	if code == "" || state == "" {
		fail(common.ErrBadRequest.WithDetails("Missing authorization code or state."))
		return
	}
	if stateErr != nil || storedState == "" || storedState != state {
		h.logger.Warn("OAuth state mismatch", zap.String("provider", provider), zap.Bool("cookie_present", stateErr == nil))
		fail(common.ErrBadRequest.WithDetails("OAuth state mismatch."))
		return
	}

	raw, err := h.clients.FetchAttributes(c.Request.Context(), reg, code)
	if err != nil {
		h.logger.Error("OAuth handshake failed", zap.String("provider", provider), zap.Error(err))
		fail(common.ErrServiceUnavailable.WithDetails(fmt.Sprintf("Could not complete %s login.", provider)))
		return
	}

	sess, err := h.sessions.New()
	if err != nil {
		fail(err)
		return
	}
	principal, err := h.service.HandleLogin(c.Request.Context(), sess, provider, reg.NameAttributeKey, raw)
	if err != nil {
		fail(err)
		return
	}
	if err := middleware.AdoptSession(c, h.sessions, h.cookie, sess); err != nil {
		h.logger.Error("Failed to issue session cookie", zap.Error(err))
		fail(err)
		return
	}

	h.recorder.RecordLogin(provider, metrics.LoginSuccess)

	if h.cfg.LoginSuccessRedirect != "" {
		c.Redirect(http.StatusFound, h.cfg.LoginSuccessRedirect)
		return
	}
	common.RespondOK(c, "Login successful.", principal)
}

func (h *Handler) logout(c *gin.Context) {
	if err := middleware.EndSession(c, h.cookie); err != nil {
		h.logger.Error("Failed to destroy session on logout", zap.Error(err))
		common.RespondWithError(c, common.ErrServiceUnavailable.WithDetails("Could not end the session."))
		return
	}
	target := h.cfg.LogoutSuccessRedirect
	if target == "" {
		target = "/"
	}
	c.Redirect(http.StatusSeeOther, target)
}

func (h *Handler) me(c *gin.Context) {
	snap := middleware.GetSessionUser(c)
	if snap == nil {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}
	common.RespondOK(c, "", snap)
}

func (h *Handler) setStateCookie(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cfg.OAuthStateCookieName,
		Value:    value,
		Path:     "/",
		Domain:   h.cfg.OAuthCookieDomain,
		MaxAge:   maxAge,
		Secure:   h.cfg.OAuthCookieSecure,
		HttpOnly: true,
		SameSite: middleware.ParseSameSite(h.cfg.OAuthCookieSameSite),
	})
}
