// File: internal/middleware/session.go
package middleware

import (
	"net/http"

	"blog_backend/internal/common"
	"blog_backend/internal/config"
	"blog_backend/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionCookie describes the cookie carrying the signed session ID.
type SessionCookie struct {
	Name     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
	MaxAge   int // seconds
}

func NewSessionCookie(cfg *config.Config) SessionCookie {
	return SessionCookie{
		Name:     cfg.SessionCookieName,
		Domain:   cfg.OAuthCookieDomain,
		Secure:   cfg.OAuthCookieSecure,
		SameSite: ParseSameSite(cfg.OAuthCookieSameSite),
		MaxAge:   int(cfg.SessionTTL.Seconds()),
	}
}

func (sc SessionCookie) write(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     sc.Name,
		Value:    value,
		Path:     "/",
		Domain:   sc.Domain,
		MaxAge:   maxAge,
		Secure:   sc.Secure,
		HttpOnly: true,
		SameSite: sc.SameSite,
	})
}

// ParseSameSite maps "Lax", "Strict" and "None" to their http constants. Anything else is Lax.
func ParseSameSite(s string) http.SameSite {
	switch s {
	case "Strict":
		return http.SameSiteStrictMode
	case "None":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// LoadSession attaches the caller's session to the context when the request carries a
// valid session cookie. Requests without one pass through with no session.
func LoadSession(manager *session.Manager, cookie SessionCookie, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(cookie.Name)
		if err == nil && raw != "" {
			sess, err := manager.DecodeCookie(raw)
			if err != nil {
				logger.Debug("Ignoring invalid session cookie", zap.Error(err))
			} else {
				c.Set(common.SessionKey, sess)
			}
		}
		c.Next()
	}
}

// GetSession returns the session LoadSession or AdoptSession attached, or nil.
func GetSession(c *gin.Context) *session.Session {
	v, ok := c.Get(common.SessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}

// AdoptSession makes sess the caller's session: any previous session is destroyed and
// sess's cookie is issued. Logins adopt a freshly created session so a pre-login
// session ID is never carried past authentication.
func AdoptSession(c *gin.Context, manager *session.Manager, cookie SessionCookie, sess *session.Session) error {
	value, err := manager.EncodeCookie(sess)
	if err != nil {
		return err
	}
	if old := GetSession(c); old != nil && old.ID() != sess.ID() {
		if err := old.Destroy(c.Request.Context()); err != nil {
			return err
		}
	}
	cookie.write(c, value, cookie.MaxAge)
	c.Set(common.SessionKey, sess)
	return nil
}

// EndSession destroys the current session, if any, and expires its cookie.
func EndSession(c *gin.Context, cookie SessionCookie) error {
	cookie.write(c, "", -1)
	sess := GetSession(c)
	if sess == nil {
		return nil
	}
	c.Set(common.SessionKey, nil)
	return sess.Destroy(c.Request.Context())
}
