package ginserver

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"bizbay/internal/infra/backend"
)

// AuthHTTP exposes the session endpoints.
type AuthHTTP interface {
	SetToken(c *gin.Context)
	Logout(c *gin.Context)
	Me(c *gin.Context)
}

// CookieConfig controls the session cookie the gateway issues. The cookie is
// the only state this service writes on behalf of a browser session.
type CookieConfig struct {
	Domain string
	Secure bool
	MaxAge time.Duration
}

// AuthHandler manages the access_token cookie and session rehydration. The
// backend owns credentials; this handler never sees a password.
type AuthHandler struct {
	Backend *backend.Client
	Cookie  CookieConfig
	Logger  *slog.Logger
}

type setTokenRequest struct {
	Token string `json:"token"`
}

// SetToken stores a freshly issued bearer token in an http-only cookie so
// server-side routes can resolve it without a header.
func (h AuthHandler) SetToken(c *gin.Context) {
	var req setTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload"})
		return
	}
	req.Token = strings.TrimSpace(req.Token)
	if req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "token is required"})
		return
	}
	maxAge := h.Cookie.MaxAge
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, req.Token, int(maxAge.Seconds()), "/", h.Cookie.Domain, h.Cookie.Secure, true)
	c.Status(http.StatusNoContent)
}

// Logout drops the session cookie. Backend-side token revocation stays with
// the backend; the gateway only forgets what it stored.
func (h AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", h.Cookie.Domain, h.Cookie.Secure, true)
	c.Status(http.StatusNoContent)
}

// Me revalidates the resolved token against the backend's who-am-I endpoint.
// This backs the session rehydration step on app load.
func (h AuthHandler) Me(c *gin.Context) {
	token, ok := requireToken(c)
	if !ok {
		return
	}
	resp, err := h.Backend.Me(c.Request.Context(), token)
	if err != nil {
		relayFailure(c, h.Logger, err, "who am i")
		return
	}
	relay(c, resp)
}

var _ AuthHTTP = (*AuthHandler)(nil)
