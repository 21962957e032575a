package ginserver

import (
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"
)

// SessionCookieName is the cookie the set-token route issues and every proxy
// route falls back to when no Authorization header is present.
const SessionCookieName = "access_token"

// resolveToken checks the Authorization header first, then the session cookie.
// It is a pure function of the request; the token itself stays opaque.
func resolveToken(c *gin.Context) string {
	if token := extractBearerToken(c.GetHeader("Authorization")); token != "" {
		return token
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}

// requireToken resolves a token or ends the request with 401 before any
// backend call is made.
func requireToken(c *gin.Context) (string, bool) {
	token := resolveToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
		return "", false
	}
	return token, true
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
