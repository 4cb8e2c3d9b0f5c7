package middlewares

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ntokozo078/logistics-fleet-manager/internal/auth"
)

// Keep these interfaces small so tests can fake them easily.
type TokenVerifier interface {
	VerifySessionToken(token string) (*auth.Claims, error)
}

type SessionChecker interface {
	Get(ctx context.Context, sessionID string) (string, error)
}

type AuthMiddleware struct {
	jwt      TokenVerifier
	sessions SessionChecker
}

func NewAuthMiddleware(jwt TokenVerifier, sessions SessionChecker) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, sessions: sessions}
}

// RequireSession gates the server-rendered pages. A missing or invalid
// session is a redirect to the login page, not an error response.
func (m *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(SessionCookieName)

		if err != nil || raw == "" {
			redirectToLogin(c)
			return
		}

		claims, err := m.jwt.VerifySessionToken(raw)

		if err != nil {
			redirectToLogin(c)
			return
		}

		// the cookie only counts while its session record still exists
		cctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		userID, err := m.sessions.Get(cctx, claims.SessionID)

		if err != nil || userID != claims.UserID {
			redirectToLogin(c)
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUsername, claims.Username)
		c.Set(CtxRole, claims.Role)

		c.Next()
	}
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, "/login")
	c.Abort()
}

// Helpers so handlers don't need to know the magic keys.

func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func UsernameFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUsername)
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}

func RoleFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxRole)
	if !ok {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}
