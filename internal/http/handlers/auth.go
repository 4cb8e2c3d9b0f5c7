package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ntokozo078/logistics-fleet-manager/internal/auth"
	"github.com/ntokozo078/logistics-fleet-manager/internal/config"
	"github.com/ntokozo078/logistics-fleet-manager/internal/domain/user"
	"github.com/ntokozo078/logistics-fleet-manager/internal/http/middlewares"
	"github.com/ntokozo078/logistics-fleet-manager/internal/security"
)

type UserReader interface {
	GetByUsername(ctx context.Context, username string) (user.User, error)
}

type SessionWriter interface {
	Create(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
}

type AuthHandler struct {
	users    UserReader
	jwt      *auth.Manager
	sessions SessionWriter
	cfg      config.Config
}

func NewAuthHandler(users UserReader, jwtManager *auth.Manager, sessions SessionWriter, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		users:    users,
		jwt:      jwtManager,
		sessions: sessions,
		cfg:      cfg,
	}
}

type loginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// GET /login
func (h *AuthHandler) LoginPage(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "login.html", gin.H{})
}

// POST /login
// A failed login re-renders the login page with no detail about what was
// wrong; only a match on username and password establishes a session.
func (h *AuthHandler) Login(ctx *gin.Context) {
	var req loginRequest

	if err := ctx.ShouldBind(&req); err != nil {
		ctx.HTML(http.StatusOK, "login.html", gin.H{})
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByUsername(cctx, req.Username)

	if err != nil {
		ctx.HTML(http.StatusOK, "login.html", gin.H{})
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		ctx.HTML(http.StatusOK, "login.html", gin.H{})
		return
	}

	raw, sessionID, expiresAt, err := h.jwt.GenerateSessionToken(foundUser.ID, foundUser.Username, foundUser.Role)

	if err != nil {
		RespondInternal(ctx)
		return
	}

	err = h.sessions.Create(cctx, sessionID, foundUser.ID, h.jwt.SessionTTL())

	if err != nil {
		RespondInternal(ctx)
		return
	}

	h.setSessionCookie(ctx, raw, expiresAt)

	RedirectToDashboard(ctx)
}

// GET /logout
// Clears the cookie and revokes the server-side session record.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	raw, err := ctx.Cookie(middlewares.SessionCookieName)

	if err == nil && raw != "" {
		claims, verr := h.jwt.VerifySessionToken(raw)

		if verr == nil {
			cctx, cancel := config.WithTimeout(2 * time.Second)
			defer cancel()

			_ = h.sessions.Delete(cctx, claims.SessionID)
		}
	}

	h.clearSessionCookie(ctx)
	ctx.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) setSessionCookie(ctx *gin.Context, raw string, expiresAt time.Time) {
	secure := h.cfg.Env == "prod"

	maxAge := int(time.Until(expiresAt).Seconds())

	ctx.SetSameSite(http.SameSiteLaxMode)

	ctx.SetCookie(
		middlewares.SessionCookieName,
		raw,
		maxAge,
		"/",
		"",
		secure,
		true, // HttpOnly.
	)
}

func (h *AuthHandler) clearSessionCookie(ctx *gin.Context) {
	secure := h.cfg.Env == "prod"
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(
		middlewares.SessionCookieName,
		"",
		-1,
		"/",
		"",
		secure,
		true,
	)
}
