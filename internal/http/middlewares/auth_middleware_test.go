package middlewares_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ntokozo078/logistics-fleet-manager/internal/auth"
	"github.com/ntokozo078/logistics-fleet-manager/internal/http/middlewares"
	"github.com/ntokozo078/logistics-fleet-manager/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVerifier struct {
	verifyFn func(token string) (*auth.Claims, error)
}

func (f *fakeVerifier) VerifySessionToken(token string) (*auth.Claims, error) {
	if f.verifyFn != nil {
		return f.verifyFn(token)
	}
	return nil, errors.New("invalid token")
}

type fakeChecker struct {
	getFn func(ctx context.Context, sessionID string) (string, error)
}

func (f *fakeChecker) Get(ctx context.Context, sessionID string) (string, error) {
	if f.getFn != nil {
		return f.getFn(ctx, sessionID)
	}
	return "", session.ErrNotFound
}

func goodClaims() *auth.Claims {
	return &auth.Claims{
		UserID:    "user-1",
		Username:  "thandi",
		Role:      "ops",
		SessionID: "sess-1",
	}
}

// protectedRouter mounts a probe handler behind RequireSession that records
// what the middleware put on the context.
func protectedRouter(m *middlewares.AuthMiddleware, seen *map[string]string) *gin.Engine {
	r := gin.New()

	r.GET("/dashboard", m.RequireSession(), func(c *gin.Context) {
		if seen != nil {
			id, _ := middlewares.UserIDFromContext(c)
			name, _ := middlewares.UsernameFromContext(c)
			role, _ := middlewares.RoleFromContext(c)
			*seen = map[string]string{"id": id, "name": name, "role": role}
		}
		c.String(http.StatusOK, "ok")
	})

	return r
}

func getDashboard(r *gin.Engine, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: middlewares.SessionCookieName, Value: cookie})
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func assertLoginRedirect(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}

	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Fatalf("redirect = %q, want /login", loc)
	}
}

func TestRequireSessionAllowsValidSession(t *testing.T) {
	verifier := &fakeVerifier{
		verifyFn: func(token string) (*auth.Claims, error) {
			if token != "good-token" {
				return nil, errors.New("invalid token")
			}
			return goodClaims(), nil
		},
	}
	checker := &fakeChecker{
		getFn: func(ctx context.Context, sessionID string) (string, error) {
			if sessionID != "sess-1" {
				return "", session.ErrNotFound
			}
			return "user-1", nil
		},
	}

	var seen map[string]string

	r := protectedRouter(middlewares.NewAuthMiddleware(verifier, checker), &seen)

	w := getDashboard(r, "good-token")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	if seen["id"] != "user-1" || seen["name"] != "thandi" || seen["role"] != "ops" {
		t.Fatalf("context not populated: %v", seen)
	}
}

func TestRequireSessionRedirects(t *testing.T) {
	tests := []struct {
		name     string
		cookie   string
		verifier *fakeVerifier
		checker  *fakeChecker
	}{
		{
			name:     "no cookie",
			cookie:   "",
			verifier: &fakeVerifier{},
			checker:  &fakeChecker{},
		},
		{
			name:     "bad token",
			cookie:   "garbage",
			verifier: &fakeVerifier{},
			checker:  &fakeChecker{},
		},
		{
			name:   "revoked session",
			cookie: "good-token",
			verifier: &fakeVerifier{
				verifyFn: func(token string) (*auth.Claims, error) { return goodClaims(), nil },
			},
			checker: &fakeChecker{},
		},
		{
			name:   "session belongs to someone else",
			cookie: "good-token",
			verifier: &fakeVerifier{
				verifyFn: func(token string) (*auth.Claims, error) { return goodClaims(), nil },
			},
			checker: &fakeChecker{
				getFn: func(ctx context.Context, sessionID string) (string, error) {
					return "other-user", nil
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := protectedRouter(middlewares.NewAuthMiddleware(tt.verifier, tt.checker), nil)

			assertLoginRedirect(t, getDashboard(r, tt.cookie))
		})
	}
}
