package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ntokozo078/logistics-fleet-manager/internal/http/middlewares"
)

// roleRouter mounts both gated probes behind a middleware that injects the
// given role, standing in for RequireSession.
func roleRouter(role string) *gin.Engine {
	m := middlewares.NewAuthMiddleware(&fakeVerifier{}, &fakeChecker{})

	r := gin.New()

	inject := func(c *gin.Context) {
		if role != "" {
			c.Set(middlewares.CtxRole, role)
		}
		c.Next()
	}

	r.GET("/export_csv", inject, m.RequireManagement(), func(c *gin.Context) {
		c.String(http.StatusOK, "csv")
	})
	r.GET("/create_driver", inject, m.RequireAdmin(), func(c *gin.Context) {
		c.String(http.StatusOK, "form")
	})

	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestRequireManagement(t *testing.T) {
	tests := []struct {
		role       string
		wantStatus int
	}{
		{"admin", http.StatusOK},
		{"ops", http.StatusOK},
		{"driver", http.StatusFound},
		{"", http.StatusFound},
	}

	for _, tt := range tests {
		w := get(roleRouter(tt.role), "/export_csv")

		if w.Code != tt.wantStatus {
			t.Fatalf("role %q: status = %d, want %d", tt.role, w.Code, tt.wantStatus)
		}

		if tt.wantStatus == http.StatusFound {
			if loc := w.Header().Get("Location"); loc != "/dashboard" {
				t.Fatalf("role %q: redirect = %q, want /dashboard", tt.role, loc)
			}
		}
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		role       string
		wantStatus int
	}{
		{"admin", http.StatusOK},
		{"ops", http.StatusFound},
		{"driver", http.StatusFound},
		{"", http.StatusFound},
	}

	for _, tt := range tests {
		w := get(roleRouter(tt.role), "/create_driver")

		if w.Code != tt.wantStatus {
			t.Fatalf("role %q: status = %d, want %d", tt.role, w.Code, tt.wantStatus)
		}

		if tt.wantStatus == http.StatusFound {
			if loc := w.Header().Get("Location"); loc != "/dashboard" {
				t.Fatalf("role %q: redirect = %q, want /dashboard", tt.role, loc)
			}
		}
	}
}
