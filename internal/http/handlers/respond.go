package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ntokozo078/logistics-fleet-manager/internal/http/middlewares"
)

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get(middlewares.CtxRequestID)

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

// The page handlers never render error pages: failures either bounce the
// browser somewhere sensible or come back as a plain text body.

func RedirectToDashboard(ctx *gin.Context) {
	ctx.Redirect(http.StatusFound, "/dashboard")
}

func RedirectToLogin(ctx *gin.Context) {
	ctx.Redirect(http.StatusFound, "/login")
}

func RespondNotFound(ctx *gin.Context) {
	ctx.String(http.StatusNotFound, "Not found")
}

func RespondInternal(ctx *gin.Context) {
	ctx.String(http.StatusInternalServerError, "Something went wrong")
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
