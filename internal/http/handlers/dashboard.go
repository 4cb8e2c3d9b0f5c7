package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ntokozo078/logistics-fleet-manager/internal/cache"
	"github.com/ntokozo078/logistics-fleet-manager/internal/config"
	"github.com/ntokozo078/logistics-fleet-manager/internal/domain/job"
	"github.com/ntokozo078/logistics-fleet-manager/internal/domain/user"
	"github.com/ntokozo078/logistics-fleet-manager/internal/http/middlewares"
	"github.com/ntokozo078/logistics-fleet-manager/internal/repo/postgres"
)

type UserDirectory interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	ListDrivers(ctx context.Context) ([]user.User, error)
}

type JobsBoard interface {
	ListAll(ctx context.Context) ([]postgres.JobWithDriver, error)
	ListActiveForDriver(ctx context.Context, driverID string) ([]job.Job, error)
	ListDeliveredForDriver(ctx context.Context, driverID string) ([]job.Job, error)
	CountStats(ctx context.Context) (postgres.Stats, error)
}

type DashboardHandler struct {
	users UserDirectory
	jobs  JobsBoard
	stats *cache.Cache
}

func NewDashboardHandler(users UserDirectory, jobs JobsBoard, stats *cache.Cache) *DashboardHandler {
	return &DashboardHandler{
		users: users,
		jobs:  jobs,
		stats: stats,
	}
}

// jobRow decorates a job for the templates.
type jobRow struct {
	Job            job.Job
	DriverUsername string
	IsLate         bool
}

const statsCacheKey = "dashboard:stats"

// GET /
func (h *DashboardHandler) Home(ctx *gin.Context) {
	if _, err := ctx.Cookie(middlewares.SessionCookieName); err == nil {
		RedirectToDashboard(ctx)
		return
	}

	ctx.HTML(http.StatusOK, "landing.html", gin.H{})
}

// GET /dashboard
// admin and ops get the fleet-wide board; drivers get their own queue.
func (h *DashboardHandler) Dashboard(ctx *gin.Context) {
	userID, _ := middlewares.UserIDFromContext(ctx)

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	u, err := h.users.GetByID(cctx, userID)

	if err != nil {
		RedirectToLogin(ctx)
		return
	}

	if u.IsManagement() {
		h.managementView(ctx, cctx, u)
		return
	}

	h.driverView(ctx, cctx, u)
}

func (h *DashboardHandler) managementView(ctx *gin.Context, cctx context.Context, u user.User) {
	all, err := h.jobs.ListAll(cctx)

	if err != nil {
		RespondInternal(ctx)
		return
	}

	drivers, err := h.users.ListDrivers(cctx)

	if err != nil {
		RespondInternal(ctx)
		return
	}

	stats, err := h.cachedStats(cctx)

	if err != nil {
		RespondInternal(ctx)
		return
	}

	now := time.Now()
	rows := make([]jobRow, 0, len(all))

	for _, jd := range all {
		driverName := ""
		if jd.DriverUsername != nil {
			driverName = *jd.DriverUsername
		}

		rows = append(rows, jobRow{
			Job:            jd.Job,
			DriverUsername: driverName,
			IsLate:         jd.IsLate(now),
		})
	}

	ctx.HTML(http.StatusOK, "dashboard_admin.html", gin.H{
		"user":    u,
		"jobs":    rows,
		"stats":   stats,
		"drivers": drivers,
	})
}

func (h *DashboardHandler) driverView(ctx *gin.Context, cctx context.Context, u user.User) {
	active, err := h.jobs.ListActiveForDriver(cctx, u.ID)

	if err != nil {
		RespondInternal(ctx)
		return
	}

	history, err := h.jobs.ListDeliveredForDriver(cctx, u.ID)

	if err != nil {
		RespondInternal(ctx)
		return
	}

	now := time.Now()
	rows := make([]jobRow, 0, len(active))

	for _, j := range active {
		rows = append(rows, jobRow{
			Job:            j,
			DriverUsername: u.Username,
			IsLate:         j.IsLate(now),
		})
	}

	ctx.HTML(http.StatusOK, "dashboard_driver.html", gin.H{
		"user":    u,
		"jobs":    rows,
		"history": history,
	})
}

func (h *DashboardHandler) cachedStats(cctx context.Context) (postgres.Stats, error) {
	if h.stats != nil {
		if v, ok := h.stats.Get(statsCacheKey); ok {
			if s, ok := v.(postgres.Stats); ok {
				return s, nil
			}
		}
	}

	s, err := h.jobs.CountStats(cctx)

	if err != nil {
		return postgres.Stats{}, err
	}

	if h.stats != nil {
		h.stats.Set(statsCacheKey, s)
	}

	return s, nil
}
