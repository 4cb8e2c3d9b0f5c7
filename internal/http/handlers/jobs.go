package handlers

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ntokozo078/logistics-fleet-manager/internal/config"
	"github.com/ntokozo078/logistics-fleet-manager/internal/domain/job"
	"github.com/ntokozo078/logistics-fleet-manager/internal/http/middlewares"
	"github.com/ntokozo078/logistics-fleet-manager/internal/queue"
	"github.com/ntokozo078/logistics-fleet-manager/internal/upload"
)

type JobsStore interface {
	Create(ctx context.Context, req job.CreateRequest) (job.Job, error)
	GetByID(ctx context.Context, id string) (job.Job, error)
	Update(ctx context.Context, id string, req job.UpdateRequest) (job.Job, error)
}

type PODSaver interface {
	SavePOD(file *multipart.FileHeader, jobID string) (string, error)
}

type Enqueuer interface {
	Enqueue(ctx context.Context, kind queue.MessageKind, payload any, requestID string) error
}

type JobsHandler struct {
	jobs    JobsStore
	users   UserDirectory
	uploads PODSaver
	notify  Enqueuer
}

func NewJobsHandler(jobs JobsStore, users UserDirectory, uploads PODSaver, notify Enqueuer) *JobsHandler {
	return &JobsHandler{
		jobs:    jobs,
		users:   users,
		uploads: uploads,
		notify:  notify,
	}
}

type createJobRequest struct {
	Client   string `form:"client" binding:"required"`
	Pickup   string `form:"pickup" binding:"required"`
	Dropoff  string `form:"dropoff" binding:"required"`
	Date     string `form:"date" binding:"required"`
	DriverID string `form:"driver_id" binding:"required"`
}

type updateJobRequest struct {
	Status string `form:"status" binding:"required"`
	Note   string `form:"note"`
}

// GET /create_job
func (h *JobsHandler) CreateJobPage(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	drivers, err := h.users.ListDrivers(cctx)

	if err != nil {
		RespondInternal(ctx)
		return
	}

	ctx.HTML(http.StatusOK, "create_job.html", gin.H{"drivers": drivers})
}

// POST /create_job
// The referenced driver is not validated; a bad id simply produces a job
// nobody sees on their queue. Status is always Assigned.
func (h *JobsHandler) CreateJob(ctx *gin.Context) {
	var req createJobRequest

	if err := ctx.ShouldBind(&req); err != nil {
		ctx.Redirect(http.StatusFound, "/create_job")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	created, err := h.jobs.Create(cctx, job.CreateRequest{
		ClientName: req.Client,
		Pickup:     req.Pickup,
		Dropoff:    req.Dropoff,
		DueDate:    req.Date,
		DriverID:   req.DriverID,
	})

	if err != nil {
		RespondInternal(ctx)
		return
	}

	h.enqueueAssigned(cctx, ctx, created)

	RedirectToDashboard(ctx)
}

// GET /job_details/:id
func (h *JobsHandler) JobDetails(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	j, err := h.jobs.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			RespondNotFound(ctx)
			return
		}
		RespondInternal(ctx)
		return
	}

	userID, _ := middlewares.UserIDFromContext(ctx)
	u, err := h.users.GetByID(cctx, userID)

	if err != nil {
		RedirectToLogin(ctx)
		return
	}

	ctx.HTML(http.StatusOK, "job_details.html", gin.H{
		"job":    j,
		"isLate": j.IsLate(time.Now()),
		"user":   u,
		"note":   stringOrEmpty(j.DriverNote),
		"podURL": stringOrEmpty(j.PODImageURL),
	})
}

// GET /update_job/:id
func (h *JobsHandler) UpdateJobPage(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	j, err := h.jobs.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			RespondNotFound(ctx)
			return
		}
		RespondInternal(ctx)
		return
	}

	ctx.HTML(http.StatusOK, "update_job.html", gin.H{
		"job":  j,
		"note": stringOrEmpty(j.DriverNote),
	})
}

// POST /update_job/:id
// Status is free text at this boundary; the four named statuses are a
// convention, not a constraint. Photos with a bad extension are skipped
// silently and the stored POD reference stays as it was.
func (h *JobsHandler) UpdateJob(ctx *gin.Context) {
	id := ctx.Param("id")

	var req updateJobRequest

	if err := ctx.ShouldBind(&req); err != nil {
		ctx.Redirect(http.StatusFound, "/update_job/"+id)
		return
	}

	var podURL *string

	file, err := ctx.FormFile("pod_photo")

	if err == nil && file != nil {
		url, serr := h.uploads.SavePOD(file, id)

		if serr == nil {
			podURL = &url
		} else if !errors.Is(serr, upload.ErrDisallowedExtension) {
			slog.Default().Warn("pod upload failed", "job_id", id, "err", serr)
		}
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	before, err := h.jobs.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			RespondNotFound(ctx)
			return
		}
		RespondInternal(ctx)
		return
	}

	updated, err := h.jobs.Update(cctx, id, job.UpdateRequest{
		Status:      job.Status(req.Status),
		DriverNote:  req.Note,
		PODImageURL: podURL,
	})

	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			RespondNotFound(ctx)
			return
		}
		RespondInternal(ctx)
		return
	}

	if before.Status != updated.Status {
		h.enqueueStatusChanged(cctx, ctx, before, updated)
	}

	RedirectToDashboard(ctx)
}

// Notification enqueues are best effort: a queue hiccup must never fail
// the request that triggered it.

func (h *JobsHandler) enqueueAssigned(cctx context.Context, ctx *gin.Context, j job.Job) {
	if h.notify == nil {
		return
	}

	driverID := ""
	if j.DriverID != nil {
		driverID = *j.DriverID
	}

	err := h.notify.Enqueue(cctx, queue.KindJobAssigned, queue.JobAssignedPayload{
		JobID:      j.ID,
		ClientName: j.ClientName,
		DriverID:   driverID,
		DueDate:    j.DueDate,
	}, requestIDFrom(ctx))

	if err != nil {
		slog.Default().Warn("enqueue job_assigned failed", "job_id", j.ID, "err", err)
	}
}

func (h *JobsHandler) enqueueStatusChanged(cctx context.Context, ctx *gin.Context, before, after job.Job) {
	if h.notify == nil {
		return
	}

	driverID := ""
	if after.DriverID != nil {
		driverID = *after.DriverID
	}

	err := h.notify.Enqueue(cctx, queue.KindJobStatusChanged, queue.JobStatusChangedPayload{
		JobID:     after.ID,
		DriverID:  driverID,
		OldStatus: string(before.Status),
		NewStatus: string(after.Status),
	}, requestIDFrom(ctx))

	if err != nil {
		slog.Default().Warn("enqueue job_status_changed failed", "job_id", after.ID, "err", err)
	}
}
