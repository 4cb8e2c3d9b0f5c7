package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ntokozo078/logistics-fleet-manager/internal/config"
	"github.com/ntokozo078/logistics-fleet-manager/internal/report"
	"github.com/ntokozo078/logistics-fleet-manager/internal/repo/postgres"
)

type JobsExporter interface {
	ListCreatedSince(ctx context.Context, start *time.Time) ([]postgres.JobWithDriver, error)
}

type ExportHandler struct {
	jobs JobsExporter
}

func NewExportHandler(jobs JobsExporter) *ExportHandler {
	return &ExportHandler{jobs: jobs}
}

// GET /export_csv?period=all|week|month
// Drivers are bounced before this handler runs (management-only route).
// The whole filtered set is materialized before serialization; exports
// are operator-sized.
func (h *ExportHandler) ExportCSV(ctx *gin.Context) {
	period := report.ParsePeriod(ctx.Query("period"))

	now := time.Now()

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	jobs, err := h.jobs.ListCreatedSince(cctx, period.WindowStart(now))

	if err != nil {
		RespondInternal(ctx)
		return
	}

	rows := make([]report.Row, 0, len(jobs))

	for _, jd := range jobs {
		driver := ""
		if jd.DriverUsername != nil {
			driver = *jd.DriverUsername
		}

		rows = append(rows, report.Row{
			Job:            jd.Job,
			DriverUsername: driver,
		})
	}

	body, err := report.WriteCSV(rows)

	if err != nil {
		RespondInternal(ctx)
		return
	}

	filename := report.Filename(period, now)

	ctx.Header("Content-Disposition", "attachment;filename="+filename)
	ctx.Data(http.StatusOK, "text/csv", body)
}
