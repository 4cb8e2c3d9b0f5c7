package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/ntokozo078/logistics-fleet-manager/internal/domain/job"
)

// Period selects the created_at window for an export.
type Period string

const (
	PeriodAll   Period = "all"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod maps the query value onto a known period, defaulting to all.
func ParsePeriod(raw string) Period {
	switch Period(raw) {
	case PeriodWeek, PeriodMonth:
		return Period(raw)
	default:
		return PeriodAll
	}
}

// WindowStart returns the inclusive lower bound for the period, or nil for
// an unbounded export.
func (p Period) WindowStart(now time.Time) *time.Time {
	var start time.Time

	switch p {
	case PeriodWeek:
		start = now.Add(-7 * 24 * time.Hour)
	case PeriodMonth:
		start = now.Add(-30 * 24 * time.Hour)
	default:
		return nil
	}

	return &start
}

// Row pairs a job with its resolved driver username for export.
type Row struct {
	Job            job.Job
	DriverUsername string // empty when unassigned
}

var header = []string{"Job ID", "Client", "Driver", "Pickup", "Dropoff", "Status", "Date", "Note", "POD Link"}

// WriteCSV serializes the rows. The whole filtered set is materialized in
// memory; export volumes are small.
func WriteCSV(rows []Row) ([]byte, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, r := range rows {
		driver := r.DriverUsername

		if driver == "" {
			driver = "Unassigned"
		}

		note := ""
		if r.Job.DriverNote != nil {
			note = *r.Job.DriverNote
		}

		pod := "No"
		if r.Job.PODImageURL != nil && *r.Job.PODImageURL != "" {
			pod = "Yes"
		}

		record := []string{
			r.Job.ID,
			r.Job.ClientName,
			driver,
			r.Job.Pickup,
			r.Job.Dropoff,
			string(r.Job.Status),
			r.Job.DueDate,
			note,
			pod,
		}

		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Filename embeds the period and the export date.
func Filename(p Period, now time.Time) string {
	return fmt.Sprintf("logistics_report_%s_%s.csv", p, now.Format("2006-01-02"))
}
