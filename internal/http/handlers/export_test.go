package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ntokozo078/logistics-fleet-manager/internal/domain/job"
	"github.com/ntokozo078/logistics-fleet-manager/internal/http/handlers"
	"github.com/ntokozo078/logistics-fleet-manager/internal/repo/postgres"
)

func TestExportCSVAllPeriod(t *testing.T) {
	var gotStart *time.Time

	jobs := &fakeJobsRepo{
		listCreatedSinceFn: func(ctx context.Context, start *time.Time) ([]postgres.JobWithDriver, error) {
			gotStart = start

			return []postgres.JobWithDriver{
				{Job: existingJob("job-1", job.StatusAssigned), DriverUsername: strptr("sipho")},
				{Job: existingJob("job-2", job.StatusDelivered)},
			}, nil
		},
	}

	h := handlers.NewExportHandler(jobs)

	r := newTestRouter()
	r.GET("/export_csv", h.ExportCSV)

	req := httptest.NewRequest(http.MethodGet, "/export_csv", nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	if gotStart != nil {
		t.Fatalf("the all period must not be windowed, got start %v", gotStart)
	}

	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("content type = %q, want text/csv", ct)
	}

	cd := w.Header().Get("Content-Disposition")

	if !strings.HasPrefix(cd, "attachment;filename=logistics_report_all_") || !strings.HasSuffix(cd, ".csv") {
		t.Fatalf("unexpected content disposition: %q", cd)
	}

	lines := strings.Split(strings.TrimRight(w.Body.String(), "\n"), "\n")

	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}

	if lines[0] != "Job ID,Client,Driver,Pickup,Dropoff,Status,Date,Note,POD Link" {
		t.Fatalf("unexpected header: %q", lines[0])
	}

	if !strings.Contains(lines[1], "sipho") {
		t.Fatalf("first row should carry the driver name: %q", lines[1])
	}

	if !strings.Contains(lines[2], "Unassigned") {
		t.Fatalf("driverless row should say Unassigned: %q", lines[2])
	}
}

func TestExportCSVWeekWindowsTheQuery(t *testing.T) {
	var gotStart *time.Time

	jobs := &fakeJobsRepo{
		listCreatedSinceFn: func(ctx context.Context, start *time.Time) ([]postgres.JobWithDriver, error) {
			gotStart = start
			return []postgres.JobWithDriver{}, nil
		},
	}

	h := handlers.NewExportHandler(jobs)

	r := newTestRouter()
	r.GET("/export_csv", h.ExportCSV)

	req := httptest.NewRequest(http.MethodGet, "/export_csv?period=week", nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	if gotStart == nil {
		t.Fatal("the week period must window the query")
	}

	age := time.Since(*gotStart)

	if age < 6*24*time.Hour || age > 8*24*time.Hour {
		t.Fatalf("window start should be about 7 days back, got %v", age)
	}

	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "logistics_report_week_") {
		t.Fatalf("filename should carry the period: %q", cd)
	}
}

func TestExportCSVUnknownPeriodFallsBackToAll(t *testing.T) {
	var gotStart *time.Time
	called := false

	jobs := &fakeJobsRepo{
		listCreatedSinceFn: func(ctx context.Context, start *time.Time) ([]postgres.JobWithDriver, error) {
			called = true
			gotStart = start
			return []postgres.JobWithDriver{}, nil
		},
	}

	h := handlers.NewExportHandler(jobs)

	r := newTestRouter()
	r.GET("/export_csv", h.ExportCSV)

	req := httptest.NewRequest(http.MethodGet, "/export_csv?period=fortnight", nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	if !called || gotStart != nil {
		t.Fatalf("unknown period should behave like all: called=%v start=%v", called, gotStart)
	}
}
