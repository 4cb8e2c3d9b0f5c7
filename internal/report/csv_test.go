package report_test

import (
	"strings"
	"testing"
	"time"

	"github.com/ntokozo078/logistics-fleet-manager/internal/domain/job"
	"github.com/ntokozo078/logistics-fleet-manager/internal/report"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		raw  string
		want report.Period
	}{
		{"all", report.PeriodAll},
		{"week", report.PeriodWeek},
		{"month", report.PeriodMonth},
		{"", report.PeriodAll},
		{"year", report.PeriodAll},
	}

	for _, tt := range tests {
		if got := report.ParsePeriod(tt.raw); got != tt.want {
			t.Fatalf("ParsePeriod(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestWindowStart(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	if report.PeriodAll.WindowStart(now) != nil {
		t.Fatal("all should have no window")
	}

	week := report.PeriodWeek.WindowStart(now)
	if week == nil || !week.Equal(now.Add(-7*24*time.Hour)) {
		t.Fatalf("week window = %v", week)
	}

	month := report.PeriodMonth.WindowStart(now)
	if month == nil || !month.Equal(now.Add(-30*24*time.Hour)) {
		t.Fatalf("month window = %v", month)
	}
}

func TestWriteCSV(t *testing.T) {
	note := "left at gate"
	pod := "/static/uploads/pod_j1_door.png"

	rows := []report.Row{
		{
			Job: job.Job{
				ID:          "j1",
				ClientName:  "Acme",
				Pickup:      "Durban",
				Dropoff:     "Joburg",
				Status:      job.StatusDelivered,
				DueDate:     "01 Jan 2024, 10:00",
				DriverNote:  &note,
				PODImageURL: &pod,
			},
			DriverUsername: "sipho",
		},
		{
			Job: job.Job{
				ID:         "j2",
				ClientName: "Globex",
				Pickup:     "PMB",
				Dropoff:    "Richards Bay",
				Status:     job.StatusAssigned,
				DueDate:    "02 Feb 2024, 09:30",
			},
			// unassigned
		},
	}

	body, err := report.WriteCSV(rows)

	if err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(body), "\n"), "\n")

	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), lines)
	}

	if lines[0] != "Job ID,Client,Driver,Pickup,Dropoff,Status,Date,Note,POD Link" {
		t.Fatalf("unexpected header: %q", lines[0])
	}

	if lines[1] != `j1,Acme,sipho,Durban,Joburg,Delivered,"01 Jan 2024, 10:00",left at gate,Yes` {
		t.Fatalf("unexpected first row: %q", lines[1])
	}

	if lines[2] != `j2,Globex,Unassigned,PMB,Richards Bay,Assigned,"02 Feb 2024, 09:30",,No` {
		t.Fatalf("unexpected second row: %q", lines[2])
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	got := report.Filename(report.PeriodWeek, now)

	if got != "logistics_report_week_2024-06-15.csv" {
		t.Fatalf("filename = %q", got)
	}
}
