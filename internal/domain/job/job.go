package job

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusCreated   Status = "Created"
	StatusAssigned  Status = "Assigned"
	StatusDelivered Status = "Delivered"
	StatusIssue     Status = "Issue"
)

// Due dates are stored as a display string, not a timestamp. Forms post
// datetime-local values; anything that does not parse is kept verbatim.
const (
	DueDateInputLayout   = "2006-01-02T15:04"
	DueDateDisplayLayout = "02 Jan 2006, 15:04"
)

var ErrNotFound = errors.New("job not found")

type Job struct {
	ID          string    `json:"id"`
	ClientName  string    `json:"clientName"`
	Pickup      string    `json:"pickup"`
	Dropoff     string    `json:"dropoff"`
	DueDate     string    `json:"dueDate"`
	DriverID    *string   `json:"driverId,omitempty"`
	Status      Status    `json:"status"`
	DriverNote  *string   `json:"driverNote,omitempty"`
	PODImageURL *string   `json:"podImageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateRequest struct {
	ClientName string
	Pickup     string
	Dropoff    string
	DueDate    string // raw form value, normalized by New
	DriverID   string
}

type UpdateRequest struct {
	Status      Status
	DriverNote  string
	PODImageURL *string // nil leaves the stored reference unchanged
}

// New builds a job from a creation request. Jobs always start out Assigned:
// the form requires a driver, so the Created state is never produced here.
func New(req CreateRequest) Job {
	now := time.Now().UTC()

	driverID := req.DriverID

	return Job{
		ID:         uuid.NewString(),
		ClientName: req.ClientName,
		Pickup:     req.Pickup,
		Dropoff:    req.Dropoff,
		DueDate:    FormatDueDate(req.DueDate),
		DriverID:   &driverID,
		Status:     StatusAssigned,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// FormatDueDate reformats a datetime-local form value into the display
// layout. Unparseable input is stored as-is, no error surfaced.
func FormatDueDate(raw string) string {
	t, err := time.Parse(DueDateInputLayout, raw)

	if err != nil {
		return raw
	}

	return t.Format(DueDateDisplayLayout)
}

// IsLate reports whether the job is overdue at the given instant.
// Terminal statuses are never late, and a due date that does not match the
// display layout fails open to false.
func (j Job) IsLate(now time.Time) bool {
	if j.Status == StatusDelivered || j.Status == StatusIssue {
		return false
	}

	due, err := time.ParseInLocation(DueDateDisplayLayout, j.DueDate, now.Location())

	if err != nil {
		return false
	}

	return now.After(due)
}
