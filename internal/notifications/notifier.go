package notifications

import "context"

type JobAssignedInput struct {
	JobID      string
	ClientName string
	DriverID   string
	DueDate    string
}

type JobStatusChangedInput struct {
	JobID     string
	DriverID  string
	OldStatus string
	NewStatus string
}

type Notifier interface {
	SendJobAssigned(ctx context.Context, input JobAssignedInput) error
	SendJobStatusChanged(ctx context.Context, input JobStatusChangedInput) error
}
