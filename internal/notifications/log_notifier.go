package notifications

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

// LogNotifier is the delivery backend until a real push/SMS provider lands.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (n *LogNotifier) SendJobAssigned(ctx context.Context, in JobAssignedInput) error {
	if err := simulatedProvider(ctx); err != nil {
		return err
	}

	log.Printf("notification.job_assigned job=%s client=%s driver=%s due=%s",
		in.JobID, in.ClientName, in.DriverID, in.DueDate,
	)
	return nil
}

func (n *LogNotifier) SendJobStatusChanged(ctx context.Context, in JobStatusChangedInput) error {
	if err := simulatedProvider(ctx); err != nil {
		return err
	}

	log.Printf("notification.job_status_changed job=%s driver=%s old=%s new=%s",
		in.JobID, in.DriverID, in.OldStatus, in.NewStatus,
	)
	return nil
}

func simulatedProvider(ctx context.Context) error {
	// Optional: simulate slow provider
	if msStr := os.Getenv("NOTIFIER_SLEEP_MS"); msStr != "" {
		ms, _ := strconv.Atoi(msStr)
		if ms > 0 {
			select {
			case <-time.After(time.Duration(ms) * time.Millisecond):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	// Optional: simulate provider outage
	if os.Getenv("NOTIFIER_FAIL") == "1" {
		return fmt.Errorf("provider down (simulated)")
	}

	return nil
}
