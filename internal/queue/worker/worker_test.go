package worker_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/ntokozo078/logistics-fleet-manager/internal/notifications"
	"github.com/ntokozo078/logistics-fleet-manager/internal/queue"
	"github.com/ntokozo078/logistics-fleet-manager/internal/queue/worker"
)

type fakeSource struct {
	messages []queue.Message
	done     context.CancelFunc
}

// Dequeue feeds the queued messages one by one, then cancels the run
// context so the worker loop exits.
func (f *fakeSource) Dequeue(ctx context.Context, timeout time.Duration) (queue.Message, error) {
	if len(f.messages) == 0 {
		f.done()
		return queue.Message{}, queue.ErrEmpty
	}

	msg := f.messages[0]
	f.messages = f.messages[1:]

	return msg, nil
}

func (f *fakeSource) Depth(ctx context.Context) (int64, error) {
	return int64(len(f.messages)), nil
}

type recordingNotifier struct {
	assigned []notifications.JobAssignedInput
	changed  []notifications.JobStatusChangedInput
}

func (r *recordingNotifier) SendJobAssigned(ctx context.Context, input notifications.JobAssignedInput) error {
	r.assigned = append(r.assigned, input)
	return nil
}

func (r *recordingNotifier) SendJobStatusChanged(ctx context.Context, input notifications.JobStatusChangedInput) error {
	r.changed = append(r.changed, input)
	return nil
}

func mustMessage(t *testing.T, kind queue.MessageKind, payload any) queue.Message {
	t.Helper()

	raw, err := json.Marshal(payload)

	if err != nil {
		t.Fatal(err)
	}

	return queue.Message{
		ID:         "msg-1",
		Kind:       kind,
		Payload:    raw,
		EnqueuedAt: time.Now().UTC(),
	}
}

func TestWorkerDeliversQueuedMessages(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	source := &fakeSource{
		done: cancel,
		messages: []queue.Message{
			mustMessage(t, queue.KindJobAssigned, queue.JobAssignedPayload{
				JobID:    "job-1",
				DriverID: "drv-1",
			}),
			mustMessage(t, queue.KindJobStatusChanged, queue.JobStatusChangedPayload{
				JobID:     "job-1",
				OldStatus: "Assigned",
				NewStatus: "Delivered",
			}),
		},
	}

	notifier := &recordingNotifier{}

	w := worker.New(worker.Config{PopTimeout: time.Second}, source, notifier, slog.Default(), nil)

	if err := w.Run(ctx); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(notifier.assigned) != 1 || notifier.assigned[0].JobID != "job-1" {
		t.Fatalf("assigned deliveries = %+v", notifier.assigned)
	}

	if len(notifier.changed) != 1 || notifier.changed[0].NewStatus != "Delivered" {
		t.Fatalf("status change deliveries = %+v", notifier.changed)
	}
}

func TestWorkerDropsUndecodableMessage(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	source := &fakeSource{
		done: cancel,
		messages: []queue.Message{
			{ID: "msg-bad", Kind: "mystery", Payload: []byte(`{}`)},
			mustMessage(t, queue.KindJobAssigned, queue.JobAssignedPayload{JobID: "job-2"}),
		},
	}

	notifier := &recordingNotifier{}

	w := worker.New(worker.Config{PopTimeout: time.Second}, source, notifier, slog.Default(), nil)

	if err := w.Run(ctx); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// the bad message is logged and dropped, the next one still delivers
	if len(notifier.assigned) != 1 || notifier.assigned[0].JobID != "job-2" {
		t.Fatalf("assigned deliveries = %+v", notifier.assigned)
	}
}
