package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ntokozo078/logistics-fleet-manager/internal/notifications"
	"github.com/ntokozo078/logistics-fleet-manager/internal/observability"
	"github.com/ntokozo078/logistics-fleet-manager/internal/queue"
)

type MessageSource interface {
	Dequeue(ctx context.Context, timeout time.Duration) (queue.Message, error)
	Depth(ctx context.Context) (int64, error)
}

type Config struct {
	PopTimeout time.Duration
}

// Worker drains the notification queue and hands each message to the
// notifier. Failures are logged and dropped; notifications are best effort.
type Worker struct {
	cfg      Config
	source   MessageSource
	notifier notifications.Notifier
	log      *slog.Logger
	prom     *observability.Prom
}

func New(cfg Config, source MessageSource, notifier notifications.Notifier, log *slog.Logger, prom *observability.Prom) *Worker {
	if cfg.PopTimeout <= 0 {
		cfg.PopTimeout = 5 * time.Second
	}

	return &Worker{
		cfg:      cfg,
		source:   source,
		notifier: notifier,
		log:      log,
		prom:     prom,
	}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Info("worker received shutdown signal")
			return nil
		default:
		}

		msg, err := w.source.Dequeue(ctx, w.cfg.PopTimeout)

		if err != nil {
			if errors.Is(err, queue.ErrEmpty) {
				continue
			}

			if ctx.Err() != nil {
				return nil
			}

			w.log.Error("dequeue failed", "err", err)
			time.Sleep(time.Second)
			continue
		}

		if depth, derr := w.source.Depth(ctx); derr == nil && w.prom != nil {
			w.prom.QueueDepthGauge.Set(float64(depth))
		}

		w.handle(ctx, msg)
	}
}

func (w *Worker) handle(ctx context.Context, msg queue.Message) {
	start := time.Now()

	if w.prom != nil {
		w.prom.NotifyInFlight.Inc()
		defer w.prom.NotifyInFlight.Dec()
	}

	err := w.deliver(ctx, msg)

	result := "done"
	if err != nil {
		result = "failed"
		w.log.Error("notification delivery failed",
			"message_id", msg.ID,
			"kind", string(msg.Kind),
			"request_id", msg.RequestID,
			"err", err,
		)
	} else {
		w.log.Info("notification delivered",
			"message_id", msg.ID,
			"kind", string(msg.Kind),
			"request_id", msg.RequestID,
		)
	}

	if w.prom != nil {
		w.prom.NotifyResults.WithLabelValues(string(msg.Kind), result).Inc()
		w.prom.NotifyDuration.WithLabelValues(string(msg.Kind), result).Observe(time.Since(start).Seconds())
	}
}

func (w *Worker) deliver(ctx context.Context, msg queue.Message) error {
	payload, err := queue.DecodePayload(msg)

	if err != nil {
		return err
	}

	switch p := payload.(type) {
	case queue.JobAssignedPayload:
		return w.notifier.SendJobAssigned(ctx, notifications.JobAssignedInput{
			JobID:      p.JobID,
			ClientName: p.ClientName,
			DriverID:   p.DriverID,
			DueDate:    p.DueDate,
		})

	case queue.JobStatusChangedPayload:
		return w.notifier.SendJobStatusChanged(ctx, notifications.JobStatusChangedInput{
			JobID:     p.JobID,
			DriverID:  p.DriverID,
			OldStatus: p.OldStatus,
			NewStatus: p.NewStatus,
		})

	default:
		return queue.ErrInvalidKind
	}
}
