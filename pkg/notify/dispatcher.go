package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/academia-api/pkg/jobs"
)

const absenceAlertJob = "absence_alert"

// Dispatcher hands alerts to a background queue so callers never wait on delivery.
type Dispatcher struct {
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewDispatcher wires a queue whose handler delivers through the given notifier.
func NewDispatcher(delivery Notifier, cfg jobs.QueueConfig) *Dispatcher {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	handler := func(ctx context.Context, job jobs.Job) error {
		alert, ok := job.Payload.(AbsenceAlert)
		if !ok {
			return fmt.Errorf("unexpected payload %T for job %s", job.Payload, job.Type)
		}
		return delivery.Notify(ctx, alert)
	}
	return &Dispatcher{
		queue:  jobs.NewQueue("notifications", handler, cfg),
		logger: cfg.Logger,
	}
}

// Start launches the delivery workers.
func (d *Dispatcher) Start(ctx context.Context) { d.queue.Start(ctx) }

// Stop drains the workers.
func (d *Dispatcher) Stop() { d.queue.Stop() }

// Notify enqueues the alert. Delivery errors surface in the queue log only.
func (d *Dispatcher) Notify(_ context.Context, alert AbsenceAlert) error {
	jobID, err := d.queue.Dispatch(absenceAlertJob, alert)
	if err != nil {
		return err
	}
	d.logger.Debug("absence alert queued", zap.String("job_id", jobID), zap.String("student_id", alert.StudentID))
	return nil
}
