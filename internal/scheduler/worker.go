package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/je4550/repair-app/platform/config"
	"github.com/je4550/repair-app/platform/logger"
)

// ReminderProcessor delivers a due service reminder. Implemented by the
// reminders module so the worker stays free of domain logic.
type ReminderProcessor interface {
	ProcessDue(ctx context.Context, reminderID, shopID uuid.UUID) error
}

// Worker runs the asynq server and dispatches due tasks to their
// domain processors.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	reminders ReminderProcessor
	log       *logger.Logger
}

// NewWorker creates a worker bound to the configured Redis queue.
func NewWorker(cfg config.SchedulerConfig, reminders ReminderProcessor, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		reminders: reminders,
		log:       log,
	}

	mux.HandleFunc(TaskServiceReminder, w.handleServiceReminder)

	return w, nil
}

func (w *Worker) handleServiceReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseServiceReminderPayload(task)
	if err != nil {
		return err
	}

	reminderID, err := uuid.Parse(payload.ReminderID)
	if err != nil {
		return err
	}

	shopID, err := uuid.Parse(payload.ShopID)
	if err != nil {
		return err
	}

	return w.reminders.ProcessDue(ctx, reminderID, shopID)
}

// Run serves tasks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
