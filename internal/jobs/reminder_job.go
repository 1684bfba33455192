package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"codetrack/api/internal/mailer"
	"codetrack/api/internal/metrics"
	"codetrack/api/internal/models"
	"codetrack/api/internal/repositories"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	// a task gets its "coming up" mail when it is more than reminderFloor and
	// at most reminderCeil away
	reminderCeil  = 10 * time.Minute
	reminderFloor = 9 * time.Minute
	// a task fires when its time is within the last startWindow
	startWindow = time.Minute
)

type TaskStore interface {
	List(ctx context.Context) ([]models.Task, error)
	MarkReminderSent(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// ReminderJob sweeps all tasks on a cron schedule and mails their owners.
type ReminderJob struct {
	store    TaskStore
	mail     Mailer
	lease    Lease
	logger   *zap.Logger
	schedule string
	cron     *cron.Cron
	now      func() time.Time
}

func NewReminderJob(store TaskStore, mail Mailer, logger *zap.Logger, schedule string) *ReminderJob {
	return &ReminderJob{
		store:    store,
		mail:     mail,
		logger:   logger,
		schedule: schedule,
		cron:     cron.New(),
		now:      time.Now,
	}
}

// WithLease makes every tick acquire lease first.
func (j *ReminderJob) WithLease(lease Lease) *ReminderJob {
	j.lease = lease
	return j
}

// Start schedules the sweep.
func (j *ReminderJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
		defer cancel()
		if err := j.Tick(ctx); err != nil {
			j.logger.Error("reminder sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminder sweep: %w", err)
	}

	j.cron.Start()
	j.logger.Info("reminder job started", zap.String("schedule", j.schedule))
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (j *ReminderJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("reminder job stopped")
}

// Tick runs one sweep, guarded by the lease when one is configured.
func (j *ReminderJob) Tick(ctx context.Context) error {
	if j.lease != nil {
		release, ok, err := j.lease.Acquire(ctx)
		if err != nil {
			return fmt.Errorf("acquire sweep lease: %w", err)
		}
		if !ok {
			metrics.SweepsSkipped.Inc()
			j.logger.Debug("reminder sweep skipped, lease held elsewhere")
			return nil
		}
		defer release()
	}

	start := time.Now()
	defer func() { metrics.SweepDuration.Observe(time.Since(start).Seconds()) }()

	return j.Sweep(ctx)
}

// Sweep looks at every task once. Listing failures abort the sweep; failures
// on a single task are logged and the sweep moves on.
func (j *ReminderJob) Sweep(ctx context.Context) error {
	tasks, err := j.store.List(ctx)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	now := j.now()
	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return err
		}
		until := task.Time.Sub(now)

		switch {
		case until > reminderFloor && until <= reminderCeil && !task.BeforeReminderSent:
			j.sendReminder(ctx, task)
		case until <= 0 && until > -startWindow:
			j.fire(ctx, task)
		}
	}
	return nil
}

func (j *ReminderJob) sendReminder(ctx context.Context, task models.Task) {
	id := task.ID.Hex()
	log := j.logger.With(zap.String("task_id", id), zap.String("email", task.Email))

	msg, err := mailer.ReminderMessage(task.Email, task.Heading, task.Content, task.Time)
	if err == nil {
		err = j.mail.Send(ctx, msg)
	}
	if err != nil {
		metrics.RemindersSent.WithLabelValues("before", "failed").Inc()
		log.Error("failed to send task reminder", zap.Error(err))
		return
	}
	metrics.RemindersSent.WithLabelValues("before", "sent").Inc()

	if err := j.store.MarkReminderSent(ctx, id); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		log.Error("failed to mark reminder sent", zap.Error(err))
		return
	}
	log.Info("task reminder sent")
}

// fire sends the "starting now" mail and removes the task. The task is removed
// even when the mail fails, since its window will not come round again.
func (j *ReminderJob) fire(ctx context.Context, task models.Task) {
	id := task.ID.Hex()
	log := j.logger.With(zap.String("task_id", id), zap.String("email", task.Email))

	msg, err := mailer.StartMessage(task.Email, task.Heading, task.Content, task.Time)
	if err == nil {
		err = j.mail.Send(ctx, msg)
	}
	if err != nil {
		metrics.RemindersSent.WithLabelValues("start", "failed").Inc()
		log.Error("failed to send task start mail", zap.Error(err))
	} else {
		metrics.RemindersSent.WithLabelValues("start", "sent").Inc()
	}

	if err := j.store.Delete(ctx, id); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		log.Error("failed to delete fired task", zap.Error(err))
		return
	}
	log.Info("task fired and removed")
}
