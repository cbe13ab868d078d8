package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/deliverydesk/deliverydesk/internal/tasks"
)

// Enqueuer is the part of asynq.Client the scheduler needs
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// purgeJob enqueues one maintenance:purge_tokens task per tick
type purgeJob struct {
	client Enqueuer
	logger zerolog.Logger
}

func (j purgeJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	info, err := j.client.EnqueueContext(ctx, tasks.NewPurgeTokensTask())
	if err != nil {
		if errors.Is(err, asynq.ErrDuplicateTask) {
			j.logger.Debug().Msg("Cleanup task already queued")
			return
		}
		j.logger.Error().Err(err).Msg("Failed to enqueue cleanup task")
		return
	}

	j.logger.Info().Str("task_id", info.ID).Msg("Cleanup task enqueued")
}

// NewCleanupScheduler parses schedule (standard 5-field cron) and returns a stopped cron that
// enqueues the cleanup task on every tick
func NewCleanupScheduler(schedule string, client Enqueuer, logger zerolog.Logger) (*cron.Cron, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule '%s': %w", schedule, err)
	}

	c := cron.New(cron.WithParser(parser))
	c.Schedule(sched, purgeJob{client: client, logger: logger})

	logger.Info().
		Str("schedule", schedule).
		Time("next_run", sched.Next(time.Now())).
		Msg("Cleanup scheduler configured")

	return c, nil
}
