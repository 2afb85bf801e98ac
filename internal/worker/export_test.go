package worker

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
)

func NewReminderSchedulerWith(
	queue interface {
		EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	},
	tasks interface{ DeleteTask(queue, id string) error },
	hour int,
	location *time.Location,
) *ReminderScheduler {
	return newReminderScheduler(queue, tasks, hour, location)
}
