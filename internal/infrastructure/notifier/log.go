package notifier

import (
	"context"
	"log/slog"

	"home_maintenance/internal/domain/entity"
	"home_maintenance/pkg/logx"
)

// LogNotifier пишет напоминания в лог, когда бот не настроен.
type LogNotifier struct{}

func (n LogNotifier) Run(ctx context.Context, reminders <-chan entity.Reminder) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case r, ok := <-reminders:
			if !ok {
				return nil
			}
			_ = n.SendReminder(ctx, r)
		}
	}
}

func (LogNotifier) SendReminder(ctx context.Context, r entity.Reminder) error {
	logger(ctx).Info("pool reminder",
		slog.String("kind", string(r.Kind)),
		slog.Int64(logx.FieldPoolTestID, r.PoolTestID),
		slog.String(logx.FieldNextTestDate, r.NextTestDate.String()),
		slog.Int("out-of-range", len(r.OutOfRange)),
	)

	return nil
}
