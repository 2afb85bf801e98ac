package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"home_maintenance/internal/domain/entity"
	"home_maintenance/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	TaskTypeReminder = "pool:reminder"
	QueueReminders   = "reminders"

	reminderMaxRetry = 5
)

// NextTestTaskID единственный отложенный таск: напоминание всегда
// относится к последнему тесту, новое сохранение заменяет старое.
const NextTestTaskID = "pool-next-test"

// DedupKey ключ отправки для конкретного теста и даты.
func DedupKey(r entity.Reminder) string {
	return "pool-test-" + strconv.FormatInt(r.PoolTestID, 10) + ":" + r.NextTestDate.String()
}

// ReminderTime момент отправки напоминания: hour:00 дня d в loc.
func ReminderTime(d civil.Date, hour int, loc *time.Location) time.Time {
	return d.In(loc).Add(time.Duration(hour) * time.Hour)
}

func NewReminderTask(r entity.Reminder) (*asynq.Task, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return asynq.NewTask(TaskTypeReminder, payload), nil
}

type taskQueue interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type taskDeleter interface {
	DeleteTask(queue, id string) error
}

// ReminderScheduler ставит напоминания в asynq с ProcessAt на дату следующего теста.
type ReminderScheduler struct {
	queue    taskQueue
	tasks    taskDeleter
	hour     int
	location *time.Location
}

func NewReminderScheduler(client *asynq.Client, inspector *asynq.Inspector, hour int, location *time.Location) *ReminderScheduler {
	return newReminderScheduler(client, inspector, hour, location)
}

func newReminderScheduler(queue taskQueue, tasks taskDeleter, hour int, location *time.Location) *ReminderScheduler {
	if location == nil {
		location = time.Local
	}

	return &ReminderScheduler{
		queue:    queue,
		tasks:    tasks,
		hour:     hour,
		location: location,
	}
}

func (s *ReminderScheduler) ScheduleReminder(ctx context.Context, r entity.Reminder) error {
	task, err := NewReminderTask(r)
	if err != nil {
		return err
	}

	id := NextTestTaskID
	at := ReminderTime(r.NextTestDate, s.hour, s.location)

	opts := []asynq.Option{
		asynq.Queue(QueueReminders),
		asynq.TaskID(id),
		asynq.ProcessAt(at),
		asynq.MaxRetry(reminderMaxRetry),
	}

	_, err = s.queue.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		if delErr := s.tasks.DeleteTask(QueueReminders, id); delErr != nil {
			return fmt.Errorf("inspector.DeleteTask: %w", delErr)
		}

		_, err = s.queue.EnqueueContext(ctx, task, opts...)
	}

	if err != nil {
		return fmt.Errorf("client.Enqueue: %w", err)
	}

	logger(ctx).Info("reminder scheduled",
		slog.String(logx.FieldTaskID, id),
		slog.String(logx.FieldNextTestDate, r.NextTestDate.String()),
		slog.Time("process-at", at),
	)

	return nil
}

// CancelReminder снимает запланированное напоминание, если оно есть.
func (s *ReminderScheduler) CancelReminder(ctx context.Context) error {
	err := s.tasks.DeleteTask(QueueReminders, NextTestTaskID)
	if err != nil && !errors.Is(err, asynq.ErrTaskNotFound) && !errors.Is(err, asynq.ErrQueueNotFound) {
		return fmt.Errorf("inspector.DeleteTask: %w", err)
	}

	if err == nil {
		logger(ctx).Info("reminder cancelled", slog.String(logx.FieldTaskID, NextTestTaskID))
	}

	return nil
}

// ReminderSender доставка напоминания пользователю.
type ReminderSender interface {
	SendReminder(ctx context.Context, r entity.Reminder) error
}

// Deduper отмечает уже отправленные напоминания между ретраями.
type Deduper interface {
	MarkOnce(ctx context.Context, key string) (bool, error)
	Forget(ctx context.Context, key string) error
}

type ReminderHandler struct {
	sender ReminderSender
	dedup  Deduper
}

func NewReminderHandler(sender ReminderSender, dedup Deduper) *ReminderHandler {
	return &ReminderHandler{sender: sender, dedup: dedup}
}

func (h *ReminderHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var r entity.Reminder
	if err := json.Unmarshal(task.Payload(), &r); err != nil {
		return fmt.Errorf("json.Unmarshal: %w: %w", err, asynq.SkipRetry)
	}

	key := DedupKey(r)

	if h.dedup != nil {
		first, err := h.dedup.MarkOnce(ctx, key)
		if err != nil {
			return fmt.Errorf("dedup.MarkOnce: %w", err)
		}

		if !first {
			logger(ctx).Info("reminder already sent", slog.String(logx.FieldTaskID, key))
			return nil
		}
	}

	if err := h.sender.SendReminder(ctx, r); err != nil {
		// отметку снимаем, чтобы ретрай asynq мог отправить снова
		if h.dedup != nil {
			if fErr := h.dedup.Forget(ctx, key); fErr != nil {
				logger(ctx).Error("dedup.Forget", slog.String(logx.FieldTaskID, key), logx.Error(fErr))
			}
		}

		return fmt.Errorf("sender.SendReminder: %w", err)
	}

	return nil
}
