package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"cloud.google.com/go/civil"

	"home_maintenance/internal/domain/entity"
	"home_maintenance/pkg/logx"
)

const defaultCheckInterval = time.Hour

// LatestTestSource последний записанный тест (классифицированный).
type LatestTestSource interface {
	List(ctx context.Context, limit, offset int) ([]*entity.PoolTest, error)
}

// DueTestWatcher проверяет по таймеру, не наступила ли дата следующего теста,
// и отправляет напоминание в канал. Работает без Redis, в процессе сервиса.
type DueTestWatcher struct {
	tests     LatestTestSource
	reminders chan<- entity.Reminder
	interval  time.Duration
	now       func() time.Time

	lastNotified civil.Date

	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
}

func NewDueTestWatcher(tests LatestTestSource, reminders chan<- entity.Reminder) *DueTestWatcher {
	return &DueTestWatcher{
		tests:     tests,
		reminders: reminders,
		interval:  defaultCheckInterval,
		now:       time.Now,
	}
}

func (w *DueTestWatcher) WithInterval(d time.Duration) *DueTestWatcher {
	if d > 0 {
		w.interval = d
	}
	return w
}

func (w *DueTestWatcher) WithClock(now func() time.Time) *DueTestWatcher {
	w.now = now
	return w
}

func (w *DueTestWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return errors.New("watcher is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel
	w.isRunning = true

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.isRunning = false
			w.cancelFunc = nil
			w.mu.Unlock()
		}()

		if err := w.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(ctx).Error("due test watcher stopped", logx.Error(err))
		}
	}()

	return nil
}

func (w *DueTestWatcher) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *DueTestWatcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}

func (w *DueTestWatcher) Run(ctx context.Context) error {
	logger(ctx).Info("due test watcher started", slog.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.Check(ctx); err != nil {
			logger(ctx).Error("due test check failed", logx.Error(err))
		}

		select {
		case <-ctx.Done():
			logger(ctx).Info("due test watcher stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Check отправляет одно напоминание на каждую наступившую плановую дату.
func (w *DueTestWatcher) Check(ctx context.Context) error {
	latest, err := w.tests.List(ctx, 1, 0)
	if err != nil {
		return err
	}

	if len(latest) == 0 {
		return nil
	}

	t := latest[0]
	today := civil.DateOf(w.now())

	if today.Before(t.NextTestDate) || w.lastNotified == t.NextTestDate {
		return nil
	}

	select {
	case w.reminders <- entity.NewReminder(t):
		w.lastNotified = t.NextTestDate
		logger(ctx).Info("pool test due",
			slog.Int64(logx.FieldPoolTestID, t.ID),
			slog.String(logx.FieldNextTestDate, t.NextTestDate.String()),
		)
	case <-ctx.Done():
		return ctx.Err()
	}

	return nil
}
