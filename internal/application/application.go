package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"home_maintenance/internal/config"
	"home_maintenance/internal/domain/entity"
	"home_maintenance/internal/infrastructure/notifier"
	"home_maintenance/internal/server"
	"home_maintenance/internal/worker"
	"home_maintenance/pkg/application/connectors"
	"home_maintenance/pkg/application/modules"
	"home_maintenance/pkg/contextx"
	"home_maintenance/pkg/httpx"
	"home_maintenance/pkg/logx"
	"home_maintenance/pkg/middlewarex"
	"home_maintenance/pkg/probe"
)

const (
	alertsBuffer     = 16
	asynqConcurrency = 2
	botHTTPTimeout   = 30 * time.Second
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type reminderNotifier interface {
	worker.ReminderSender
	Run(ctx context.Context, reminders <-chan entity.Reminder) error
}

// Run поднимает HTTP API, пробы, метрики и доставку напоминаний и ждёт
// отмены ctx.
func Run(ctx context.Context, cfg config.Config) error { //nolint:funlen
	storage, err := OpenStorage(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("OpenStorage: %w", err)
	}
	defer storage.Close(ctx)

	location, err := cfg.Reminder.Location()
	if err != nil {
		return err
	}

	alerts := make(chan entity.Reminder, alertsBuffer)
	storage.Pool.WithAlerts(alerts)

	notify, err := newNotifier(cfg)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	checks := []probe.Check{storage.DB.PingContext}

	if cfg.Redis.Enabled() {
		redisConnector := &connectors.Redis{
			Username:       cfg.Redis.Username,
			Password:       cfg.Redis.Password,
			Address:        cfg.Redis.Address,
			DatabaseNumber: cfg.Redis.DB,
			PoolSize:       cfg.Redis.PoolSize,
		}
		redisClient := redisConnector.Client(ctx)
		defer redisConnector.Close(ctx)

		checks = append(checks, func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})

		redisOpt := asynq.RedisClientOpt{
			Addr:     cfg.Redis.Address,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}

		asynqClient := asynq.NewClient(redisOpt)
		defer asynqClient.Close()

		inspector := asynq.NewInspector(redisOpt)
		defer inspector.Close()

		storage.Pool.
			WithReminders(worker.NewReminderScheduler(asynqClient, inspector, cfg.Reminder.Hour, location)).
			WithClock(func() time.Time { return time.Now().In(location) })

		reminderHandler := worker.NewReminderHandler(
			notify,
			worker.NewRedisDeduper(redisClient, cfg.Reminder.DedupTTL),
		)

		modules.AsynqServer{
			RedisUsername: cfg.Redis.Username,
			RedisPassword: cfg.Redis.Password,
			RedisAddress:  cfg.Redis.Address,
			RedisDB:       cfg.Redis.DB,
			Concurrency:   asynqConcurrency,
			Logger:        logx.NewZapSugared(os.Stdout, logx.ParseLevel(cfg.Log.Level)),
		}.Run(ctx, g,
			modules.AsynqQueues{worker.QueueReminders: 1},
			modules.AsynqHandler{Pattern: worker.TaskTypeReminder, Handle: reminderHandler.Handle},
		)
	} else {
		watcher := worker.NewDueTestWatcher(storage.Pool, alerts).
			WithInterval(cfg.Reminder.CheckInterval).
			WithClock(func() time.Time { return time.Now().In(location) })

		if err = watcher.Start(ctx); err != nil {
			return fmt.Errorf("watcher.Start: %w", err)
		}
		defer watcher.Stop()

		logger(ctx).Info("redis is not configured, reminders are checked in process")
	}

	g.Go(func() error {
		if err := notify.Run(ctx, alerts); err != nil && ctx.Err() == nil {
			return fmt.Errorf("notifier.Run: %w", err)
		}

		return nil
	})

	router := chi.NewRouter()
	masker := logx.NewSensitiveDataMasker()

	router.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.RequestLogging(masker, cfg.HTTP.LogFieldMaxLen),
		middlewarex.ResponseLogging(masker, cfg.HTTP.LogFieldMaxLen),
		middlewarex.Recovery,
	)

	server.NewServer(
		server.NewPoolServer(storage.Pool),
		server.NewRainfallServer(storage.Rainfall),
		server.NewSettingsServer(storage.Settings),
	).RegisterRoutes(router)

	modules.HTTPServer{
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}.Run(ctx, g, &http.Server{
		Addr:              cfg.HTTP.ListenAddress,
		Handler:           router,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	})

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.HTTP.ProbeListenAddress,
		Checks:        checks,
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.HTTP.MetricsListenAddress,
	}.Run(ctx, g)

	logger(ctx).Info("application started",
		slog.String("version", cfg.App.Version),
		slog.String("db-driver", cfg.Database.Driver),
	)

	if err = g.Wait(); err != nil {
		return fmt.Errorf("errgroup.Wait: %w", err)
	}

	return nil
}

// newNotifier бот Telegram, если задан токен, иначе вывод в лог.
func newNotifier(cfg config.Config) (reminderNotifier, error) {
	if !cfg.Bot.Enabled() {
		return notifier.LogNotifier{}, nil
	}

	httpClient := &http.Client{
		Timeout: botHTTPTimeout,
		Transport: httpx.NewLoggingRoundTripper(
			http.DefaultTransport,
			httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
			httpx.WithLogFieldMaxLen(cfg.HTTP.LogFieldMaxLen),
		),
	}

	bot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID, httpClient)
	if err != nil {
		return nil, fmt.Errorf("notifier.NewTelegramBot: %w", err)
	}

	return bot, nil
}
