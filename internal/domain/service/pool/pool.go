package pool

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"cloud.google.com/go/civil"
	"git.appkode.ru/pub/go/failure"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"home_maintenance/internal/domain/entity"
	"home_maintenance/internal/domain/service/schedule"
	"home_maintenance/internal/domain/value"
	"home_maintenance/pkg/contextx"
	"home_maintenance/pkg/errcodes"
	"home_maintenance/pkg/logx"
)

const (
	rangesCacheKey = "ranges"
	rangesCacheTTL = 10 * time.Minute

	defaultListLimit = 50
	maxListLimit     = 500
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

//nolint:gochecknoglobals
var classificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pool_classifications_total",
	Help: "Pool readings classified, by field and status.",
}, []string{"field", "status"})

type PoolTestRepository interface {
	Create(ctx context.Context, t *entity.PoolTest) error
	Update(ctx context.Context, t *entity.PoolTest) error
	GetByID(ctx context.Context, id int64) (*entity.PoolTest, error)
	List(ctx context.Context, limit, offset int) ([]*entity.PoolTest, error)
	Delete(ctx context.Context, id int64) error
}

type RangeRepository interface {
	List(ctx context.Context) (value.RangeTable, error)
	Upsert(ctx context.Context, field value.PoolField, def value.RangeDefinition) error
	UpsertBatch(ctx context.Context, table value.RangeTable) error
	Delete(ctx context.Context, field value.PoolField) error
}

// ReminderScheduler держит одно напоминание на дату следующего теста.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, r entity.Reminder) error
	CancelReminder(ctx context.Context) error
}

// Input исходные данные теста, приходящие от пользователя.
type Input struct {
	TestDate     civil.Date
	Readings     value.Readings
	ClarityNotes string
	ActionsTaken string
}

type Service struct {
	tests     PoolTestRepository
	ranges    RangeRepository
	cache     *cache.Cache
	alerts    chan<- entity.Reminder
	reminders ReminderScheduler
	now       func() time.Time

	// rangesVersion растёт на каждой записи диапазонов; кеш заполняется,
	// только если за время чтения версия не изменилась.
	rangesVersion atomic.Uint64
	cacheMu       sync.Mutex
}

func NewService(tests PoolTestRepository, ranges RangeRepository) *Service {
	return &Service{
		tests:  tests,
		ranges: ranges,
		cache:  cache.New(rangesCacheTTL, 2*rangesCacheTTL),
		now:    time.Now,
	}
}

// WithClock часы в зоне напоминаний; по ним прошедшие даты не планируются.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithAlerts канал для тестов с показателями вне диапазона.
func (s *Service) WithAlerts(alerts chan<- entity.Reminder) *Service {
	s.alerts = alerts
	return s
}

func (s *Service) WithReminders(r ReminderScheduler) *Service {
	s.reminders = r
	return s
}

// Ranges текущая таблица диапазонов (из кеша, если он свеж).
func (s *Service) Ranges(ctx context.Context) (value.RangeTable, error) {
	if cached, ok := s.cache.Get(rangesCacheKey); ok {
		if table, ok := cached.(value.RangeTable); ok {
			return table, nil
		}
	}

	version := s.rangesVersion.Load()

	table, err := s.ranges.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ranges: %w", err)
	}

	s.cacheMu.Lock()
	if s.rangesVersion.Load() == version {
		s.cache.Set(rangesCacheKey, table, cache.DefaultExpiration)
	}
	s.cacheMu.Unlock()

	return table, nil
}

func (s *Service) invalidateRanges() {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	s.rangesVersion.Add(1)
	s.cache.Delete(rangesCacheKey)
}

func (s *Service) UpsertRange(ctx context.Context, field value.PoolField, def value.RangeDefinition) error {
	if !field.IsValid() {
		return invalidField(field)
	}

	if err := def.Validate(); err != nil {
		return failure.NewInvalidArgumentErrorFromError(err,
			failure.WithCode(errcodes.InvalidRange),
			failure.WithDescription(fmt.Sprintf("invalid range for %s", field.Key())),
		)
	}

	s.invalidateRanges()
	defer s.invalidateRanges()

	if err := s.ranges.Upsert(ctx, field, def); err != nil {
		return fmt.Errorf("upsert range: %w", err)
	}

	logger(ctx).Info("desired range updated",
		slog.String(logx.FieldPoolField, field.Key()),
		slog.Float64("low", def.Low),
		slog.Float64("high", def.High),
		slog.Float64("warn_factor", def.WarnFactor),
	)

	return nil
}

func (s *Service) DeleteRange(ctx context.Context, field value.PoolField) error {
	if !field.IsValid() {
		return invalidField(field)
	}

	s.invalidateRanges()
	defer s.invalidateRanges()

	if err := s.ranges.Delete(ctx, field); err != nil {
		return fmt.Errorf("delete range: %w", err)
	}

	return nil
}

// SeedDefaultRanges записывает стандартные диапазоны поверх существующих.
func (s *Service) SeedDefaultRanges(ctx context.Context) error {
	return s.ReplaceRanges(ctx, value.DefaultRangeTable())
}

// ReplaceRanges проверяет и записывает всю таблицу целиком.
func (s *Service) ReplaceRanges(ctx context.Context, table value.RangeTable) error {
	for field, def := range table {
		if err := def.Validate(); err != nil {
			return failure.NewInvalidArgumentErrorFromError(err,
				failure.WithCode(errcodes.InvalidRange),
				failure.WithDescription(fmt.Sprintf("invalid range for %s", field.Key())),
			)
		}
	}

	s.invalidateRanges()
	defer s.invalidateRanges()

	if err := s.ranges.UpsertBatch(ctx, table); err != nil {
		return fmt.Errorf("upsert ranges: %w", err)
	}

	logger(ctx).Info("desired ranges seeded", slog.Int(logx.FieldCount, len(table)))

	return nil
}

// Classify классифицирует показания без сохранения.
func (s *Service) Classify(ctx context.Context, readings value.Readings) (map[value.PoolField]value.Status, error) {
	ranges, err := s.Ranges(ctx)
	if err != nil {
		return nil, err
	}

	result := entity.ClassifyAll(readings, ranges)
	countClassifications(result)

	return result, nil
}

// Record сохраняет новый тест, классифицирует его и планирует напоминание.
func (s *Service) Record(ctx context.Context, in Input) (*entity.PoolTest, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	t := entity.NewPoolTest(in.TestDate, in.Readings)
	t.ClarityNotes = in.ClarityNotes
	t.ActionsTaken = in.ActionsTaken

	if err := s.tests.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create pool test: %w", err)
	}

	if err := s.afterSave(ctx, t); err != nil {
		return nil, err
	}

	logger(ctx).Info("pool test recorded",
		slog.Int64(logx.FieldPoolTestID, t.ID),
		slog.String(logx.FieldTestDate, t.TestDate.String()),
		slog.String(logx.FieldNextTestDate, t.NextTestDate.String()),
	)

	return t, nil
}

// Update заменяет данные теста; плановая дата и статусы пересчитываются.
func (s *Service) Update(ctx context.Context, id int64, in Input) (*entity.PoolTest, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	t, err := s.tests.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get pool test: %w", err)
	}

	t.SetTestDate(in.TestDate)
	t.SetReadings(in.Readings)
	t.ClarityNotes = in.ClarityNotes
	t.ActionsTaken = in.ActionsTaken

	if err := s.tests.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("update pool test: %w", err)
	}

	if err := s.afterSave(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*entity.PoolTest, error) {
	t, err := s.tests.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get pool test: %w", err)
	}

	if err := s.classify(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

// List тесты от новых к старым, классифицированные по текущей таблице.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*entity.PoolTest, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	if limit > maxListLimit || offset < 0 {
		return nil, failure.NewInvalidArgumentError("invalid paging",
			failure.WithCode(errcodes.InvalidPaging),
			failure.WithDescription(fmt.Sprintf("limit must be at most %d, offset non-negative", maxListLimit)),
		)
	}

	list, err := s.tests.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list pool tests: %w", err)
	}

	ranges, err := s.Ranges(ctx)
	if err != nil {
		return nil, err
	}

	for _, t := range list {
		t.ApplyRanges(ranges)
	}

	return list, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.tests.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete pool test: %w", err)
	}

	logger(ctx).Info("pool test deleted", slog.Int64(logx.FieldPoolTestID, id))

	s.syncReminder(ctx, nil)

	return nil
}

func (s *Service) classify(ctx context.Context, t *entity.PoolTest) error {
	ranges, err := s.Ranges(ctx)
	if err != nil {
		return err
	}

	t.ApplyRanges(ranges)

	return nil
}

func (s *Service) afterSave(ctx context.Context, t *entity.PoolTest) error {
	if err := s.classify(ctx, t); err != nil {
		return err
	}

	countClassifications(t.Classifications)

	reminder := entity.NewReminder(t)

	if len(reminder.OutOfRange) > 0 {
		s.pushAlert(ctx, reminder.AsAlert())
	}

	s.syncReminder(ctx, t)

	return nil
}

// syncReminder приводит напоминание к последнему тесту: старый тест не
// перебивает новый, прошедшая дата снимает напоминание.
// Ошибки только логируются, сохранённый тест не откатывается.
func (s *Service) syncReminder(ctx context.Context, saved *entity.PoolTest) {
	if s.reminders == nil {
		return
	}

	latest, err := s.latestTest(ctx, saved)
	if err != nil {
		logger(ctx).Error("sync reminder", logx.Error(err))
		return
	}

	today := civil.DateOf(s.now())

	if latest == nil || latest.NextTestDate.Before(today) {
		if err := s.reminders.CancelReminder(ctx); err != nil {
			logger(ctx).Error("cancel reminder", logx.Error(err))
		}

		return
	}

	if err := s.reminders.ScheduleReminder(ctx, entity.NewReminder(latest)); err != nil {
		logger(ctx).Error("schedule reminder",
			slog.Int64(logx.FieldPoolTestID, latest.ID),
			logx.Error(err),
		)
	}
}

// latestTest последний по дате тест, классифицированный; nil, если тестов нет.
func (s *Service) latestTest(ctx context.Context, saved *entity.PoolTest) (*entity.PoolTest, error) {
	list, err := s.tests.List(ctx, 1, 0)
	if err != nil {
		return nil, fmt.Errorf("list pool tests: %w", err)
	}

	if len(list) == 0 {
		return nil, nil //nolint:nilnil
	}

	if saved != nil && list[0].ID == saved.ID {
		return saved, nil
	}

	if err := s.classify(ctx, list[0]); err != nil {
		return nil, err
	}

	return list[0], nil
}

// pushAlert не блокирует запрос, если уведомитель не успевает.
func (s *Service) pushAlert(ctx context.Context, r entity.Reminder) {
	if s.alerts == nil {
		return
	}

	select {
	case s.alerts <- r:
	default:
		logger(ctx).Warn("alert dropped, channel full", slog.Int64(logx.FieldPoolTestID, r.PoolTestID))
	}
}

func countClassifications(statuses map[value.PoolField]value.Status) {
	for field, status := range statuses {
		classificationsTotal.WithLabelValues(field.Column(), status.String()).Inc()
	}
}

// validateInput требует корректную дату и все десять показателей.
func validateInput(in Input) error {
	if err := schedule.CheckDate(in.TestDate); err != nil {
		return err
	}

	return validateReadings(in.Readings)
}

func validateReadings(readings value.Readings) error {
	var missing []string

	for _, f := range value.AllPoolFields() {
		if _, ok := readings[f]; !ok {
			missing = append(missing, f.Key())
		}
	}

	if len(missing) > 0 {
		return failure.NewInvalidArgumentError("missing readings",
			failure.WithCode(errcodes.InvalidPoolField),
			failure.WithDescription(fmt.Sprintf("missing readings: %v", missing)),
		)
	}

	for f := range readings {
		if !f.IsValid() {
			return invalidField(f)
		}
	}

	return nil
}

func invalidField(f value.PoolField) error {
	return failure.NewInvalidArgumentError("invalid pool field",
		failure.WithCode(errcodes.InvalidPoolField),
		failure.WithDescription(fmt.Sprintf("unknown pool field %d", int(f))),
	)
}
