package rainfall

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/civil"
	"git.appkode.ru/pub/go/failure"
	"github.com/samber/lo"

	"home_maintenance/internal/domain/entity"
	"home_maintenance/internal/domain/service/schedule"
	"home_maintenance/pkg/contextx"
	"home_maintenance/pkg/errcodes"
	"home_maintenance/pkg/logx"
)

const maxListLimit = 1000

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type Repository interface {
	Create(ctx context.Context, rec *entity.RainfallRecord) error
	CreateBatch(ctx context.Context, recs []*entity.RainfallRecord) error
	Update(ctx context.Context, rec *entity.RainfallRecord) error
	GetByID(ctx context.Context, id int64) (*entity.RainfallRecord, error)
	List(ctx context.Context, limit, offset int) ([]*entity.RainfallRecord, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Record(ctx context.Context, rec *entity.RainfallRecord) error {
	if err := schedule.CheckDate(rec.Date); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return fmt.Errorf("create rainfall record: %w", err)
	}

	logger(ctx).Info("rainfall recorded",
		slog.Int64(logx.FieldRainfallID, rec.ID),
		slog.String("date", rec.Date.String()),
	)

	return nil
}

// Import сохраняет пачку записей одной транзакцией.
func (s *Service) Import(ctx context.Context, recs []*entity.RainfallRecord) (int, error) {
	for _, rec := range recs {
		if err := schedule.CheckDate(rec.Date); err != nil {
			return 0, err
		}
	}

	if len(recs) == 0 {
		return 0, nil
	}

	if err := s.repo.CreateBatch(ctx, recs); err != nil {
		return 0, fmt.Errorf("import rainfall records: %w", err)
	}

	logger(ctx).Info("rainfall imported", slog.Int(logx.FieldCount, len(recs)))

	return len(recs), nil
}

func (s *Service) Update(ctx context.Context, rec *entity.RainfallRecord) error {
	if err := schedule.CheckDate(rec.Date); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, rec); err != nil {
		return fmt.Errorf("update rainfall record: %w", err)
	}

	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*entity.RainfallRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get rainfall record: %w", err)
	}

	return rec, nil
}

// List записи по возрастанию даты; limit = 0 означает все записи.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*entity.RainfallRecord, error) {
	if limit < 0 || limit > maxListLimit || offset < 0 {
		return nil, failure.NewInvalidArgumentError("invalid paging",
			failure.WithCode(errcodes.InvalidPaging),
			failure.WithDescription(fmt.Sprintf("limit must be within [0, %d], offset non-negative", maxListLimit)),
		)
	}

	recs, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list rainfall records: %w", err)
	}

	return recs, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete rainfall record: %w", err)
	}

	return nil
}

// Summary пропущенные дни журнала, последний дождь и последний полив.
func (s *Service) Summary(ctx context.Context) (entity.RainfallSummary, error) {
	recs, err := s.repo.List(ctx, 0, 0)
	if err != nil {
		return entity.RainfallSummary{}, fmt.Errorf("list rainfall records: %w", err)
	}

	return Summarize(recs), nil
}

// Summarize сводка по записям в любом порядке.
func Summarize(recs []*entity.RainfallRecord) entity.RainfallSummary {
	summary := entity.RainfallSummary{MissingDates: []civil.Date{}}

	if len(recs) == 0 {
		return summary
	}

	seen := make(map[civil.Date]struct{}, len(recs))
	first, last := recs[0].Date, recs[0].Date

	for _, rec := range recs {
		seen[rec.Date] = struct{}{}

		if rec.Date.Before(first) {
			first = rec.Date
		}
		if rec.Date.After(last) {
			last = rec.Date
		}

		if mm, ok := rec.EffectiveMM(); ok && mm > 0 {
			summary.LastRainDate = latest(summary.LastRainDate, rec.Date)
		}

		if rec.Watered {
			summary.LastWateringDate = latest(summary.LastWateringDate, rec.Date)
		}
	}

	for d := first; !d.After(last); d = d.AddDays(1) {
		if _, ok := seen[d]; !ok {
			summary.MissingDates = append(summary.MissingDates, d)
		}
	}

	return summary
}

func latest(current *civil.Date, d civil.Date) *civil.Date {
	if current == nil || d.After(*current) {
		return lo.ToPtr(d)
	}

	return current
}
