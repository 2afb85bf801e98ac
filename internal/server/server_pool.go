package server

import (
	"context"
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"

	"home_maintenance/internal/domain/entity"
	"home_maintenance/internal/domain/service/classifier"
	"home_maintenance/internal/domain/service/pool"
	"home_maintenance/internal/domain/service/schedule"
	"home_maintenance/internal/domain/value"
	"home_maintenance/pkg/errcodes"
	"home_maintenance/pkg/httpx/reply"
	"home_maintenance/pkg/httpx/req"
	"home_maintenance/pkg/lox"
	"home_maintenance/pkg/rest"
)

type poolService interface {
	Classify(ctx context.Context, readings value.Readings) (map[value.PoolField]value.Status, error)
	Ranges(ctx context.Context) (value.RangeTable, error)
	UpsertRange(ctx context.Context, field value.PoolField, def value.RangeDefinition) error
	DeleteRange(ctx context.Context, field value.PoolField) error
	SeedDefaultRanges(ctx context.Context) error
	Record(ctx context.Context, in pool.Input) (*entity.PoolTest, error)
	Update(ctx context.Context, id int64, in pool.Input) (*entity.PoolTest, error)
	Get(ctx context.Context, id int64) (*entity.PoolTest, error)
	List(ctx context.Context, limit, offset int) ([]*entity.PoolTest, error)
	Delete(ctx context.Context, id int64) error
}

type PoolServer struct {
	poolService poolService
}

func NewPoolServer(poolService poolService) PoolServer {
	return PoolServer{
		poolService: poolService,
	}
}

func (s PoolServer) postV1Classify(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.ClassifyRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	// Одно значение против переданного диапазона.
	if request.Value != nil {
		def := newDomainRange(*request.Range)
		if err := def.Validate(); err != nil {
			return failure.NewInvalidArgumentErrorFromError(
				fmt.Errorf("def.Validate: %w", err),
				failure.WithCode(errcodes.InvalidRange),
				failure.WithDescription(err.Error()),
			)
		}

		status := classifier.Classify(*request.Value, def)

		reply.JSON(ctx, w, http.StatusOK, rest.ClassifyResponse{
			Results: []rest.FieldStatus{{
				Value:  request.Value,
				Status: status.String(),
				Colour: newRESTColour(status),
			}},
		})

		return nil
	}

	readings, err := newDomainReadingsMap(request.Readings)
	if err != nil {
		return fmt.Errorf("newDomainReadingsMap: %w", err)
	}

	statuses, err := s.poolService.Classify(ctx, readings)
	if err != nil {
		return fmt.Errorf("poolService.Classify: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.ClassifyResponse{
		Results: newRESTStatuses(readings, statuses),
	})

	return nil
}

func (s PoolServer) getV1ScheduleNext(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	date, err := schedule.ParseTestDate(r.URL.Query().Get("date"))
	if err != nil {
		return fmt.Errorf("schedule.ParseTestDate: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTNextDate(date))

	return nil
}

func (s PoolServer) getV1PoolTests(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	limit, offset, err := parsePaging(r)
	if err != nil {
		return fmt.Errorf("parsePaging: %w", err)
	}

	list, err := s.poolService.List(ctx, limit, offset)
	if err != nil {
		return fmt.Errorf("poolService.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lox.Map(list, newRESTPoolTest))

	return nil
}

func (s PoolServer) postV1PoolTest(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.PoolTestRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	in, err := newDomainPoolInput(request)
	if err != nil {
		return fmt.Errorf("newDomainPoolInput: %w", err)
	}

	t, err := s.poolService.Record(ctx, in)
	if err != nil {
		return fmt.Errorf("poolService.Record: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTPoolTest(t))

	return nil
}

func (s PoolServer) getV1PoolTest(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := parseID(r.PathValue("id"), errcodes.InvalidPoolTestID)
	if err != nil {
		return fmt.Errorf("parseID: %w", err)
	}

	t, err := s.poolService.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("poolService.Get: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTPoolTest(t))

	return nil
}

func (s PoolServer) putV1PoolTest(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := parseID(r.PathValue("id"), errcodes.InvalidPoolTestID)
	if err != nil {
		return fmt.Errorf("parseID: %w", err)
	}

	var request rest.PoolTestRequest

	if err = req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	in, err := newDomainPoolInput(request)
	if err != nil {
		return fmt.Errorf("newDomainPoolInput: %w", err)
	}

	t, err := s.poolService.Update(ctx, id, in)
	if err != nil {
		return fmt.Errorf("poolService.Update: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTPoolTest(t))

	return nil
}

func (s PoolServer) deleteV1PoolTest(w http.ResponseWriter, r *http.Request) error {
	id, err := parseID(r.PathValue("id"), errcodes.InvalidPoolTestID)
	if err != nil {
		return fmt.Errorf("parseID: %w", err)
	}

	if err = s.poolService.Delete(r.Context(), id); err != nil {
		return fmt.Errorf("poolService.Delete: %w", err)
	}

	reply.OK(w)

	return nil
}

func (s PoolServer) getV1Ranges(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	table, err := s.poolService.Ranges(ctx)
	if err != nil {
		return fmt.Errorf("poolService.Ranges: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTRanges(table))

	return nil
}

func (s PoolServer) putV1Range(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	field, err := parsePoolField(r.PathValue("item"))
	if err != nil {
		return fmt.Errorf("parsePoolField: %w", err)
	}

	var request rest.RangeDefinition

	if err = req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	if err = s.poolService.UpsertRange(ctx, field, newDomainRange(request)); err != nil {
		return fmt.Errorf("poolService.UpsertRange: %w", err)
	}

	table, err := s.poolService.Ranges(ctx)
	if err != nil {
		return fmt.Errorf("poolService.Ranges: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTRanges(table))

	return nil
}

func (s PoolServer) deleteV1Range(w http.ResponseWriter, r *http.Request) error {
	field, err := parsePoolField(r.PathValue("item"))
	if err != nil {
		return fmt.Errorf("parsePoolField: %w", err)
	}

	if err = s.poolService.DeleteRange(r.Context(), field); err != nil {
		return fmt.Errorf("poolService.DeleteRange: %w", err)
	}

	reply.OK(w)

	return nil
}

func (s PoolServer) postV1RangesSeed(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if err := s.poolService.SeedDefaultRanges(ctx); err != nil {
		return fmt.Errorf("poolService.SeedDefaultRanges: %w", err)
	}

	table, err := s.poolService.Ranges(ctx)
	if err != nil {
		return fmt.Errorf("poolService.Ranges: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTRanges(table))

	return nil
}

func parsePoolField(s string) (value.PoolField, error) {
	f, err := value.ParsePoolField(s)
	if err != nil {
		return 0, failure.NewInvalidArgumentErrorFromError(err,
			failure.WithCode(errcodes.InvalidPoolField),
			failure.WithDescription(err.Error()),
		)
	}

	return f, nil
}
