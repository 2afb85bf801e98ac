package server

import (
	"context"
	"fmt"
	"net/http"

	"home_maintenance/internal/domain/entity"
	"home_maintenance/pkg/errcodes"
	"home_maintenance/pkg/httpx/reply"
	"home_maintenance/pkg/httpx/req"
	"home_maintenance/pkg/lox"
	"home_maintenance/pkg/rest"
)

type rainfallService interface {
	Record(ctx context.Context, rec *entity.RainfallRecord) error
	Update(ctx context.Context, rec *entity.RainfallRecord) error
	Get(ctx context.Context, id int64) (*entity.RainfallRecord, error)
	List(ctx context.Context, limit, offset int) ([]*entity.RainfallRecord, error)
	Delete(ctx context.Context, id int64) error
	Summary(ctx context.Context) (entity.RainfallSummary, error)
}

type RainfallServer struct {
	rainfallService rainfallService
}

func NewRainfallServer(rainfallService rainfallService) RainfallServer {
	return RainfallServer{
		rainfallService: rainfallService,
	}
}

func (s RainfallServer) getV1RainfallList(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	limit, offset, err := parsePaging(r)
	if err != nil {
		return fmt.Errorf("parsePaging: %w", err)
	}

	recs, err := s.rainfallService.List(ctx, limit, offset)
	if err != nil {
		return fmt.Errorf("rainfallService.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lox.Map(recs, newRESTRainfall))

	return nil
}

func (s RainfallServer) postV1Rainfall(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.RainfallRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	rec, err := newDomainRainfall(request)
	if err != nil {
		return fmt.Errorf("newDomainRainfall: %w", err)
	}

	if err = s.rainfallService.Record(ctx, rec); err != nil {
		return fmt.Errorf("rainfallService.Record: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTRainfall(rec))

	return nil
}

func (s RainfallServer) getV1Rainfall(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := parseID(r.PathValue("id"), errcodes.InvalidRainfallID)
	if err != nil {
		return fmt.Errorf("parseID: %w", err)
	}

	rec, err := s.rainfallService.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("rainfallService.Get: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTRainfall(rec))

	return nil
}

func (s RainfallServer) putV1Rainfall(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := parseID(r.PathValue("id"), errcodes.InvalidRainfallID)
	if err != nil {
		return fmt.Errorf("parseID: %w", err)
	}

	var request rest.RainfallRequest

	if err = req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	rec, err := newDomainRainfall(request)
	if err != nil {
		return fmt.Errorf("newDomainRainfall: %w", err)
	}

	rec.ID = id

	if err = s.rainfallService.Update(ctx, rec); err != nil {
		return fmt.Errorf("rainfallService.Update: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTRainfall(rec))

	return nil
}

func (s RainfallServer) deleteV1Rainfall(w http.ResponseWriter, r *http.Request) error {
	id, err := parseID(r.PathValue("id"), errcodes.InvalidRainfallID)
	if err != nil {
		return fmt.Errorf("parseID: %w", err)
	}

	if err = s.rainfallService.Delete(r.Context(), id); err != nil {
		return fmt.Errorf("rainfallService.Delete: %w", err)
	}

	reply.OK(w)

	return nil
}

func (s RainfallServer) getV1RainfallSummary(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	summary, err := s.rainfallService.Summary(ctx)
	if err != nil {
		return fmt.Errorf("rainfallService.Summary: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTRainfallSummary(summary))

	return nil
}
