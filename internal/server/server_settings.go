package server

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"home_maintenance/internal/domain/entity"
	"home_maintenance/pkg/httpx/reply"
	"home_maintenance/pkg/httpx/req"
	"home_maintenance/pkg/lox"
	"home_maintenance/pkg/rest"
)

type settingsService interface {
	All(ctx context.Context) (map[string]string, error)
	Lookup(ctx context.Context, key string) (entity.Setting, error)
	Set(ctx context.Context, key, val string) error
}

type SettingsServer struct {
	settingsService settingsService
}

func NewSettingsServer(settingsService settingsService) SettingsServer {
	return SettingsServer{
		settingsService: settingsService,
	}
}

func (s SettingsServer) getV1Settings(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	all, err := s.settingsService.All(ctx)
	if err != nil {
		return fmt.Errorf("settingsService.All: %w", err)
	}

	list := lox.ReverseMap(all, func(k, v string) rest.Setting {
		return rest.Setting{Key: k, Value: v}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Key < list[j].Key })

	reply.JSON(ctx, w, http.StatusOK, list)

	return nil
}

func (s SettingsServer) getV1Setting(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	item, err := s.settingsService.Lookup(ctx, r.PathValue("key"))
	if err != nil {
		return fmt.Errorf("settingsService.Lookup: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.Setting{Key: item.Key, Value: item.Value})

	return nil
}

func (s SettingsServer) putV1Setting(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	key := r.PathValue("key")

	var request rest.SettingRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	if err := s.settingsService.Set(ctx, key, request.Value); err != nil {
		return fmt.Errorf("settingsService.Set: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.Setting{Key: key, Value: request.Value})

	return nil
}
