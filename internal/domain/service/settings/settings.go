package settings

import (
	"context"
	"fmt"
	"strings"

	"git.appkode.ru/pub/go/failure"

	"home_maintenance/internal/domain"
	"home_maintenance/internal/domain/entity"
	"home_maintenance/pkg/errcodes"
)

const maxKeyLength = 128

type Repository interface {
	All(ctx context.Context) ([]entity.Setting, error)
	Get(ctx context.Context, key string) (entity.Setting, error)
	Set(ctx context.Context, s entity.Setting) error
	SetMany(ctx context.Context, settings []entity.Setting) error
}

// Service простое хранилище ключ-значение.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) All(ctx context.Context) (map[string]string, error) {
	list, err := s.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}

	result := make(map[string]string, len(list))
	for _, item := range list {
		result[item.Key] = item.Value
	}

	return result, nil
}

// Get возвращает значение или def, если ключа нет.
func (s *Service) Get(ctx context.Context, key, def string) (string, error) {
	item, err := s.repo.Get(ctx, key)
	if err != nil {
		if domain.IsNotFound(err) {
			return def, nil
		}
		return "", fmt.Errorf("get setting: %w", err)
	}

	return item.Value, nil
}

// Lookup как Get, но отсутствие ключа является ошибкой SettingNotFound.
func (s *Service) Lookup(ctx context.Context, key string) (entity.Setting, error) {
	item, err := s.repo.Get(ctx, key)
	if err != nil {
		return entity.Setting{}, fmt.Errorf("get setting: %w", err)
	}

	return item, nil
}

func (s *Service) Set(ctx context.Context, key, val string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if err := s.repo.Set(ctx, entity.Setting{Key: key, Value: val}); err != nil {
		return fmt.Errorf("set setting: %w", err)
	}

	return nil
}

// Import записывает все значения одной транзакцией.
func (s *Service) Import(ctx context.Context, values map[string]string) (int, error) {
	list := make([]entity.Setting, 0, len(values))

	for k, v := range values {
		if err := validateKey(k); err != nil {
			return 0, err
		}
		list = append(list, entity.Setting{Key: k, Value: v})
	}

	if err := s.repo.SetMany(ctx, list); err != nil {
		return 0, fmt.Errorf("import settings: %w", err)
	}

	return len(list), nil
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" || len(key) > maxKeyLength {
		return failure.NewInvalidArgumentError("invalid setting key",
			failure.WithCode(errcodes.InvalidSettingKey),
			failure.WithDescription(fmt.Sprintf("key must be non-empty and at most %d bytes", maxKeyLength)),
		)
	}

	return nil
}
