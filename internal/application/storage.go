package application

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"home_maintenance/internal/config"
	"home_maintenance/internal/domain/service/pool"
	"home_maintenance/internal/domain/service/rainfall"
	"home_maintenance/internal/domain/service/settings"
	"home_maintenance/internal/infrastructure/persistence"
	"home_maintenance/pkg/application/connectors"
)

// Storage подключение к базе и сервисы поверх репозиториев.
type Storage struct {
	database *connectors.Database
	DB       *sqlx.DB

	Pool     *pool.Service
	Rainfall *rainfall.Service
	Settings *settings.Service
}

// OpenStorage подключается к базе и применяет миграции.
func OpenStorage(ctx context.Context, cfg config.Database) (*Storage, error) {
	database := &connectors.Database{
		Driver:          cfg.Driver,
		DSN:             cfg.DSN,
		MaxIdleConns:    cfg.MaxIdleConns,
		MaxOpenConns:    cfg.MaxOpenConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}

	db := database.Client(ctx)

	if err := persistence.Migrate(ctx, db); err != nil {
		database.Close(ctx)
		return nil, fmt.Errorf("persistence.Migrate: %w", err)
	}

	return &Storage{
		database: database,
		DB:       db,
		Pool: pool.NewService(
			persistence.NewPoolTestRepository(db),
			persistence.NewDesiredRangeRepository(db),
		),
		Rainfall: rainfall.NewService(persistence.NewRainfallRepository(db)),
		Settings: settings.NewService(persistence.NewSettingsRepository(db)),
	}, nil
}

func (s *Storage) Close(ctx context.Context) {
	s.database.Close(ctx)
}
