package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"home_maintenance/internal/domain"
	"home_maintenance/internal/domain/entity"
	"home_maintenance/pkg/errcodes"
)

const upsertSettingQuery = `
	INSERT INTO settings (key, value) VALUES (:key, :value)
	ON CONFLICT (key) DO UPDATE SET value = excluded.value`

type SettingsRepository struct {
	db *sqlx.DB
}

func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) All(ctx context.Context) ([]entity.Setting, error) {
	var rows []settingSchema
	if err := r.db.SelectContext(ctx, &rows, `SELECT key, value FROM settings ORDER BY key`); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list settings")
	}

	result := make([]entity.Setting, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}

	return result, nil
}

func (r *SettingsRepository) Get(ctx context.Context, key string) (entity.Setting, error) {
	var row settingSchema

	query := r.db.Rebind(`SELECT key, value FROM settings WHERE key = ?`)
	if err := r.db.GetContext(ctx, &row, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Setting{}, domain.NewError(errcodes.SettingNotFound, "setting not found")
		}
		return entity.Setting{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get setting")
	}

	return row.toDomain(), nil
}

// SetMany записывает значения в одной транзакции (insert or replace).
func (r *SettingsRepository) SetMany(ctx context.Context, settings []entity.Setting) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, s := range settings {
			row := settingSchema{Key: s.Key, Value: sql.NullString{String: s.Value, Valid: true}}
			if _, err := tx.NamedExecContext(ctx, upsertSettingQuery, row); err != nil {
				return domain.WrapError(err, errcodes.InternalServerError, "failed to set setting")
			}
		}

		return nil
	})
}

func (r *SettingsRepository) Set(ctx context.Context, s entity.Setting) error {
	return r.SetMany(ctx, []entity.Setting{s})
}
