package persistence

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"home_maintenance/internal/domain"
	"home_maintenance/internal/domain/value"
	"home_maintenance/pkg/errcodes"
	"home_maintenance/pkg/logx"
)

const upsertRangeQuery = `
	INSERT INTO desired_ranges (item_name, low_value, high_value, factor_warn)
	VALUES (:item_name, :low_value, :high_value, :factor_warn)
	ON CONFLICT (item_name) DO UPDATE SET
		low_value = excluded.low_value,
		high_value = excluded.high_value,
		factor_warn = excluded.factor_warn`

type DesiredRangeRepository struct {
	db *sqlx.DB
}

func NewDesiredRangeRepository(db *sqlx.DB) *DesiredRangeRepository {
	return &DesiredRangeRepository{db: db}
}

// List возвращает таблицу диапазонов. Строки с неизвестным item_name
// пропускаются с предупреждением.
func (r *DesiredRangeRepository) List(ctx context.Context) (value.RangeTable, error) {
	var rows []desiredRangeSchema
	if err := r.db.SelectContext(ctx, &rows, `SELECT * FROM desired_ranges ORDER BY item_name`); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list desired ranges")
	}

	table := make(value.RangeTable, len(rows))

	for _, row := range rows {
		field, def, err := row.toDomain()
		if err != nil {
			logger(ctx).Warn("skip desired range", slog.String("item", row.ItemName), logx.Error(err))
			continue
		}
		table[field] = def
	}

	return table, nil
}

func (r *DesiredRangeRepository) Get(ctx context.Context, field value.PoolField) (value.RangeDefinition, error) {
	var row desiredRangeSchema

	query := r.db.Rebind(`SELECT * FROM desired_ranges WHERE item_name = ?`)
	if err := r.db.GetContext(ctx, &row, query, field.Key()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return value.RangeDefinition{}, domain.NewError(errcodes.RangeNotFound, "desired range not found")
		}
		return value.RangeDefinition{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get desired range")
	}

	_, def, err := row.toDomain()
	if err != nil {
		return value.RangeDefinition{}, domain.WrapError(err, errcodes.InternalServerError, "corrupted desired range")
	}

	return def, nil
}

func (r *DesiredRangeRepository) Upsert(ctx context.Context, field value.PoolField, def value.RangeDefinition) error {
	return r.UpsertBatch(ctx, value.RangeTable{field: def})
}

// UpsertBatch записывает все диапазоны таблицы в одной транзакции.
func (r *DesiredRangeRepository) UpsertBatch(ctx context.Context, table value.RangeTable) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, field := range value.AllPoolFields() {
			def, ok := table[field]
			if !ok {
				continue
			}

			if _, err := tx.NamedExecContext(ctx, upsertRangeQuery, fromRange(field, def)); err != nil {
				return domain.WrapError(err, errcodes.InternalServerError, "failed to upsert desired range")
			}
		}

		return nil
	})
}

func (r *DesiredRangeRepository) Delete(ctx context.Context, field value.PoolField) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		n, err := execAffected(ctx, tx, `DELETE FROM desired_ranges WHERE item_name = :item_name`,
			map[string]any{"item_name": field.Key()})
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to delete desired range")
		}

		if n == 0 {
			return domain.NewError(errcodes.RangeNotFound, "desired range not found")
		}

		return nil
	})
}
