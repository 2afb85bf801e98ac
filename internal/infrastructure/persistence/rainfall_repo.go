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

const insertRainfallQuery = `
	INSERT INTO rainfall (date, rain_mm, bom_mm, notes, watered, moisture)
	VALUES (:date, :rain_mm, :bom_mm, :notes, :watered, :moisture)
	RETURNING id`

type RainfallRepository struct {
	db *sqlx.DB
}

func NewRainfallRepository(db *sqlx.DB) *RainfallRepository {
	return &RainfallRepository{db: db}
}

func (r *RainfallRepository) Create(ctx context.Context, rec *entity.RainfallRecord) error {
	return r.CreateBatch(ctx, []*entity.RainfallRecord{rec})
}

// CreateBatch вставляет записи в одной транзакции и проставляет ID.
func (r *RainfallRepository) CreateBatch(ctx context.Context, recs []*entity.RainfallRecord) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, rec := range recs {
			id, err := insertReturningID(ctx, tx, insertRainfallQuery, fromRainfall(rec))
			if err != nil {
				return domain.WrapError(err, errcodes.InternalServerError, "failed to create rainfall record")
			}
			rec.ID = id
		}

		return nil
	})
}

func (r *RainfallRepository) Update(ctx context.Context, rec *entity.RainfallRecord) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE rainfall SET
				date = :date,
				rain_mm = :rain_mm,
				bom_mm = :bom_mm,
				notes = :notes,
				watered = :watered,
				moisture = :moisture
			WHERE id = :id`

		n, err := execAffected(ctx, tx, query, fromRainfall(rec))
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to update rainfall record")
		}

		if n == 0 {
			return domain.NewError(errcodes.RainfallNotFound, "rainfall record not found")
		}

		return nil
	})
}

func (r *RainfallRepository) GetByID(ctx context.Context, id int64) (*entity.RainfallRecord, error) {
	var row rainfallSchema

	query := r.db.Rebind(`SELECT * FROM rainfall WHERE id = ?`)
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.RainfallNotFound, "rainfall record not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get rainfall record")
	}

	rec, err := row.toDomain()
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "corrupted rainfall record")
	}

	return rec, nil
}

// List записи по возрастанию даты. limit <= 0 возвращает все записи.
func (r *RainfallRepository) List(ctx context.Context, limit, offset int) ([]*entity.RainfallRecord, error) {
	var rows []rainfallSchema

	query := `SELECT * FROM rainfall ORDER BY date ASC, id ASC`

	var args []any
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	query = r.db.Rebind(query)

	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list rainfall records")
	}

	result := make([]*entity.RainfallRecord, 0, len(rows))

	for _, row := range rows {
		rec, err := row.toDomain()
		if err != nil {
			return nil, domain.WrapError(err, errcodes.InternalServerError, "corrupted rainfall record")
		}
		result = append(result, rec)
	}

	return result, nil
}

func (r *RainfallRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		n, err := execAffected(ctx, tx, `DELETE FROM rainfall WHERE id = :id`, map[string]any{"id": id})
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to delete rainfall record")
		}

		if n == 0 {
			return domain.NewError(errcodes.RainfallNotFound, "rainfall record not found")
		}

		return nil
	})
}
