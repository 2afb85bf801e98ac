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

type PoolTestRepository struct {
	db *sqlx.DB
}

func NewPoolTestRepository(db *sqlx.DB) *PoolTestRepository {
	return &PoolTestRepository{db: db}
}

// Create сохраняет тест и проставляет t.ID.
func (r *PoolTestRepository) Create(ctx context.Context, t *entity.PoolTest) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO pool_tests (
				test_date, free_chlorine, combined_chlorine, total_chlorine,
				salt_level, alkalinity, ph, sunscreen, hardness, phosphates, copper,
				clarity_notes, actions_taken, next_test_date
			) VALUES (
				:test_date, :free_chlorine, :combined_chlorine, :total_chlorine,
				:salt_level, :alkalinity, :ph, :sunscreen, :hardness, :phosphates, :copper,
				:clarity_notes, :actions_taken, :next_test_date
			)
			RETURNING id`

		id, err := insertReturningID(ctx, tx, query, fromPoolTest(t))
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to create pool test")
		}

		t.ID = id

		return nil
	})
}

// Update полная замена записи.
func (r *PoolTestRepository) Update(ctx context.Context, t *entity.PoolTest) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE pool_tests SET
				test_date = :test_date,
				free_chlorine = :free_chlorine,
				combined_chlorine = :combined_chlorine,
				total_chlorine = :total_chlorine,
				salt_level = :salt_level,
				alkalinity = :alkalinity,
				ph = :ph,
				sunscreen = :sunscreen,
				hardness = :hardness,
				phosphates = :phosphates,
				copper = :copper,
				clarity_notes = :clarity_notes,
				actions_taken = :actions_taken,
				next_test_date = :next_test_date
			WHERE id = :id`

		n, err := execAffected(ctx, tx, query, fromPoolTest(t))
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to update pool test")
		}

		if n == 0 {
			return domain.NewError(errcodes.PoolTestNotFound, "pool test not found")
		}

		return nil
	})
}

func (r *PoolTestRepository) GetByID(ctx context.Context, id int64) (*entity.PoolTest, error) {
	var row poolTestSchema

	query := r.db.Rebind(`SELECT * FROM pool_tests WHERE id = ?`)
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.PoolTestNotFound, "pool test not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get pool test")
	}

	t, err := row.toDomain()
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "corrupted pool test")
	}

	return t, nil
}

// List тесты от новых к старым.
func (r *PoolTestRepository) List(ctx context.Context, limit, offset int) ([]*entity.PoolTest, error) {
	var rows []poolTestSchema

	query := r.db.Rebind(`SELECT * FROM pool_tests ORDER BY test_date DESC, id DESC LIMIT ? OFFSET ?`)
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list pool tests")
	}

	result := make([]*entity.PoolTest, 0, len(rows))

	for _, row := range rows {
		t, err := row.toDomain()
		if err != nil {
			return nil, domain.WrapError(err, errcodes.InternalServerError, "corrupted pool test")
		}
		result = append(result, t)
	}

	return result, nil
}

func (r *PoolTestRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		n, err := execAffected(ctx, tx, `DELETE FROM pool_tests WHERE id = :id`, map[string]any{"id": id})
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to delete pool test")
		}

		if n == 0 {
			return domain.NewError(errcodes.PoolTestNotFound, "pool test not found")
		}

		return nil
	})
}
