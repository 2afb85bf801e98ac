package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"home_maintenance/internal/domain"
	"home_maintenance/pkg/errcodes"
)

func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

// insertReturningID выполняет именованный INSERT ... RETURNING id.
func insertReturningID(ctx context.Context, tx *sqlx.Tx, query string, arg any) (int64, error) {
	q, args, err := tx.BindNamed(query, arg)
	if err != nil {
		return 0, err
	}

	var id int64
	if err := tx.GetContext(ctx, &id, q, args...); err != nil {
		return 0, err
	}

	return id, nil
}

// execAffected выполняет именованный запрос и возвращает число затронутых строк.
func execAffected(ctx context.Context, tx *sqlx.Tx, query string, arg any) (int64, error) {
	res, err := tx.NamedExecContext(ctx, query, arg)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
