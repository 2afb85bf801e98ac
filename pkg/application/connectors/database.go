package connectors

import (
	"context"
	"log/slog"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // postgres driver "pgx"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
	_ "modernc.org/sqlite" // pure go sqlite driver "sqlite"

	"home_maintenance/pkg/logx"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

//nolint:gochecknoinits
func init() {
	// sqlx knows "sqlite3" but not the modernc driver name.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

type Database struct {
	value           *sqlx.DB
	Driver          string
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	init            sync.Once
}

func (d *Database) Client(ctx context.Context) *sqlx.DB {
	d.init.Do(func() {
		d.value = lo.Must(sqlx.ConnectContext(ctx, d.Driver, d.DSN))

		if d.Driver == DriverSQLite {
			// single writer; also keeps ":memory:" databases on one connection
			d.value.SetMaxOpenConns(1)
			lo.Must(d.value.ExecContext(ctx, "PRAGMA foreign_keys = ON"))
		} else {
			d.value.SetMaxOpenConns(d.MaxOpenConns)
			d.value.SetMaxIdleConns(d.MaxIdleConns)
			d.value.SetConnMaxLifetime(d.ConnMaxLifetime)
		}

		logger(ctx).Info(
			"database connected",
			slog.String("driver", d.Driver),
		)
	})

	return d.value
}

func (d *Database) Close(ctx context.Context) {
	if d.value == nil {
		return
	}

	if err := d.value.Close(); err != nil {
		logger(ctx).Error("database.Close", logx.Error(err))
	}

	logger(ctx).Info(
		"database disconnected",
		slog.String("driver", d.Driver),
	)
}
