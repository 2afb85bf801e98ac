package dbtest

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"

	"home_maintenance/pkg/application/connectors"
)

// NewSQLite opens a private in-memory SQLite database closed on test cleanup.
// The pool is pinned to one connection, so every query sees the same database.
func NewSQLite(tb testing.TB) *sqlx.DB {
	tb.Helper()

	ctx := context.Background()
	conn := &connectors.Database{
		Driver: connectors.DriverSQLite,
		DSN:    ":memory:",
	}

	db := conn.Client(ctx)
	tb.Cleanup(func() { conn.Close(ctx) })

	return db
}
