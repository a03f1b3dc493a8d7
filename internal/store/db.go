package store

import (
	"context"
	"database/sql"
)

// DBTX abstracts the statement-execution surface shared by *sql.DB and
// *sql.Tx, so store implementations can run either directly on the gateway
// handle or inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
