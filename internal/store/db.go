// internal/store/db.go
package store

import (
	"context"
	"database/sql"
)

// Querier is the subset of *sql.DB the stores use. *sql.Tx satisfies it
// too, so a store can be rebound to a transaction with InTx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
