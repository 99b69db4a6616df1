package db

import (
	"context"
	"database/sql"
)

// Querier — общий интерфейс *sql.DB и *sql.Tx: запросы дашборда выполняются
// и вне, и внутри транзакций, которыми управляет вызывающий код.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
