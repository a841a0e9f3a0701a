package forecast

import (
	"context"
	"database/sql"
)

// QueryRower, Queryer and Execer are satisfied by *sql.DB and *sql.Tx,
// so entity methods run the same inside or outside a transaction.

type QueryRower interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queryer interface {
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
}

type Execer interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
}

// Scanner is implemented by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(...any) error
}
