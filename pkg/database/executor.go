package database

import (
	"context"
	"database/sql"
)

// QueryExecutor, hem *sql.DB (havuz) hem de *sql.Tx (transaction) tarafından
// örtük olarak uygulanan metodları tanımlar. QueryBuilder bu arayüze
// bağlıdır; böylece transaction içinde de çalışabilir.
type QueryExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
