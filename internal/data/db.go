// Package data is the repository layer: a thin set of structs wrapping
// named prepared statements over Postgres, the way the teacher's
// internal/data package wraps *sql.DB behind small per-entity models. The
// core only ever addresses these fifteen statements by stable name (spec.md
// §6); the SQL text backing each name lives in statements.go and nowhere
// else.
package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx. No repository method in
// this package currently needs a transaction (every operation is a single
// prepared statement), but the interface is kept so callers composing
// several repository calls can still share one.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Open opens the Postgres pool and verifies connectivity. connStr is a
// standard lib/pq connection string, read from the environment by the
// caller.
func Open(ctx context.Context, connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("data: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("data: ping: %w", err)
	}
	return db, nil
}

// isUniqueViolation reports whether err is a Postgres unique_violation
// (SQLSTATE 23505), the signal every "already registered"/"already exists"
// conflict in this package keys off instead of reading error text.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
