package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned by repositories when a row does not exist.
// Repositories translate pgx.ErrNoRows into this so callers can distinguish
// "absent" from real failures without importing pgx.
var ErrNotFound = errors.New("not found")

// NotFound reports whether err represents a missing row, from either a
// repository or a raw pgx scan.
func NotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, pgx.ErrNoRows)
}

// UniqueViolation reports whether err is a Postgres unique-constraint
// violation. Importers treat it as "already present", not a failure.
func UniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ConstraintName returns the name of the violated constraint, or "" when err
// is not a Postgres constraint error. Callers with several unique indexes on
// one table use it to tell the violations apart.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

type contextKey string

const txKey contextKey = "db_tx"

// WithTx returns a context carrying an open transaction. Repositories route
// their queries through it instead of the pool when present.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// TxFromContext returns the transaction carried by ctx, or nil.
func TxFromContext(ctx context.Context) pgx.Tx {
	if tx, ok := ctx.Value(txKey).(pgx.Tx); ok {
		return tx
	}
	return nil
}

// Runner executes a function inside one atomic unit of work. Services depend
// on this interface so unit tests can substitute a pass-through.
type Runner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// TxRunner runs functions inside a database transaction carried via context.
type TxRunner struct {
	pool *pgxpool.Pool
}

func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// InTx begins a transaction, injects it into the context and commits if fn
// returns nil. Any error rolls the whole unit back. Nested calls reuse the
// transaction already in the context.
func (r *TxRunner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if TxFromContext(ctx) != nil {
		return fn(ctx)
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(WithTx(ctx, tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// PassthroughRunner satisfies Runner without a database. Used in tests of
// services backed by in-memory repositories.
type PassthroughRunner struct{}

func (PassthroughRunner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
