package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sikabook/internal/platform/store/lite"
)

// liteAdapter implements TxRunner over database/sql. sqlite rewrites
// positional $N placeholders itself, so repos can share SQL with the pg seam
// for simple statements
type liteAdapter struct {
	l *lite.Lite
}

func newLiteAdapter(l *lite.Lite) *liteAdapter { return &liteAdapter{l: l} }

func (a *liteAdapter) Ping(ctx context.Context) error {
	if a == nil || a.l == nil {
		return errors.New("lite: nil adapter")
	}
	return a.l.DB.PingContext(ctx)
}

func (a *liteAdapter) Close() error { return a.l.Close() }

func (a *liteAdapter) Exec(ctx context.Context, q string, args ...any) (CommandTag, error) {
	res, err := a.l.DB.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return liteTag{res}, nil
}

func (a *liteAdapter) Query(ctx context.Context, q string, args ...any) (Rows, error) {
	rs, err := a.l.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return liteRows{r: rs}, nil
}

func (a *liteAdapter) QueryRow(ctx context.Context, q string, args ...any) Row {
	return a.l.DB.QueryRowContext(ctx, q, args...)
}

func (a *liteAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.l.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(liteTxQuerier{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type liteTxQuerier struct{ tx *sql.Tx }

func (t liteTxQuerier) Exec(ctx context.Context, q string, args ...any) (CommandTag, error) {
	res, err := t.tx.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return liteTag{res}, nil
}

func (t liteTxQuerier) Query(ctx context.Context, q string, args ...any) (Rows, error) {
	rs, err := t.tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return liteRows{r: rs}, nil
}

func (t liteTxQuerier) QueryRow(ctx context.Context, q string, args ...any) Row {
	return t.tx.QueryRowContext(ctx, q, args...)
}

type liteRows struct{ r *sql.Rows }

func (x liteRows) Next() bool            { return x.r.Next() }
func (x liteRows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x liteRows) Err() error            { return x.r.Err() }
func (x liteRows) Close()                { _ = x.r.Close() }

type liteTag struct{ res sql.Result }

func (t liteTag) String() string {
	n, _ := t.res.RowsAffected()
	return fmt.Sprintf("%d rows", n)
}

func (t liteTag) RowsAffected() int64 {
	n, err := t.res.RowsAffected()
	if err != nil {
		return 0
	}
	return n
}
