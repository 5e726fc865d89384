package store

import (
	"context"
	"fmt"

	"feasibility/internal/platform/store/ch"
)

// chConn is what the adapter needs from *ch.CH
type chConn interface {
	Insert(ctx context.Context, table string, rows [][]any) error
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (ch.Rows, error)
	Ping(ctx context.Context) error
	Close() error
}

// chAdapter narrows a clickhouse client to Clickhouse
// Inserts take rows as [][]any in table column order
type chAdapter struct{ c chConn }

var (
	_ Clickhouse = (*chAdapter)(nil)
	_ Pinger     = (*chAdapter)(nil)
	_ chConn     = (*ch.CH)(nil)
)

func newCHAdapter(c *ch.CH) Clickhouse { return &chAdapter{c: c} }

func (a *chAdapter) Insert(ctx context.Context, table string, data any) error {
	batch, ok := data.([][]any)
	if !ok {
		return fmt.Errorf("clickhouse insert into %s: want [][]any, got %T", table, data)
	}
	return a.c.Insert(ctx, table, batch)
}

func (a *chAdapter) Exec(ctx context.Context, sql string, args ...any) error {
	return a.c.Exec(ctx, sql, args...)
}

func (a *chAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	r, err := a.c.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{r}, nil
}

func (a *chAdapter) Ping(ctx context.Context) error { return a.c.Ping(ctx) }

func (a *chAdapter) Close() error { return a.c.Close() }

// chRows drops the error from Close, Rows has no room for it
type chRows struct{ ch.Rows }

func (r chRows) Close() { _ = r.Rows.Close() }
