// Package store opens the optional postgres and clickhouse backends behind small seams
package store

import (
	"context"
	"errors"
	"fmt"

	"feasibility/internal/platform/logger"
)

// Store holds the optional result stores; a disabled backend is nil
type Store struct {
	// Log is handed to the backends; the zero value discards
	Log logger.Logger

	PG TxRunner
	CH Clickhouse
}

// Row is one result row
type Row interface {
	Scan(dest ...any) error
}

// Rows is a result set; Close must be called once iteration stops
type Rows interface {
	Row
	Next() bool
	Err() error
	Close()
}

type CommandTag interface {
	RowsAffected() int64
}

// RowQuerier runs statements on the pool or inside a transaction
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner is the postgres seam; Tx commits when fn returns nil
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the event store seam; Insert takes [][]any rows
type Clickhouse interface {
	Insert(ctx context.Context, table string, data any) error
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close() error
}

// Pinger is any seam that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Open connects the backends cfg enables; the others stay nil
// If one backend fails the ones already opened are closed again
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	if cfg.PG.Enabled {
		pgc, err := openPG(ctx, cfg, s)
		if err != nil {
			return nil, err
		}
		s.PG = pgc
	}
	if cfg.CH.Enabled {
		chc, err := openCH(ctx, cfg)
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		s.CH = chc
	}
	return s, nil
}

type seam struct {
	name string
	v    any
}

// seams lists the open backends, pg first
func (s *Store) seams() []seam {
	var out []seam
	if s.PG != nil {
		out = append(out, seam{"pg", s.PG})
	}
	if s.CH != nil {
		out = append(out, seam{"ch", s.CH})
	}
	return out
}

// Guard pings every open backend that can be pinged and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	var errs []error
	for _, b := range s.seams() {
		if p, ok := b.v.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", b.name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Close closes every open backend, clickhouse first
func (s *Store) Close(ctx context.Context) error {
	var errs []error
	b := s.seams()
	for i := len(b) - 1; i >= 0; i-- {
		if c, ok := b[i].v.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", b[i].name, err))
			}
		}
	}
	return errors.Join(errs...)
}
