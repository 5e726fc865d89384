// Package pg opens the postgres pool the result sink writes through
package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config is what the pool is built from
type Config struct {
	URL      string
	MaxConns int32
	// AppName is reported to the server as application_name
	AppName string
	// Slow marks traced statements at or above it, zero never does
	Slow time.Duration
}

// PG is an open pool and the tracer its statements report to
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	Slow   time.Duration
}

var newPool = pgxpool.NewWithConfig

// Open builds the pool; it dials lazily so an unreachable server only shows on first use
func Open(ctx context.Context, cfg Config, tracer QueryTracer) (*PG, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.AppName != "" {
		pcfg.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	return &PG{Pool: pool, Tracer: tracer, Slow: cfg.Slow}, nil
}

// Close closes the pool; it is safe on a nil or never opened PG
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
