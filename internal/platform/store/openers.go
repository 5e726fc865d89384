package store

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	chx "feasibility/internal/platform/store/ch"
	"feasibility/internal/platform/store/pg"
)

const (
	defaultConnectRetries = 20
	defaultPingTimeout    = 3 * time.Second
)

// pgConnectBackoff doubles from 150ms to 2s and leaves the attempt count to the caller
func pgConnectBackoff() *backoff.ExponentialBackOff {
	return backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(150*time.Millisecond),
		backoff.WithMultiplier(2),
		backoff.WithMaxInterval(2*time.Second),
		backoff.WithRandomizationFactor(0),
		backoff.WithMaxElapsedTime(0),
	)
}

// openPG opens the pool and waits until it answers a ping
// The pool is pinged directly so the wait stays out of the sql trace
func openPG(ctx context.Context, cfg Config, s *Store) (*pgAdapter, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		AppName:  cfg.AppName,
		Slow:     time.Duration(cfg.PG.SlowQueryMs) * time.Millisecond,
	}, tracer)
	if err != nil {
		return nil, err
	}

	attempts := cfg.PG.ConnectRetries
	if attempts <= 0 {
		attempts = defaultConnectRetries
	}
	pingTimeout := cfg.PG.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = defaultPingTimeout
	}

	ping := func() error {
		pctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		return p.Pool.Ping(pctx)
	}
	b := backoff.WithContext(backoff.WithMaxRetries(pgConnectBackoff(), uint64(attempts-1)), ctx)
	if err := backoff.Retry(ping, b); err != nil {
		p.Close()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, err)
	}
	return newPGAdapter(p), nil
}

func openCH(ctx context.Context, cfg Config) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{
		URL:        cfg.CH.URL,
		ClientName: cfg.CH.ClientName,
		ClientTag:  cfg.CH.ClientTag,
	})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}
