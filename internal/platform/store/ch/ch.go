// Package ch opens the clickhouse pool result events are appended to
package ch

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures clickhouse client
type Config struct {
	URL string

	// ClientName and ClientTag identify this process in system.query_log
	ClientName string
	ClientTag  string

	DialTimeout time.Duration
}

// Rows is the driver result set
type Rows = driver.Rows

// CH is a clickhouse connection pool
type CH struct {
	conn driver.Conn
}

// Open parses the DSN and prepares a pool, connections are dialed lazily
func Open(_ context.Context, cfg Config) (*CH, error) {
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("ch: parse dsn: %w", err)
	}
	if cfg.ClientName != "" {
		opts.ClientInfo = clientInfo(cfg.ClientName, cfg.ClientTag)
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("ch: open: %w", err)
	}
	return &CH{conn: conn}, nil
}

// Insert appends rows to table in a single batch
func (c *CH) Insert(ctx context.Context, table string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	batch, err := c.conn.PrepareBatch(ctx, "INSERT INTO "+table)
	if err != nil {
		return fmt.Errorf("ch: prepare batch %s: %w", table, err)
	}
	for _, r := range rows {
		if err := batch.Append(r...); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("ch: append %s: %w", table, err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("ch: send batch %s: %w", table, err)
	}
	return nil
}

// Exec runs a statement that returns no rows
func (c *CH) Exec(ctx context.Context, sql string, args ...any) error {
	return c.conn.Exec(ctx, sql, args...)
}

func (c *CH) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return c.conn.Query(ctx, sql, args...)
}

// Ping checks that a server answers
func (c *CH) Ping(ctx context.Context) error { return c.conn.Ping(ctx) }

func (c *CH) Close() error { return c.conn.Close() }
