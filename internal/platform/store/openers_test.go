package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// closedPGURL points at a port nothing listens on
func closedPGURL() string {
	return "postgres://u:p@127.0.0.1:1/db?sslmode=disable"
}

func TestOpenPG_CanceledParent(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := Config{PG: PGConfig{Enabled: true, URL: closedPGURL(), MaxConns: 1}}
	start := time.Now()
	a, err := openPG(ctx, cfg, &Store{})
	if a != nil || !errors.Is(err, context.Canceled) {
		t.Fatalf("adapter=%v err=%v", a, err)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("canceled open took %s", time.Since(start))
	}
}

func TestOpenPG_GivesUpAfterConfiguredRetries(t *testing.T) {
	t.Parallel()

	cfg := Config{PG: PGConfig{
		Enabled:        true,
		URL:            closedPGURL(),
		MaxConns:       1,
		ConnectRetries: 2,
		PingTimeout:    200 * time.Millisecond,
	}}
	_, err := openPG(context.Background(), cfg, &Store{})
	if err == nil || !strings.Contains(err.Error(), "after 2 attempts") {
		t.Fatalf("err=%v", err)
	}
}

func TestOpenCH_PassesClientInfo(t *testing.T) {
	t.Parallel()

	cfg := Config{CH: CHConfig{Enabled: true, URL: "clickhouse://127.0.0.1:1/default", ClientName: "api", ClientTag: "t"}}
	c, err := openCH(context.Background(), cfg)
	if err != nil {
		t.Fatalf("openCH: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
