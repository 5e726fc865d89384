//go:build integration_pg
// +build integration_pg

package repo

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"feasibility/internal/modkit/repokit"
	"feasibility/internal/platform/store"
	"feasibility/internal/services/results/domain"

	"github.com/rs/zerolog"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func openPostgres(t *testing.T) repokit.TxRunner {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	t.Cleanup(cancel)

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_DB":       "feasibility",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections"),
			).WithDeadline(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}

	s, err := store.Open(ctx, store.Config{PG: store.PGConfig{
		Enabled:  true,
		URL:      fmt.Sprintf("postgres://postgres:postgres@%s:%s/feasibility?sslmode=disable", host, port.Port()),
		MaxConns: 2,
	}}, store.WithLogger(zerolog.New(io.Discard)))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s.PG
}

func TestPG_Integration_FirstWriterWins(t *testing.T) {
	tx := openPostgres(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	r := NewPG().Bind(tx)
	if err := r.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	// second call is a no op
	if err := r.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema again: %v", err)
	}

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	n, err := r.InsertResults(ctx, []domain.Result{
		{QueryID: "q-42", SiteID: "DIC-7", ResultType: domain.ResultTypeSuccess, Result: 5, ReceivedAt: at},
		{QueryID: "q-42", SiteID: "DIC-1", ResultType: domain.ResultTypeSuccess, Result: 0, ReceivedAt: at},
	})
	if err != nil || n != 2 {
		t.Fatalf("insert n=%d err=%v", n, err)
	}

	n, err = r.InsertResults(ctx, []domain.Result{
		{QueryID: "q-42", SiteID: "DIC-7", ResultType: domain.ResultTypeSuccess, Result: 99, ReceivedAt: at},
	})
	if err != nil || n != 0 {
		t.Fatalf("duplicate n=%d err=%v", n, err)
	}

	got, err := r.ListByQuery(ctx, "q-42")
	if err != nil {
		t.Fatalf("ListByQuery: %v", err)
	}
	if len(got) != 2 || got[0].SiteID != "DIC-1" || got[1].Result != 5 || !got[1].ReceivedAt.Equal(at) {
		t.Fatalf("got %+v", got)
	}

	if _, err := r.InsertResults(ctx, []domain.Result{{QueryID: "q", SiteID: "s", ResultType: "success", Result: -1, ReceivedAt: at}}); err == nil {
		t.Fatal("negative result accepted")
	}
}
