package ch

import (
	"context"
	"strings"
	"testing"
)

func TestOpen_LazyPool(t *testing.T) {
	t.Parallel()

	cl, err := Open(context.Background(), Config{URL: "clickhouse://localhost:9000/default", ClientName: "api", ClientTag: "test"})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if cl == nil {
		t.Fatal("Open returned nil client")
	}
	if err := cl.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestOpen_BadDSN(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), Config{URL: "://nope"})
	if err == nil || !strings.Contains(err.Error(), "parse dsn") {
		t.Fatalf("err=%v", err)
	}
}

func TestClientInfo_Products(t *testing.T) {
	t.Parallel()

	info := clientInfo(" feasibility ", " collector ")
	if len(info.Products) != 3 {
		t.Fatalf("products = %+v", info.Products)
	}
	if p := info.Products[0]; p.Name != "feasibility" || p.Version == "" {
		t.Fatalf("name product = %+v", p)
	}
	if p := info.Products[1]; p.Name != "collector" {
		t.Fatalf("role product = %+v", p)
	}
	if p := info.Products[2]; p.Name != "go" || strings.HasPrefix(p.Version, "go") {
		t.Fatalf("go product = %+v", p)
	}

	if got := clientInfo("feasibility", ""); len(got.Products) != 2 {
		t.Fatalf("empty role kept: %+v", got.Products)
	}
}
