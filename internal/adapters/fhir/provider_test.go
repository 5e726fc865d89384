package fhir_test

import (
	"context"
	"testing"
	"time"

	"feasibility/internal/adapters/fhir"
	"feasibility/internal/adapters/fhir/fhirtest"
	perr "feasibility/internal/platform/errors"
)

func TestProvider_DiscoversSubscriptionAndBinds(t *testing.T) {
	t.Parallel()

	srv := fhirtest.NewServer(t)
	srv.SubscriptionID = "sub-discovered"

	p := fhir.NewProvider(fhir.Config{
		BaseURL:      srv.URL,
		WebsocketURL: srv.WebsocketURL(),
		Timeout:      2 * time.Second,
	})
	ctx := context.Background()

	rest, err := p.WebserviceClient(ctx)
	if err != nil {
		t.Fatalf("WebserviceClient: %v", err)
	}
	again, _ := p.WebserviceClient(ctx)
	if rest != again {
		t.Fatal("webservice client should be shared")
	}

	sub, err := p.WebsocketClient(ctx)
	if err != nil {
		t.Fatalf("WebsocketClient: %v", err)
	}
	got := make(chan string, 1)
	_ = sub.Subscribe(func(_ context.Context, r fhir.Resource) { got <- r.ID })

	lctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() { _ = sub.Listen(lctx); close(done) }()
	defer func() { cancel(); <-done }()

	srv.WaitBound(t, 5*time.Second)
	srv.Push(fhirtest.ResultTask(fhirtest.TaskSpec{ID: "t-9"}))
	select {
	case id := <-got:
		if id != "t-9" {
			t.Fatalf("id=%q", id)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no delivery through discovered subscription")
	}
}

func TestProvider_ProvisioningFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	p := fhir.NewProvider(fhir.Config{BaseURL: ""})
	if _, err := p.WebserviceClient(ctx); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("missing base url err=%v", err)
	}
	if _, err := p.WebsocketClient(ctx); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("websocket without base err=%v", err)
	}

	srv := fhirtest.NewServer(t)
	srv.Close()
	p = fhir.NewProvider(fhir.Config{BaseURL: srv.URL, MaxRetries: -1, Timeout: time.Second})
	if _, err := p.WebsocketClient(ctx); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("unreachable discovery err=%v", err)
	}
}
