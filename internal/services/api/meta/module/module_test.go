package module

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"feasibility/internal/modkit"
	"feasibility/internal/modkit/httpkit"
	phttp "feasibility/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type downFHIR struct{}

func (downFHIR) Ping(context.Context) error { return errors.New("not bound") }

func TestModule_ReadyUsesInjectedFHIR(t *testing.T) {
	t.Parallel()

	m := New(modkit.Deps{}, modkit.WithPorts(Ports{FHIR: downFHIR{}}))
	if m.Name() != "meta" || m.Ports() != nil {
		t.Fatalf("name=%q ports=%v", m.Name(), m.Ports())
	}

	mux := chi.NewMux()
	r := phttp.AdaptChi(mux)
	httpkit.MountAPIV1(r, nil, m.MountRoutes)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/meta/ready", nil))
	var env struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.Status != "fail" {
		t.Fatalf("status=%q", env.Data.Status)
	}
}
