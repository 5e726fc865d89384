package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "feasibility/internal/platform/net/http"
	"feasibility/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

func TestServeDocJSON_AddsDefaults(t *testing.T) {
	rec := httptest.NewRecorder()
	serveDocJSON()(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	var spec map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &spec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if spec["openapi"] != "3.0.3" {
		t.Fatalf("openapi=%v", spec["openapi"])
	}
	op := spec["paths"].(map[string]any)["/query-handler/result/{queryId}"].(map[string]any)["get"].(map[string]any)
	resps := op["responses"].(map[string]any)
	if _, ok := resps["500"]; !ok {
		t.Fatalf("no default 500: %v", resps)
	}
	schemas := spec["components"].(map[string]any)["schemas"].(map[string]any)
	if _, ok := schemas["ErrorResponse"]; !ok {
		t.Fatal("ErrorResponse schema missing")
	}
}

func TestServeDocJSON_BadDoc(t *testing.T) {
	testkit.Swap(t, &docReader, func() string { return "{" })

	rec := httptest.NewRecorder()
	serveDocJSON()(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", rec.Code)
	}
}

func TestMount_RoutesUnderBase(t *testing.T) {
	mux := chi.NewMux()
	Mount(phttp.AdaptChi(mux), "/api/docs")

	cases := []struct {
		path   string
		status int
	}{
		{"/api/docs", http.StatusPermanentRedirect},
		{"/api/docs/doc.json", http.StatusOK},
		{"/api/docs/index.html", http.StatusOK},
		{"/api/other", http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if rec.Code != tc.status {
			t.Fatalf("GET %s = %d, want %d", tc.path, rec.Code, tc.status)
		}
	}
}

func TestServeDocJSON_NotFoundOnlyOnParameterisedPaths(t *testing.T) {
	testkit.Swap(t, &docReader, func() string {
		return `{"swagger":"2.0","paths":{
			"/meta/health":{"get":{"responses":{"200":{"description":"ok"}}}},
			"/query-handler/result/{queryId}":{"get":{"responses":{"404":{"description":"kept"}}}}
		}}`
	})

	rec := httptest.NewRecorder()
	serveDocJSON()(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	var spec map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &spec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := spec["swagger"]; ok || spec["openapi"] != "3.0.3" {
		t.Fatalf("version not normalized: %v", spec)
	}
	paths := spec["paths"].(map[string]any)
	health := paths["/meta/health"].(map[string]any)["get"].(map[string]any)["responses"].(map[string]any)
	if _, ok := health["404"]; ok {
		t.Fatalf("health documents a 404: %v", health)
	}
	if _, ok := health["500"]; !ok {
		t.Fatalf("health lacks the default 500: %v", health)
	}
	result := paths["/query-handler/result/{queryId}"].(map[string]any)["get"].(map[string]any)["responses"].(map[string]any)
	if result["404"].(map[string]any)["description"] != "kept" {
		t.Fatalf("existing 404 overwritten: %v", result["404"])
	}
}
