package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "feasibility/internal/platform/errors"
	pnet "feasibility/internal/platform/net"
	phttp "feasibility/internal/platform/net/http"
)

func serve(t *testing.T, h http.HandlerFunc, rid string) (*httptest.ResponseRecorder, phttp.Envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/result/q-1", nil)
	req = req.WithContext(pnet.WithRequest(req.Context(), rid))
	rec := httptest.NewRecorder()
	h(rec, req)

	var env phttp.Envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
	}
	return rec, env
}

func TestJSON_SetsStatusAndContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.JSON(rec, http.StatusAccepted, map[string]int{"held": 1})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("code = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("content-type = %q", ct)
	}
}

func TestHandle_OKCarriesDataAndRequestID(t *testing.T) {
	rec, env := serve(t, phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.OK(map[string]int{"DIZ-A": 12})
	}), "rid-1")

	if rec.Code != http.StatusOK || env.StatusCode != http.StatusOK {
		t.Fatalf("code = %d, envelope = %+v", rec.Code, env)
	}
	if env.RequestID != "rid-1" || env.Data == nil || env.Error != "" {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestHandle_ZeroStatusMeansOK(t *testing.T) {
	rec, env := serve(t, phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.Response{Body: "ok"}
	}), "rid-2")
	if rec.Code != http.StatusOK || env.Status != "OK" {
		t.Fatalf("code = %d, envelope = %+v", rec.Code, env)
	}
}

func TestHandle_ErrorStatusFollowsCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
		code perr.ErrorCode
	}{
		{"not found", perr.NotFoundf("no result for %q", "q-1"), http.StatusNotFound, perr.ErrorCodeNotFound},
		{"invalid", perr.InvalidArgf("bad id"), http.StatusUnprocessableEntity, perr.ErrorCodeInvalidArgument},
		{"foreign", errors.New("boom"), http.StatusInternalServerError, perr.ErrorCodeUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := serve(t, phttp.Handle(func(*http.Request) phttp.Response {
				return phttp.Response{Status: http.StatusOK, Body: tc.err}
			}), "rid-3")
			if rec.Code != tc.want || env.Code != tc.code || env.Error == "" || env.RequestID != "rid-3" {
				t.Fatalf("code = %d, envelope = %+v", rec.Code, env)
			}
		})
	}
}

func TestHandle_HeadersAndNoContent(t *testing.T) {
	rec, _ := serve(t, phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.Response{Status: http.StatusNoContent, Header: http.Header{"Retry-After": {"5"}}}
	}), "rid-4")
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Fatalf("code = %d, body = %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Retry-After") != "5" {
		t.Fatalf("headers = %v", rec.Header())
	}
}
