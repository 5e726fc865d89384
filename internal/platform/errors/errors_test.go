package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCodeMapping(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{ErrorCodeDuplicateKey, http.StatusConflict},
		{ErrorCodeConflict, http.StatusConflict},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeUnauthorized, http.StatusUnauthorized},
		{ErrorCodeForbidden, http.StatusForbidden},
		{ErrorCodeTooManyRequests, http.StatusTooManyRequests},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeDB, http.StatusInternalServerError},
		{ErrorCodePanic, http.StatusInternalServerError},
		{ErrorCodeUnknown, http.StatusInternalServerError},
		{9999, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestError_RendersOpMessageAndCause(t *testing.T) {
	var nilErr *Error
	if nilErr.Error() != "<nil>" {
		t.Fatalf("nil render = %q", nilErr.Error())
	}

	cause := stderrs.New("connection refused")
	err := Wrapf(cause, ErrorCodeUnavailable, "fhir get %s failed", "/MeasureReport/mr-9")
	if got := err.Error(); got != "fhir get /MeasureReport/mr-9 failed: connection refused" {
		t.Fatalf("Error() = %q", got)
	}
	if got := WithOp(err, "results.New").Error(); got != "results.New: fhir get /MeasureReport/mr-9 failed: connection refused" {
		t.Fatalf("with op = %q", got)
	}
	if got := Newf(ErrorCodeJSON, "bad json %d", 12).Error(); got != "bad json 12" {
		t.Fatalf("Newf = %q", got)
	}
	if stderrs.Unwrap(err) != cause {
		t.Fatal("cause not kept")
	}
}

func TestWithFieldAndOp_CopyOnWrite(t *testing.T) {
	base := Wrap(stderrs.New("x"), ErrorCodeValidation, "bad input")
	withField := WithField(base, "query_id")
	tagged := WithOp(withField, "bind")

	if e, _ := As(withField); e.Field() != "query_id" {
		t.Fatalf("field=%q", e.Field())
	}
	if e, _ := As(tagged); e.Field() != "query_id" || e.op != "bind" {
		t.Fatalf("tagged=%+v", e)
	}
	if e, _ := As(base); e.Field() != "" || e.op != "" {
		t.Fatal("original mutated")
	}

	foreign := stderrs.New("plain")
	if WithField(foreign, "f") != foreign || WithOp(foreign, "o") != foreign {
		t.Fatal("foreign errors must pass through")
	}
}

func TestWireFrom(t *testing.T) {
	if w := WireFrom(nil); w != (Wire{}) {
		t.Fatalf("nil => %+v", w)
	}
	if w := WireFrom(stderrs.New("root")); w.Code != ErrorCodeUnknown || w.Message != "root" {
		t.Fatalf("foreign => %+v", w)
	}
	err := WithOp(WithField(Wrap(stderrs.New("secret"), ErrorCodeNotFound, "no result"), "site_id"), "lookup")
	if w := WireFrom(err); w != (Wire{Code: ErrorCodeNotFound, Message: "no result", Field: "site_id"}) {
		t.Fatalf("ours => %+v", w)
	}
	if HTTPStatus(err) != http.StatusNotFound {
		t.Fatalf("status=%d", HTTPStatus(err))
	}
}

func TestCodeLookupThroughWrapping(t *testing.T) {
	inner := NotFoundf("no result for %q", "q-42")
	outer := fmt.Errorf("api: %w", inner)
	if !IsCode(outer, ErrorCodeNotFound) {
		t.Fatalf("code=%v", CodeOf(outer))
	}
	if CodeOf(stderrs.New("x")) != ErrorCodeUnknown {
		t.Fatal("foreign error must be Unknown")
	}
	if got := Root(outer); got != inner {
		t.Fatalf("Root=%v", got)
	}
}

func TestShorthands(t *testing.T) {
	cases := []struct {
		err  error
		code ErrorCode
	}{
		{NotFoundf("x"), ErrorCodeNotFound},
		{InvalidArgf("x"), ErrorCodeInvalidArgument},
		{JSONErrf("x"), ErrorCodeJSON},
		{PanicErrf("x"), ErrorCodePanic},
		{Unauthorizedf("x"), ErrorCodeUnauthorized},
		{Forbiddenf("x"), ErrorCodeForbidden},
		{Conflictf("x"), ErrorCodeConflict},
		{Unavailablef("x"), ErrorCodeUnavailable},
		{Internalf("x"), ErrorCodeUnknown},
	}
	for _, c := range cases {
		if !IsCode(c.err, c.code) {
			t.Fatalf("%v: code=%v want %v", c.err, CodeOf(c.err), c.code)
		}
	}
}
