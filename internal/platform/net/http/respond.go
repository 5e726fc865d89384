// Package http writes the JSON envelope and adapts chi to the router seam
package http

import (
	"cmp"
	"encoding/json"
	stdhttp "net/http"

	pnet "feasibility/internal/platform/net"
)

// Envelope is the body of every JSON response, named here for the API docs
type Envelope = pnet.Wire

// JSON writes v with status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Response is what a return-style handler hands back
// An error Body picks its own status from its code
type Response struct {
	Status int
	Body   any
	Header stdhttp.Header
}

// OK is a 200 carrying data
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Error is the envelope for err
func Error(err error) Response { return Response{Body: err} }

// Handle serves the Response h returns, stamped with the request id
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		resp := h(r)
		for k, vv := range resp.Header {
			w.Header()[k] = append(w.Header()[k], vv...)
		}
		if resp.Status == stdhttp.StatusNoContent {
			w.WriteHeader(stdhttp.StatusNoContent)
			return
		}
		status, body := resp.envelope(pnet.RequestID(r.Context()))
		JSON(w, status, body)
	}
}

func (resp Response) envelope(reqID string) (int, pnet.Wire) {
	if err, ok := resp.Body.(error); ok && err != nil {
		return pnet.Error(err, reqID)
	}
	status := cmp.Or(resp.Status, stdhttp.StatusOK)
	return status, pnet.Wire{
		StatusCode: status,
		Status:     stdhttp.StatusText(status),
		RequestID:  reqID,
		Data:       resp.Body,
	}
}
