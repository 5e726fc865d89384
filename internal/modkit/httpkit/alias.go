// Package httpkit is the routing kit modules mount with
// Modules import it instead of internal/platform/net/http
package httpkit

import (
	"net/http"

	phttp "feasibility/internal/platform/net/http"
)

type (
	Handler = phttp.Handler
	Router  = phttp.Router
)

// Call adapts a handler that takes no JSON body
// A returned phttp.Response passes through; anything else is wrapped as 200
func Call(fn func(*http.Request) (any, error)) Handler {
	return phttp.Handle(func(r *http.Request) phttp.Response {
		out, err := fn(r)
		if err != nil {
			return phttp.Error(err)
		}
		if resp, ok := out.(phttp.Response); ok {
			return resp
		}
		return phttp.OK(out)
	})
}
