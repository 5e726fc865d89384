package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	perr "feasibility/internal/platform/errors"
	"feasibility/internal/platform/logger"
	pnet "feasibility/internal/platform/net"
)

// RecoverJSON answers a panicking handler with the 500 envelope and logs the stack
// http.ErrAbortHandler is re-raised so the server can drop the connection
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}

			ctx := r.Context()
			logger.C(ctx).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("handler panicked")

			status, body := pnet.Error(perr.PanicErrf("internal error"), pnet.RequestID(ctx))
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(body)
		}()
		next.ServeHTTP(w, r)
	})
}
