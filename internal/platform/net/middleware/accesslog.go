package middleware

import (
	"net/http"
	"time"

	"feasibility/internal/platform/logger"
	pnet "feasibility/internal/platform/net"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// AccessLogOptions configures AccessLogZerolog
type AccessLogOptions struct {
	// Slow logs requests at or above it at warn, zero never does
	Slow time.Duration
	// Log defaults to the root logger
	Log *logger.Logger
}

// AccessLogZerolog logs one line per request, with the client Auth identified further in
// Server errors log at error and slow requests at warn
func AccessLogZerolog(opt AccessLogOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			ctx := pnet.WithClientRef(r.Context())
			start := time.Now()

			next.ServeHTTP(ww, r.WithContext(ctx))

			elapsed := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			base := opt.Log
			if base == nil {
				base = logger.Get()
			}
			log := logger.For(base, logger.WithRequest(ctx, pnet.RequestID(ctx), pnet.ClientID(ctx)))
			evt := log.Info()
			switch {
			case status >= http.StatusInternalServerError:
				evt = log.Error()
			case opt.Slow > 0 && elapsed >= opt.Slow:
				evt = log.Warn()
			}
			evt.Int("status", status).
				Dur("elapsed", elapsed).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("bytes", ww.BytesWritten()).
				Msg("request done")
		})
	}
}
