package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	phttp "feasibility/internal/platform/net/http"
	"feasibility/internal/platform/net/middleware"
)

// CommonStack is the middleware every /api/v1 route runs through
// The access log sits outside Auth and still records the client Auth identifies
func CommonStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.RealIP,
		middleware.RecoverJSON,
		middleware.NoCache,
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: 500 * time.Millisecond}),
		middleware.CORS(middleware.CORSOptions{}),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.StripSlashes,
		middleware.Timeout(30 * time.Second),
	}
}

// Auth is middleware.Auth writing rejections with phttp.JSON
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p, phttp.JSON)
}
